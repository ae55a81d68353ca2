package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Cursor clave de ordenación de la última fila vista, para paginación
// keyset sobre (created_at DESC, id DESC). La clave es compuesta porque
// created_at no es único.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// LedgerFilter filtros de listado del libro de transacciones.
// Count se calcula con Search y Date, ignorando Cursor.
type LedgerFilter struct {
	Search string     // subcadena sobre proveedor/cliente
	Date   *time.Time // día completo [Date, Date+24h)
	Cursor *Cursor
	Limit  int
}

// LedgerRepository puerto de persistencia del libro de transacciones
// (entradas y salidas) y sus líneas. Las mutaciones asumen ejecutarse
// dentro de una transacción de BD (vía TxRunner); las lecturas no toman
// bloqueos y pueden ir directo al pool.
type LedgerRepository interface {
	// CreateTransaction inserta la fila in/out, su fila join en
	// transactions (con la otra referencia en NULL) y la primera fila de
	// historial, todo con los timestamps ya estampados en la entidad.
	CreateTransaction(ctx context.Context, tx *entity.LedgerTransaction, actor string) error
	// CreateTransferLine inserta la línea in/out y su fila join en
	// transfers, con los timestamps de la transacción dueña. Seq fija el
	// orden de las líneas dentro de su transacción; todas las lecturas
	// las devuelven ordenadas por Seq ascendente.
	CreateTransferLine(ctx context.Context, direction entity.Direction, line *entity.TransferLine) error
	// GetForUpdate carga la transacción con sus líneas y bloquea la fila
	// de cabecera (SELECT FOR UPDATE). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, direction entity.Direction, id string) (*entity.LedgerTransaction, error)
	// UpdateHeader persiste la cabecera (incl. void y deleted_at), retoca
	// updated_at de la fila join y agrega la fila de historial.
	UpdateHeader(ctx context.Context, tx *entity.LedgerTransaction, actor string) error
	// TouchLine fija updated_at de la línea y de su fila join al
	// timestamp efectivo de la edición (cascada de anulación).
	TouchLine(ctx context.Context, direction entity.Direction, lineID string, at time.Time) error

	// GetByID carga la transacción con líneas enriquecidas (nombre de
	// artículo y unidad, leídos en el momento de la consulta). nil si no existe.
	GetByID(ctx context.Context, direction entity.Direction, id string) (*entity.LedgerTransaction, error)
	List(ctx context.Context, direction entity.Direction, f LedgerFilter) ([]*entity.LedgerTransaction, error)
	Count(ctx context.Context, direction entity.Direction, f LedgerFilter) (int64, error)
	// ResolveCursor busca la clave de ordenación de la fila referida por
	// el cursor. domain.ErrNotFound si el cursor no resuelve.
	ResolveCursor(ctx context.Context, direction entity.Direction, id string) (*Cursor, error)
}
