package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ItemFilter filtros de listado de artículos. Excluye borrados lógicos.
type ItemFilter struct {
	Search string
	Cursor *Cursor
	Limit  int
}

// ItemRepository puerto de persistencia de artículos. GetForUpdate,
// Touch y UpdateStock solo tienen sentido dentro de una transacción de
// BD: son los tres pasos del motor de transferencias.
type ItemRepository interface {
	// Create inserta el artículo y su primera fila de historial de forma
	// atómica. Stock inicial 0.
	Create(ctx context.Context, item *entity.Item, actor string) error
	// GetByID devuelve el artículo con el nombre de unidad enriquecido,
	// incluyendo borrados lógicos. nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
	Count(ctx context.Context, f ItemFilter) (int64, error)
	ResolveCursor(ctx context.Context, id string) (*Cursor, error)

	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) y
	// devuelve su estado actual. nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Touch fija updated_at al timestamp efectivo de la transacción
	// dueña, antes de releer el stock bajo bloqueo.
	Touch(ctx context.Context, id string, at time.Time) error
	// UpdateStock persiste el nuevo stock con el mismo timestamp efectivo
	// (hora lógica de la transacción, no de inserción) y agrega la fila
	// de historial del artículo.
	UpdateStock(ctx context.Context, item *entity.Item, at time.Time, actor string) error
}

// UnitRepository puerto de lectura de unidades de medida.
type UnitRepository interface {
	List(ctx context.Context) ([]*entity.Unit, error)
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
}
