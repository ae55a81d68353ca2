package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// HistoryFilter paginación keyset sobre history_id DESC: la página
// excluye todo lo que esté en o después del cursor.
type HistoryFilter struct {
	Cursor *int64
	Limit  int
}

// HistoryRepository puerto de lectura del historial. Los appends los
// hacen los repositorios de cada entidad dentro de la misma transacción
// que la mutación; aquí solo se lee (las lecturas nunca escriben).
type HistoryRepository interface {
	ListTransactionHistory(ctx context.Context, direction entity.Direction, id string, f HistoryFilter) ([]*entity.TransactionHistory, error)
	CountTransactionHistory(ctx context.Context, direction entity.Direction, id string) (int64, error)
	// ResolveTransactionCursor verifica que el cursor refiera una fila de
	// historial existente de esa entidad. domain.ErrNotFound si no.
	ResolveTransactionCursor(ctx context.Context, direction entity.Direction, id string, historyID int64) error

	ListItemHistory(ctx context.Context, id string, f HistoryFilter) ([]*entity.ItemHistory, error)
	CountItemHistory(ctx context.Context, id string) (int64, error)
	ResolveItemCursor(ctx context.Context, id string, historyID int64) error
}
