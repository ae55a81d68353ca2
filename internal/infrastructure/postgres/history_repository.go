package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo lectura del historial de transacciones y artículos. Los
// appends viven en LedgerRepo/ItemRepo, dentro de la transacción que
// causa la mutación; aquí solo hay SELECTs y pueden ir directo al pool.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador de lectura del historial.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

func historyCursorClause(f repository.HistoryFilter, args *[]any) string {
	if f.Cursor == nil {
		return ""
	}
	*args = append(*args, *f.Cursor)
	return fmt.Sprintf(" AND history_id < $%d", len(*args))
}

// ListTransactionHistory página del historial de una transacción,
// ordenada por history_id DESC (más reciente primero).
func (r *HistoryRepo) ListTransactionHistory(ctx context.Context, d entity.Direction, id string, f repository.HistoryFilter) ([]*entity.TransactionHistory, error) {
	cols := "history_id, history_user, id, " + counterpartyCol(d) + ", delivery_receipt, date_of_delivery_receipt, void, created_at, updated_at"
	if d == entity.DirectionIn {
		cols = "history_id, history_user, id, supplier, delivery_receipt, date_of_delivery_receipt, date_received, void, created_at, updated_at, deleted_at"
	}
	args := []any{id}
	where := "WHERE id = $1" + historyCursorClause(f, &args)
	args = append(args, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY history_id DESC LIMIT $%d`,
		cols, txHistoryTable(d), where, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", txHistoryTable(d), err)
	}
	defer rows.Close()

	var list []*entity.TransactionHistory
	for rows.Next() {
		h := &entity.TransactionHistory{Direction: d}
		dest := []any{&h.HistoryID, &h.HistoryUser, &h.ID, &h.Counterparty, &h.DeliveryReceipt, &h.DateOfDeliveryReceipt}
		if d == entity.DirectionIn {
			dest = append(dest, &h.DateReceived)
		}
		dest = append(dest, &h.Void, &h.CreatedAt, &h.UpdatedAt)
		if d == entity.DirectionIn {
			dest = append(dest, &h.DeletedAt)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", txHistoryTable(d), err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// CountTransactionHistory total de filas de historial de la entidad.
func (r *HistoryRepo) CountTransactionHistory(ctx context.Context, d entity.Direction, id string) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = $1`, txHistoryTable(d))
	if err := r.q.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", txHistoryTable(d), err)
	}
	return count, nil
}

// ResolveTransactionCursor verifica que (id, historyID) exista.
func (r *HistoryRepo) ResolveTransactionCursor(ctx context.Context, d entity.Direction, id string, historyID int64) error {
	var one int
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1 AND history_id = $2`, txHistoryTable(d))
	err := r.q.QueryRow(ctx, query, id, historyID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("history cursor %d: %w", historyID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolve history cursor: %w", err)
	}
	return nil
}

// ListItemHistory página del historial de un artículo por history_id DESC.
func (r *HistoryRepo) ListItemHistory(ctx context.Context, id string, f repository.HistoryFilter) ([]*entity.ItemHistory, error) {
	args := []any{id}
	where := "WHERE id = $1" + historyCursorClause(f, &args)
	args = append(args, f.Limit)
	query := fmt.Sprintf(`
		SELECT history_id, history_user, id, name, unit_id, stock, created_at, updated_at, deleted_at
		FROM item_histories %s ORDER BY history_id DESC LIMIT $%d`, where, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item_histories: %w", err)
	}
	defer rows.Close()

	var list []*entity.ItemHistory
	for rows.Next() {
		var h entity.ItemHistory
		if err := rows.Scan(&h.HistoryID, &h.HistoryUser, &h.ID, &h.Name, &h.UnitID,
			&h.Stock, &h.CreatedAt, &h.UpdatedAt, &h.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan item_histories: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// CountItemHistory total de filas de historial del artículo.
func (r *HistoryRepo) CountItemHistory(ctx context.Context, id string) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM item_histories WHERE id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count item_histories: %w", err)
	}
	return count, nil
}

// ResolveItemCursor verifica que (id, historyID) exista.
func (r *HistoryRepo) ResolveItemCursor(ctx context.Context, id string, historyID int64) error {
	var one int
	err := r.q.QueryRow(ctx, `SELECT 1 FROM item_histories WHERE id = $1 AND history_id = $2`, id, historyID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("history cursor %d: %w", historyID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolve history cursor: %w", err)
	}
	return nil
}
