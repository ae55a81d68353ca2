package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL
// (usable con pool o tx). Una sola implementación cubre entradas y
// salidas: la dirección decide tabla y columna de contraparte.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func txTable(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "in_transactions"
	}
	return "out_transactions"
}

func txHistoryTable(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "in_transaction_histories"
	}
	return "out_transaction_histories"
}

func transferTable(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "in_transfers"
	}
	return "out_transfers"
}

func counterpartyCol(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "supplier"
	}
	return "customer"
}

func txJoinCol(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "in_transaction"
	}
	return "out_transaction"
}

func transferJoinCol(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "in_transfer"
	}
	return "out_transfer"
}

// txColumns lista de columnas de la tabla de transacciones. Las entradas
// llevan además date_received y deleted_at.
func txColumns(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "id, supplier, delivery_receipt, date_of_delivery_receipt, date_received, void, created_at, updated_at, deleted_at"
	}
	return "id, customer, delivery_receipt, date_of_delivery_receipt, void, created_at, updated_at"
}

// scanDest destinos de Scan en el mismo orden que txColumns.
func scanDest(tx *entity.LedgerTransaction) []any {
	dest := []any{&tx.ID, &tx.Counterparty, &tx.DeliveryReceipt, &tx.DateOfDeliveryReceipt}
	if tx.Direction == entity.DirectionIn {
		dest = append(dest, &tx.DateReceived)
	}
	dest = append(dest, &tx.Void, &tx.CreatedAt, &tx.UpdatedAt)
	if tx.Direction == entity.DirectionIn {
		dest = append(dest, &tx.DeletedAt)
	}
	return dest
}

// CreateTransaction inserta cabecera, fila join (con la otra referencia
// en NULL) y la primera fila de historial, con los timestamps ya
// estampados en la entidad.
func (r *LedgerRepo) CreateTransaction(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	var err error
	if tx.Direction == entity.DirectionIn {
		_, err = r.q.Exec(ctx, `
			INSERT INTO in_transactions (id, supplier, delivery_receipt, date_of_delivery_receipt, date_received, void, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			tx.ID, tx.Counterparty, tx.DeliveryReceipt, tx.DateOfDeliveryReceipt, tx.DateReceived, tx.Void, tx.CreatedAt, tx.UpdatedAt)
	} else {
		_, err = r.q.Exec(ctx, `
			INSERT INTO out_transactions (id, customer, delivery_receipt, date_of_delivery_receipt, void, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			tx.ID, tx.Counterparty, tx.DeliveryReceipt, tx.DateOfDeliveryReceipt, tx.Void, tx.CreatedAt, tx.UpdatedAt)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", txTable(tx.Direction), err)
	}

	var inRef, outRef *string
	if tx.Direction == entity.DirectionIn {
		inRef = &tx.ID
	} else {
		outRef = &tx.ID
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO transactions (id, in_transaction, out_transaction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), inRef, outRef, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transaction join: %w", err)
	}

	return r.appendHistory(ctx, tx, actor)
}

// appendHistory agrega el snapshot con history_id monotónico por
// entidad, calculado dentro de la misma transacción de BD.
func (r *LedgerRepo) appendHistory(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	var err error
	if tx.Direction == entity.DirectionIn {
		_, err = r.q.Exec(ctx, `
			INSERT INTO in_transaction_histories (id, supplier, delivery_receipt, date_of_delivery_receipt, date_received, void, created_at, updated_at, deleted_at, history_id, history_user)
			SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE(MAX(history_id), 0) + 1, $10
			FROM in_transaction_histories WHERE id = $1`,
			tx.ID, tx.Counterparty, tx.DeliveryReceipt, tx.DateOfDeliveryReceipt, tx.DateReceived,
			tx.Void, tx.CreatedAt, tx.UpdatedAt, tx.DeletedAt, actor)
	} else {
		_, err = r.q.Exec(ctx, `
			INSERT INTO out_transaction_histories (id, customer, delivery_receipt, date_of_delivery_receipt, void, created_at, updated_at, history_id, history_user)
			SELECT $1, $2, $3, $4, $5, $6, $7, COALESCE(MAX(history_id), 0) + 1, $8
			FROM out_transaction_histories WHERE id = $1`,
			tx.ID, tx.Counterparty, tx.DeliveryReceipt, tx.DateOfDeliveryReceipt,
			tx.Void, tx.CreatedAt, tx.UpdatedAt, actor)
	}
	if err != nil {
		return fmt.Errorf("append %s: %w", txHistoryTable(tx.Direction), err)
	}
	return nil
}

// CreateTransferLine inserta la línea y su fila join, con los
// timestamps de la transacción dueña. Una referencia a un artículo
// inexistente sale como domain.ErrNotFound.
func (r *LedgerRepo) CreateTransferLine(ctx context.Context, d entity.Direction, line *entity.TransferLine) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, transaction, item, seq, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, transferTable(d))
	_, err := r.q.Exec(ctx, query,
		line.ID, line.TransactionID, line.ItemID, line.Seq, line.Quantity, line.CreatedAt, line.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("item %s: %w", line.ItemID, domain.ErrNotFound)
		}
		return fmt.Errorf("create %s: %w", transferTable(d), err)
	}

	var inRef, outRef *string
	if d == entity.DirectionIn {
		inRef = &line.ID
	} else {
		outRef = &line.ID
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO transfers (id, in_transfer, out_transfer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), inRef, outRef, line.CreatedAt, line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transfer join: %w", err)
	}
	return nil
}

// GetForUpdate carga la transacción con sus líneas (sin enriquecer) y
// bloquea la fila de cabecera.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, d entity.Direction, id string) (*entity.LedgerTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, txColumns(d), txTable(d))
	tx := &entity.LedgerTransaction{Direction: d}
	if err := r.q.QueryRow(ctx, query, id).Scan(scanDest(tx)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s for update: %w", txTable(d), err)
	}

	lines, err := r.q.Query(ctx, fmt.Sprintf(`
		SELECT id, transaction, item, seq, quantity, created_at, updated_at
		FROM %s WHERE transaction = $1
		ORDER BY seq`, transferTable(d)), id)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", transferTable(d), err)
	}
	defer lines.Close()
	for lines.Next() {
		var line entity.TransferLine
		if err := lines.Scan(&line.ID, &line.TransactionID, &line.ItemID, &line.Seq, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", transferTable(d), err)
		}
		tx.Transfers = append(tx.Transfers, line)
	}
	if err := lines.Err(); err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateHeader persiste la cabecera, retoca updated_at de la fila join
// y agrega la fila de historial.
func (r *LedgerRepo) UpdateHeader(ctx context.Context, tx *entity.LedgerTransaction, actor string) error {
	var err error
	if tx.Direction == entity.DirectionIn {
		_, err = r.q.Exec(ctx, `
			UPDATE in_transactions
			SET supplier = $2, delivery_receipt = $3, date_of_delivery_receipt = $4, date_received = $5, void = $6, updated_at = $7, deleted_at = $8
			WHERE id = $1`,
			tx.ID, tx.Counterparty, tx.DeliveryReceipt, tx.DateOfDeliveryReceipt, tx.DateReceived, tx.Void, tx.UpdatedAt, tx.DeletedAt)
	} else {
		_, err = r.q.Exec(ctx, `
			UPDATE out_transactions
			SET customer = $2, delivery_receipt = $3, date_of_delivery_receipt = $4, void = $5, updated_at = $6
			WHERE id = $1`,
			tx.ID, tx.Counterparty, tx.DeliveryReceipt, tx.DateOfDeliveryReceipt, tx.Void, tx.UpdatedAt)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", txTable(tx.Direction), err)
	}

	query := fmt.Sprintf(`UPDATE transactions SET updated_at = $2 WHERE %s = $1`, txJoinCol(tx.Direction))
	if _, err := r.q.Exec(ctx, query, tx.ID, tx.UpdatedAt); err != nil {
		return fmt.Errorf("touch transaction join: %w", err)
	}

	return r.appendHistory(ctx, tx, actor)
}

// TouchLine fija updated_at de la línea y de su fila join (cascada de
// anulación: las líneas comparten la hora efectiva de la edición).
func (r *LedgerRepo) TouchLine(ctx context.Context, d entity.Direction, lineID string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET updated_at = $2 WHERE id = $1`, transferTable(d))
	if _, err := r.q.Exec(ctx, query, lineID, at); err != nil {
		return fmt.Errorf("touch %s: %w", transferTable(d), err)
	}
	query = fmt.Sprintf(`UPDATE transfers SET updated_at = $2 WHERE %s = $1`, transferJoinCol(d))
	if _, err := r.q.Exec(ctx, query, lineID, at); err != nil {
		return fmt.Errorf("touch transfer join: %w", err)
	}
	return nil
}

// GetByID carga la transacción con líneas enriquecidas con nombre de
// artículo y unidad, leídos en el momento de la consulta (incluye
// artículos borrados lógicamente: siguen siendo referencia histórica).
func (r *LedgerRepo) GetByID(ctx context.Context, d entity.Direction, id string) (*entity.LedgerTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, txColumns(d), txTable(d))
	tx := &entity.LedgerTransaction{Direction: d}
	if err := r.q.QueryRow(ctx, query, id).Scan(scanDest(tx)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", txTable(d), err)
	}

	byTx, err := r.loadLines(ctx, d, []string{id})
	if err != nil {
		return nil, err
	}
	tx.Transfers = byTx[id]
	return tx, nil
}

// loadLines carga las líneas enriquecidas de un conjunto de
// transacciones en una sola consulta, en el orden seq de cada
// transacción.
func (r *LedgerRepo) loadLines(ctx context.Context, d entity.Direction, ids []string) (map[string][]entity.TransferLine, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.transaction, t.item, t.seq, t.quantity, t.created_at, t.updated_at, i.name, u.name
		FROM %s t
		JOIN items i ON i.id = t.item
		JOIN units u ON u.id = i.unit_id
		WHERE t.transaction = ANY($1)
		ORDER BY t.seq`, transferTable(d))
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", transferTable(d), err)
	}
	defer rows.Close()

	byTx := make(map[string][]entity.TransferLine, len(ids))
	for rows.Next() {
		var line entity.TransferLine
		if err := rows.Scan(&line.ID, &line.TransactionID, &line.ItemID, &line.Seq, &line.Quantity,
			&line.CreatedAt, &line.UpdatedAt, &line.ItemName, &line.UnitName); err != nil {
			return nil, fmt.Errorf("scan %s: %w", transferTable(d), err)
		}
		byTx[line.TransactionID] = append(byTx[line.TransactionID], line)
	}
	return byTx, rows.Err()
}

// listWhere arma el WHERE compartido por List y Count. Count ignora el
// cursor por contrato: es el total bajo los filtros actuales.
func listWhere(d entity.Direction, f repository.LedgerFilter, withCursor bool) (string, []any) {
	where := "WHERE 1=1"
	if d == entity.DirectionIn {
		where += " AND deleted_at IS NULL"
	}
	var args []any
	if f.Search != "" {
		args = append(args, f.Search)
		where += fmt.Sprintf(" AND unaccent(%s) ILIKE unaccent('%%' || $%d || '%%')", counterpartyCol(d), len(args))
	}
	if f.Date != nil {
		args = append(args, *f.Date, f.Date.Add(24*time.Hour))
		where += fmt.Sprintf(" AND created_at >= $%d AND created_at < $%d", len(args)-1, len(args))
	}
	if withCursor && f.Cursor != nil {
		args = append(args, f.Cursor.CreatedAt, f.Cursor.ID)
		where += fmt.Sprintf(" AND (created_at < $%d OR (created_at = $%d AND id < $%d))",
			len(args)-1, len(args)-1, len(args))
	}
	return where, args
}

// List página ordenada por (created_at DESC, id DESC), keyset
// estrictamente menor que el cursor.
func (r *LedgerRepo) List(ctx context.Context, d entity.Direction, f repository.LedgerFilter) ([]*entity.LedgerTransaction, error) {
	where, args := listWhere(d, f, true)
	args = append(args, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY created_at DESC, id DESC LIMIT $%d`,
		txColumns(d), txTable(d), where, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", txTable(d), err)
	}
	defer rows.Close()

	var list []*entity.LedgerTransaction
	var ids []string
	for rows.Next() {
		tx := &entity.LedgerTransaction{Direction: d}
		if err := rows.Scan(scanDest(tx)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", txTable(d), err)
		}
		list = append(list, tx)
		ids = append(ids, tx.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	byTx, err := r.loadLines(ctx, d, ids)
	if err != nil {
		return nil, err
	}
	for _, tx := range list {
		tx.Transfers = byTx[tx.ID]
	}
	return list, nil
}

// Count total bajo los filtros actuales, recalculado en cada llamada.
func (r *LedgerRepo) Count(ctx context.Context, d entity.Direction, f repository.LedgerFilter) (int64, error) {
	where, args := listWhere(d, f, false)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, txTable(d), where)
	var count int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", txTable(d), err)
	}
	return count, nil
}

// ResolveCursor busca la clave de ordenación de la fila referida.
func (r *LedgerRepo) ResolveCursor(ctx context.Context, d entity.Direction, id string) (*repository.Cursor, error) {
	query := fmt.Sprintf(`SELECT created_at, id FROM %s WHERE id = $1`, txTable(d))
	var c repository.Cursor
	if err := r.q.QueryRow(ctx, query, id).Scan(&c.CreatedAt, &c.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cursor %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve cursor: %w", err)
	}
	return &c, nil
}
