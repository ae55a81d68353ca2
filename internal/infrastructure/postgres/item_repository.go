package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `i.id, i.name, i.unit_id, u.name, i.stock, i.created_at, i.updated_at, i.deleted_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	err := row.Scan(&i.ID, &i.Name, &i.UnitID, &i.UnitName, &i.Stock, &i.CreatedAt, &i.UpdatedAt, &i.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create inserta el artículo y su primera fila de historial en una sola
// sentencia (CTE), de modo que ambas existen o ninguna aunque el caller
// no use TxRunner.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item, actor string) error {
	_, err := r.q.Exec(ctx, `
		WITH ins AS (
			INSERT INTO items (id, name, unit_id, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, name, unit_id, stock, created_at, updated_at
		)
		INSERT INTO item_histories (id, name, unit_id, stock, created_at, updated_at, history_id, history_user)
		SELECT id, name, unit_id, stock, created_at, updated_at, 1, $7 FROM ins`,
		item.ID, item.Name, item.UnitID, item.Stock, item.CreatedAt, item.UpdatedAt, actor)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("unit %s: %w", item.UnitID, domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return domain.Validationf("name", "an item with this name already exists")
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID carga el artículo con el nombre de su unidad, incluyendo
// borrados lógicos (siguen siendo referencia histórica). nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM items i JOIN units u ON u.id = i.unit_id
		WHERE i.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func itemListWhere(f repository.ItemFilter, withCursor bool) (string, []any) {
	where := "WHERE i.deleted_at IS NULL"
	var args []any
	if f.Search != "" {
		args = append(args, f.Search)
		where += fmt.Sprintf(" AND unaccent(i.name) ILIKE unaccent('%%' || $%d || '%%')", len(args))
	}
	if withCursor && f.Cursor != nil {
		args = append(args, f.Cursor.CreatedAt, f.Cursor.ID)
		where += fmt.Sprintf(" AND (i.created_at < $%d OR (i.created_at = $%d AND i.id < $%d))",
			len(args)-1, len(args)-1, len(args))
	}
	return where, args
}

// List página de artículos por (created_at DESC, id DESC).
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	where, args := itemListWhere(f, true)
	args = append(args, f.Limit)
	query := fmt.Sprintf(`
		SELECT `+itemColumns+`
		FROM items i JOIN units u ON u.id = i.unit_id
		%s ORDER BY i.created_at DESC, i.id DESC LIMIT $%d`, where, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Count total de artículos bajo los filtros actuales, sin cursor.
func (r *ItemRepo) Count(ctx context.Context, f repository.ItemFilter) (int64, error) {
	where, args := itemListWhere(f, false)
	var count int64
	err := r.q.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM items i %s`, where), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// ResolveCursor busca la clave de ordenación del artículo referido.
func (r *ItemRepo) ResolveCursor(ctx context.Context, id string) (*repository.Cursor, error) {
	var c repository.Cursor
	err := r.q.QueryRow(ctx, `SELECT created_at, id FROM items WHERE id = $1`, id).Scan(&c.CreatedAt, &c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cursor %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve cursor: %w", err)
	}
	return &c, nil
}

// GetForUpdate bloquea la fila del artículo y la devuelve. nil si no
// existe. El bloqueo serializa los ajustes de stock concurrentes.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	var i entity.Item
	err := r.q.QueryRow(ctx, `
		SELECT id, name, unit_id, stock, created_at, updated_at, deleted_at
		FROM items WHERE id = $1
		FOR UPDATE`, id).
		Scan(&i.ID, &i.Name, &i.UnitID, &i.Stock, &i.CreatedAt, &i.UpdatedAt, &i.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return &i, nil
}

// Touch fija updated_at del artículo a la hora efectiva de la
// transacción que lo toca.
func (r *ItemRepo) Touch(ctx context.Context, id string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE items SET updated_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("touch item: %w", err)
	}
	return nil
}

// UpdateStock persiste el stock ya ajustado y agrega la fila de
// historial. Llamar siempre con la fila bloqueada (GetForUpdate).
func (r *ItemRepo) UpdateStock(ctx context.Context, item *entity.Item, at time.Time, actor string) error {
	_, err := r.q.Exec(ctx, `UPDATE items SET stock = $2, updated_at = $3 WHERE id = $1`,
		item.ID, item.Stock, at)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO item_histories (id, name, unit_id, stock, created_at, updated_at, deleted_at, history_id, history_user)
		SELECT $1, $2, $3, $4, $5, $6, $7, COALESCE(MAX(history_id), 0) + 1, $8
		FROM item_histories WHERE id = $1`,
		item.ID, item.Name, item.UnitID, item.Stock, item.CreatedAt, at, item.DeletedAt, actor)
	if err != nil {
		return fmt.Errorf("append item history: %w", err)
	}
	return nil
}
