package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo lectura de unidades de medida. El catálogo es fijo (se carga
// con el schema), así que no hay mutaciones.
type UnitRepo struct {
	q Querier
}

func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func (r *UnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, &u)
	}
	return units, rows.Err()
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	var u entity.Unit
	err := r.q.QueryRow(ctx, `SELECT id, name FROM units WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}
