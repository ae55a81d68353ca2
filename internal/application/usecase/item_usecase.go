package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ItemUseCase altas y lecturas de artículos. El stock nunca se escribe
// por esta vía: nace en 0 y solo lo mueve el motor de transferencias.
type ItemUseCase struct {
	itemRepo repository.ItemRepository
	unitRepo repository.UnitRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.ItemRepository, unitRepo repository.UnitRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, unitRepo: unitRepo}
}

// Create da de alta un artículo con stock 0 y su primera fila de historial.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, actor string) (string, error) {
	if in.Name == "" {
		return "", domain.Validationf("name", "cannot be empty")
	}
	if in.Unit == "" {
		return "", domain.Validationf("unit", "cannot be empty")
	}
	unit, err := uc.unitRepo.GetByID(ctx, in.Unit)
	if err != nil {
		return "", err
	}
	if unit == nil {
		return "", fmt.Errorf("unit %s: %w", in.Unit, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      in.Name,
		UnitID:    in.Unit,
		Stock:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.itemRepo.Create(ctx, item, actor); err != nil {
		return "", err
	}
	return item.ID, nil
}

// Get devuelve un artículo (incluye borrados lógicos, como referencia
// histórica de transacciones viejas).
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	resp := dto.FromItem(item)
	return &resp, nil
}

// List página de artículos vivos, mismo protocolo de cursor que el libro.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ListItemsRequest) (*dto.ItemPage, error) {
	filter := repository.ItemFilter{Search: in.Search, Limit: listPageSize}

	count, err := uc.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if in.Cursor != "" {
		cursor, err := uc.itemRepo.ResolveCursor(ctx, in.Cursor)
		if err != nil {
			return nil, err
		}
		filter.Cursor = cursor
	}

	rows, err := uc.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &dto.ItemPage{Count: count, Results: make([]dto.ItemResponse, 0, len(rows))}
	for _, item := range rows {
		page.Results = append(page.Results, dto.FromItem(item))
	}
	return page, nil
}

// ListUnits unidades de medida disponibles para el alta de artículos.
func (uc *ItemUseCase) ListUnits(ctx context.Context) ([]*entity.Unit, error) {
	return uc.unitRepo.List(ctx)
}

// listPageSize mismo tope que los listados del libro.
const listPageSize = 100
