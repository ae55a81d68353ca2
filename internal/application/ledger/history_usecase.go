package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// HistoryUseCase lectura del historial de auditoría de transacciones.
// Solo lee: los snapshots los escriben los repositorios en la misma
// transacción de BD que la mutación que los causa.
type HistoryUseCase struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(historyRepo repository.HistoryRepository) *HistoryUseCase {
	return &HistoryUseCase{historyRepo: historyRepo}
}

// parseHistoryCursor interpreta el parámetro cursor como un historyId.
// Un cursor que no es numérico no puede referir ninguna fila de
// historial, así que cae en el mismo caso que un historyId inexistente.
func parseHistoryCursor(cursor string) (*int64, error) {
	if cursor == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cursor %s: %w", cursor, domain.ErrNotFound)
	}
	return &n, nil
}

// ListTransactionHistory devuelve la página más reciente primero
// (historyId DESC), estrictamente anterior al cursor si se indica.
// El cursor debe referir una fila de historial ya devuelta de esa
// entidad; si no resuelve, domain.ErrNotFound.
func (uc *HistoryUseCase) ListTransactionHistory(ctx context.Context, direction entity.Direction, id, cursor string) (*dto.TransactionHistoryPage, error) {
	count, err := uc.historyRepo.CountTransactionHistory(ctx, direction, id)
	if err != nil {
		return nil, err
	}

	filter := repository.HistoryFilter{Limit: PageSize}
	filter.Cursor, err = parseHistoryCursor(cursor)
	if err != nil {
		return nil, err
	}
	if filter.Cursor != nil {
		if err := uc.historyRepo.ResolveTransactionCursor(ctx, direction, id, *filter.Cursor); err != nil {
			return nil, err
		}
	}

	rows, err := uc.historyRepo.ListTransactionHistory(ctx, direction, id, filter)
	if err != nil {
		return nil, err
	}
	page := &dto.TransactionHistoryPage{Count: count, Results: make([]dto.TransactionHistoryDTO, 0, len(rows))}
	for _, h := range rows {
		page.Results = append(page.Results, dto.FromTransactionHistory(h))
	}
	return page, nil
}

// ListItemHistory historial de un artículo, mismo contrato de cursor.
func (uc *HistoryUseCase) ListItemHistory(ctx context.Context, id, cursor string) (*dto.ItemHistoryPage, error) {
	count, err := uc.historyRepo.CountItemHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	filter := repository.HistoryFilter{Limit: PageSize}
	filter.Cursor, err = parseHistoryCursor(cursor)
	if err != nil {
		return nil, err
	}
	if filter.Cursor != nil {
		if err := uc.historyRepo.ResolveItemCursor(ctx, id, *filter.Cursor); err != nil {
			return nil, err
		}
	}

	rows, err := uc.historyRepo.ListItemHistory(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	page := &dto.ItemHistoryPage{Count: count, Results: make([]dto.ItemHistoryDTO, 0, len(rows))}
	for _, h := range rows {
		page.Results = append(page.Results, dto.FromItemHistory(h))
	}
	return page, nil
}
