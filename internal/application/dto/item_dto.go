package dto

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// CreateItemRequest alta de un artículo. El stock inicial es siempre 0:
// solo el motor de transferencias lo mueve después.
type CreateItemRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// ListItemsRequest parámetros de listado de artículos.
type ListItemsRequest struct {
	Search string `query:"search"`
	Cursor string `query:"cursor"`
}

// ItemResponse artículo en respuestas de lectura.
type ItemResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Unit      string     `json:"unit"`
	UnitName  string     `json:"unitName"`
	Stock     int64      `json:"stock"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// ItemPage página de artículos.
type ItemPage struct {
	Count   int64          `json:"count"`
	Results []ItemResponse `json:"results"`
}

// UnitResponse unidad de medida en respuestas de lectura.
type UnitResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FromUnit mapea la entidad a su respuesta HTTP.
func FromUnit(u *entity.Unit) UnitResponse {
	return UnitResponse{ID: u.ID, Name: u.Name}
}

// ItemHistoryDTO snapshot de historial de un artículo.
type ItemHistoryDTO struct {
	HistoryID   int64      `json:"historyId"`
	HistoryUser string     `json:"historyUser"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Unit        string     `json:"unit"`
	Stock       int64      `json:"stock"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// ItemHistoryPage página de historial de un artículo.
type ItemHistoryPage struct {
	Count   int64            `json:"count"`
	Results []ItemHistoryDTO `json:"results"`
}

// FromItem mapea la entidad a su respuesta HTTP.
func FromItem(item *entity.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Unit:      item.UnitID,
		UnitName:  item.UnitName,
		Stock:     item.Stock,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		DeletedAt: item.DeletedAt,
	}
}

// FromItemHistory mapea la fila de historial a su DTO.
func FromItemHistory(h *entity.ItemHistory) ItemHistoryDTO {
	return ItemHistoryDTO{
		HistoryID:   h.HistoryID,
		HistoryUser: h.HistoryUser,
		ID:          h.ID,
		Name:        h.Name,
		Unit:        h.UnitID,
		Stock:       h.Stock,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
		DeletedAt:   h.DeletedAt,
	}
}
