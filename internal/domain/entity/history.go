package entity

import "time"

// ItemHistory snapshot inmutable de un artículo tras una mutación.
// HistoryID es monotónico por artículo; HistoryUser es el actor que causó
// el cambio. Las filas de historial nunca se editan ni se borran.
type ItemHistory struct {
	HistoryID   int64
	HistoryUser string
	ID          string
	Name        string
	UnitID      string
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// TransactionHistory snapshot inmutable de una transacción tras una
// mutación (create, edición de cabecera, anulación, borrado o restore).
type TransactionHistory struct {
	HistoryID   int64
	HistoryUser string
	ID          string
	Direction   Direction
	TransactionHeader
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemSnapshot construye la fila de historial de un artículo. El HistoryID
// definitivo lo asigna el repositorio dentro de la misma transacción.
func ItemSnapshot(item *Item, actor string) *ItemHistory {
	return &ItemHistory{
		HistoryUser: actor,
		ID:          item.ID,
		Name:        item.Name,
		UnitID:      item.UnitID,
		Stock:       item.Stock,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		DeletedAt:   item.DeletedAt,
	}
}

// TransactionSnapshot construye la fila de historial de una transacción.
func TransactionSnapshot(tx *LedgerTransaction, actor string) *TransactionHistory {
	return &TransactionHistory{
		HistoryUser:       actor,
		ID:                tx.ID,
		Direction:         tx.Direction,
		TransactionHeader: tx.TransactionHeader,
		DeletedAt:         tx.DeletedAt,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}
