package dto

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransferLineRequest una línea artículo-cantidad en la creación.
type TransferLineRequest struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

// CreateTransactionRequest cuerpo para crear una transacción.
// Supplier aplica a entradas y Customer a salidas; el otro se ignora.
// DateReceived solo aplica a entradas.
type CreateTransactionRequest struct {
	Supplier              string                `json:"supplier"`
	Customer              string                `json:"customer"`
	DeliveryReceipt       *string               `json:"deliveryReceipt"`
	DateOfDeliveryReceipt *time.Time            `json:"dateOfDeliveryReceipt"`
	DateReceived          *time.Time            `json:"dateReceived"`
	Transfers             []TransferLineRequest `json:"transfers"`
}

// Counterparty devuelve el campo que corresponde a la dirección.
func (r CreateTransactionRequest) Counterparty(d entity.Direction) string {
	if d == entity.DirectionIn {
		return r.Supplier
	}
	return r.Customer
}

// EditTransactionRequest cuerpo para editar la cabecera. Las líneas son
// inmutables después de la creación; void=true dispara la anulación.
type EditTransactionRequest struct {
	Supplier              string     `json:"supplier"`
	Customer              string     `json:"customer"`
	DeliveryReceipt       *string    `json:"deliveryReceipt"`
	DateOfDeliveryReceipt *time.Time `json:"dateOfDeliveryReceipt"`
	DateReceived          *time.Time `json:"dateReceived"`
	Void                  bool       `json:"void"`
}

// Counterparty devuelve el campo que corresponde a la dirección.
func (r EditTransactionRequest) Counterparty(d entity.Direction) string {
	if d == entity.DirectionIn {
		return r.Supplier
	}
	return r.Customer
}

// ListTransactionsRequest parámetros de listado.
type ListTransactionsRequest struct {
	Search string `query:"search"`
	Date   string `query:"date"`   // YYYY-MM-DD, día completo
	Cursor string `query:"cursor"` // id de la última fila vista
}

// TransferLineDTO línea enriquecida en respuestas de lectura.
type TransferLineDTO struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
	ItemName string `json:"itemName"`
	UnitName string `json:"unitName"`
}

// TransactionResponse cabecera + líneas en respuestas de lectura.
type TransactionResponse struct {
	ID                    string            `json:"id"`
	Supplier              string            `json:"supplier,omitempty"`
	Customer              string            `json:"customer,omitempty"`
	DeliveryReceipt       *string           `json:"deliveryReceipt"`
	DateOfDeliveryReceipt *time.Time        `json:"dateOfDeliveryReceipt"`
	DateReceived          *time.Time        `json:"dateReceived,omitempty"`
	Void                  bool              `json:"void"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
	DeletedAt             *time.Time        `json:"deletedAt,omitempty"`
	Transfers             []TransferLineDTO `json:"transfers"`
}

// TransactionPage página de transacciones. Count es el total bajo los
// filtros actuales, independiente de la paginación.
type TransactionPage struct {
	Count   int64                 `json:"count"`
	Results []TransactionResponse `json:"results"`
}

// TransactionHistoryDTO snapshot de historial de una transacción.
type TransactionHistoryDTO struct {
	HistoryID             int64      `json:"historyId"`
	HistoryUser           string     `json:"historyUser"`
	ID                    string     `json:"id"`
	Supplier              string     `json:"supplier,omitempty"`
	Customer              string     `json:"customer,omitempty"`
	DeliveryReceipt       *string    `json:"deliveryReceipt"`
	DateOfDeliveryReceipt *time.Time `json:"dateOfDeliveryReceipt"`
	DateReceived          *time.Time `json:"dateReceived,omitempty"`
	Void                  bool       `json:"void"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	DeletedAt             *time.Time `json:"deletedAt,omitempty"`
}

// TransactionHistoryPage página de historial de una transacción.
type TransactionHistoryPage struct {
	Count   int64                   `json:"count"`
	Results []TransactionHistoryDTO `json:"results"`
}

// FromTransaction mapea la entidad a su respuesta HTTP.
func FromTransaction(tx *entity.LedgerTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                    tx.ID,
		DeliveryReceipt:       tx.DeliveryReceipt,
		DateOfDeliveryReceipt: tx.DateOfDeliveryReceipt,
		Void:                  tx.Void,
		CreatedAt:             tx.CreatedAt,
		UpdatedAt:             tx.UpdatedAt,
		DeletedAt:             tx.DeletedAt,
		Transfers:             make([]TransferLineDTO, 0, len(tx.Transfers)),
	}
	if tx.Direction == entity.DirectionIn {
		resp.Supplier = tx.Counterparty
		resp.DateReceived = tx.DateReceived
	} else {
		resp.Customer = tx.Counterparty
	}
	for _, line := range tx.Transfers {
		resp.Transfers = append(resp.Transfers, TransferLineDTO{
			Item:     line.ItemID,
			Quantity: line.Quantity,
			ItemName: line.ItemName,
			UnitName: line.UnitName,
		})
	}
	return resp
}

// FromTransactionHistory mapea la fila de historial a su DTO.
func FromTransactionHistory(h *entity.TransactionHistory) TransactionHistoryDTO {
	dto := TransactionHistoryDTO{
		HistoryID:             h.HistoryID,
		HistoryUser:           h.HistoryUser,
		ID:                    h.ID,
		DeliveryReceipt:       h.DeliveryReceipt,
		DateOfDeliveryReceipt: h.DateOfDeliveryReceipt,
		Void:                  h.Void,
		CreatedAt:             h.CreatedAt,
		UpdatedAt:             h.UpdatedAt,
		DeletedAt:             h.DeletedAt,
	}
	if h.Direction == entity.DirectionIn {
		dto.Supplier = h.Counterparty
		dto.DateReceived = h.DateReceived
	} else {
		dto.Customer = h.Counterparty
	}
	return dto
}
