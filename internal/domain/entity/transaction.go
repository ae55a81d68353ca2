package entity

import "time"

// Direction sentido de una transacción del kardex.
type Direction string

const (
	DirectionIn  Direction = "IN"  // entrada: suma stock
	DirectionOut Direction = "OUT" // salida: resta stock
)

// Sign devuelve el signo que la dirección aplica sobre el stock.
func (d Direction) Sign() int64 {
	if d == DirectionOut {
		return -1
	}
	return 1
}

// Valid reporta si la dirección es IN u OUT.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// TransactionHeader campos de cabecera de una transacción (sin líneas).
// Counterparty es el proveedor en entradas y el cliente en salidas.
type TransactionHeader struct {
	Counterparty          string
	DeliveryReceipt       *string
	DateOfDeliveryReceipt *time.Time
	DateReceived          *time.Time // solo entradas
	Void                  bool
}

// LedgerTransaction un evento de entrega (entrada o salida) con sus líneas.
// Una vez Void pasa a true no hay vuelta atrás: la anulación es terminal.
type LedgerTransaction struct {
	ID        string
	Direction Direction
	TransactionHeader
	DeletedAt *time.Time // borrado lógico, solo entradas
	CreatedAt time.Time
	UpdatedAt time.Time
	Transfers []TransferLine
}

// TransferLine una línea artículo-cantidad dentro de una transacción.
// Se crea junto con su transacción y no se edita después, salvo el
// retoque de updated_at durante la cascada de anulación.
type TransferLine struct {
	ID            string
	TransactionID string
	ItemID        string
	Seq           int64 // posición dentro de la transacción; fija el orden de lectura
	Quantity      int64
	ItemName      string // enriquecido en lecturas
	UnitName      string // enriquecido en lecturas
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
