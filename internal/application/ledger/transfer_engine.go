package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TransferEngine aplica el efecto de una línea sobre el stock de su
// artículo, bajo bloqueo exclusivo de fila. Es el único punto del
// sistema que escribe stock. Debe invocarse dentro de un TxRunner.Run:
// el bloqueo vive lo que dure esa transacción.
type TransferEngine struct{}

// Apply suma sign(direction)·quantity al stock del artículo. Todo se
// estampa con el timestamp efectivo de la transacción dueña, no con la
// hora de inserción, para que la auditoría refleje la hora lógica del
// evento y todas sus líneas compartan un mismo instante.
func (e TransferEngine) Apply(ctx context.Context, itemRepo repository.ItemRepository,
	direction entity.Direction, itemID string, quantity int64, effective time.Time, actor string) error {
	return e.apply(ctx, itemRepo, itemID, quantity, direction.Sign()*quantity, effective, actor)
}

// Reverse aplica el mismo delta con signo opuesto, con la misma
// disciplina de bloqueo. Lo usa exclusivamente la anulación: revertir
// una salida devuelve stock, revertir una entrada lo quita.
func (e TransferEngine) Reverse(ctx context.Context, itemRepo repository.ItemRepository,
	direction entity.Direction, itemID string, quantity int64, effective time.Time, actor string) error {
	return e.apply(ctx, itemRepo, itemID, quantity, -direction.Sign()*quantity, effective, actor)
}

func (e TransferEngine) apply(ctx context.Context, itemRepo repository.ItemRepository,
	itemID string, quantity, delta int64, effective time.Time, actor string) error {
	if quantity <= 0 {
		return domain.Validationf("quantity", "must be a positive integer")
	}

	// Bloquea la fila del artículo antes de leer el stock: evita lost
	// updates cuando dos transacciones tocan el mismo artículo a la vez.
	item, err := itemRepo.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	// Estampa updated_at con la hora efectiva y relee bajo el mismo
	// bloqueo antes de calcular el nuevo stock.
	if err := itemRepo.Touch(ctx, item.ID, effective); err != nil {
		return err
	}
	item, err = itemRepo.GetForUpdate(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	// Sin piso: el stock puede quedar negativo en salidas.
	item.Stock += delta
	item.UpdatedAt = effective
	return itemRepo.UpdateStock(ctx, item, effective, actor)
}
