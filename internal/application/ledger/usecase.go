package ledger

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

// PageSize tope fijo de resultados por página en todos los listados.
const PageSize = 100

// dateLayout formato del filtro de fecha de los listados.
const dateLayout = "2006-01-02"

// LedgerUseCase operaciones del libro de transacciones, parametrizadas
// por dirección (IN/OUT) en vez de duplicar la lógica por variante.
// Las mutaciones corren dentro del TxRunner; las lecturas usan los
// repositorios atados al pool y no toman bloqueos.
type LedgerUseCase struct {
	txRunner   TxRunner
	ledgerRepo repository.LedgerRepository
	engine     TransferEngine
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, ledgerRepo repository.LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, ledgerRepo: ledgerRepo}
}

func counterpartyField(d entity.Direction) string {
	if d == entity.DirectionIn {
		return "supplier"
	}
	return "customer"
}

// Create valida la entrada, crea la transacción con sus líneas y aplica
// el delta de stock de cada línea, todo en una unidad atómica: si una
// línea falla no se persiste nada, ni siquiera la cabecera.
func (uc *LedgerUseCase) Create(ctx context.Context, direction entity.Direction, in dto.CreateTransactionRequest, actor string) (string, error) {
	if !direction.Valid() {
		return "", domain.Validationf("direction", "must be IN or OUT")
	}
	// Validación completa antes de tomar cualquier bloqueo: fallar aquí
	// es barato y sin efectos.
	if in.Counterparty(direction) == "" {
		return "", domain.Validationf(counterpartyField(direction), "cannot be empty")
	}
	if len(in.Transfers) == 0 {
		return "", domain.Validationf("transfers", "cannot be empty")
	}
	for _, line := range in.Transfers {
		if line.Item == "" {
			return "", domain.Validationf("item", "cannot be empty")
		}
		if line.Quantity <= 0 {
			return "", domain.Validationf("quantity", "must be a positive integer")
		}
	}

	now := time.Now().UTC()
	tx := &entity.LedgerTransaction{
		ID:        uuid.New().String(),
		Direction: direction,
		TransactionHeader: entity.TransactionHeader{
			Counterparty:          in.Counterparty(direction),
			DeliveryReceipt:       in.DeliveryReceipt,
			DateOfDeliveryReceipt: in.DateOfDeliveryReceipt,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if direction == entity.DirectionIn {
		tx.DateReceived = in.DateReceived
	}

	// Las líneas se insertan en orden inverso al enviado; seq registra
	// ese orden y es el que las lecturas devuelven. Los ids son UUID y
	// no sirven como criterio de orden.
	lines := make([]entity.TransferLine, 0, len(in.Transfers))
	for i := len(in.Transfers) - 1; i >= 0; i-- {
		lines = append(lines, entity.TransferLine{
			ID:            uuid.New().String(),
			TransactionID: tx.ID,
			ItemID:        in.Transfers[i].Item,
			Seq:           int64(len(lines)) + 1,
			Quantity:      in.Transfers[i].Quantity,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	tx.Transfers = lines

	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		if err := ledgerRepo.CreateTransaction(ctx, tx, actor); err != nil {
			return err
		}
		for i := range tx.Transfers {
			line := &tx.Transfers[i]
			if err := ledgerRepo.CreateTransferLine(ctx, direction, line); err != nil {
				return err
			}
			if err := uc.engine.Apply(ctx, itemRepo, direction, line.ItemID, line.Quantity, tx.CreatedAt, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return tx.ID, nil
}

// Get devuelve la cabecera con sus líneas enriquecidas (nombre y unidad
// del artículo leídos en el momento de la consulta, no denormalizados).
func (uc *LedgerUseCase) Get(ctx context.Context, direction entity.Direction, id string) (*dto.TransactionResponse, error) {
	tx, err := uc.ledgerRepo.GetByID(ctx, direction, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	resp := dto.FromTransaction(tx)
	return &resp, nil
}

// List devuelve una página de transacciones ordenada por
// (createdAt DESC, id DESC) con paginación keyset. Count es el total
// bajo los filtros actuales, recalculado en cada llamada.
func (uc *LedgerUseCase) List(ctx context.Context, direction entity.Direction, in dto.ListTransactionsRequest) (*dto.TransactionPage, error) {
	filter := repository.LedgerFilter{Search: in.Search, Limit: PageSize}
	if in.Date != "" {
		day, err := time.Parse(dateLayout, in.Date)
		if err != nil {
			return nil, domain.Validationf("date", "invalid date")
		}
		filter.Date = &day
	}

	count, err := uc.ledgerRepo.Count(ctx, direction, filter)
	if err != nil {
		return nil, err
	}

	if in.Cursor != "" {
		cursor, err := uc.ledgerRepo.ResolveCursor(ctx, direction, in.Cursor)
		if err != nil {
			return nil, err
		}
		filter.Cursor = cursor
	}

	rows, err := uc.ledgerRepo.List(ctx, direction, filter)
	if err != nil {
		return nil, err
	}
	page := &dto.TransactionPage{Count: count, Results: make([]dto.TransactionResponse, 0, len(rows))}
	for _, tx := range rows {
		page.Results = append(page.Results, dto.FromTransaction(tx))
	}
	return page, nil
}

// Edit muta solo campos de cabecera; las líneas son inmutables. Una
// transición de void false→true delega la reversión de stock en la
// anulación dentro de la misma unidad atómica. Una vez void, la
// transacción es inmutable: cualquier edición posterior se rechaza.
func (uc *LedgerUseCase) Edit(ctx context.Context, direction entity.Direction, id string, in dto.EditTransactionRequest, actor string) (string, error) {
	if in.Counterparty(direction) == "" {
		return "", domain.Validationf(counterpartyField(direction), "cannot be empty")
	}

	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		tx, err := ledgerRepo.GetForUpdate(ctx, direction, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		if tx.Void {
			return domain.Validationf("void", "already void")
		}
		voided := in.Void

		tx.Counterparty = in.Counterparty(direction)
		tx.DeliveryReceipt = in.DeliveryReceipt
		tx.DateOfDeliveryReceipt = in.DateOfDeliveryReceipt
		if direction == entity.DirectionIn {
			tx.DateReceived = in.DateReceived
		}
		tx.Void = in.Void
		tx.UpdatedAt = now
		if err := ledgerRepo.UpdateHeader(ctx, tx, actor); err != nil {
			return err
		}

		if voided {
			return uc.reverse(ctx, ledgerRepo, itemRepo, tx, now, actor)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// reverse deshace el efecto de stock de cada línea de la transacción:
// retoca los timestamps de línea y join a la hora efectiva de la
// edición y aplica el delta con signo opuesto bajo bloqueo de fila.
// Cualquier fallo aborta la anulación completa.
func (uc *LedgerUseCase) reverse(ctx context.Context, ledgerRepo repository.LedgerRepository,
	itemRepo repository.ItemRepository, tx *entity.LedgerTransaction, effective time.Time, actor string) error {
	for i := range tx.Transfers {
		line := &tx.Transfers[i]
		if err := ledgerRepo.TouchLine(ctx, tx.Direction, line.ID, effective); err != nil {
			return err
		}
		if err := uc.engine.Reverse(ctx, itemRepo, tx.Direction, line.ItemID, line.Quantity, effective, actor); err != nil {
			return err
		}
	}
	return nil
}

// Delete borra lógicamente una entrada (deleted_at); no existe para
// salidas y nunca toca stock ni el estado void.
func (uc *LedgerUseCase) Delete(ctx context.Context, id string, actor string) (string, error) {
	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerRepository, _ repository.ItemRepository) error {
		tx, err := ledgerRepo.GetForUpdate(ctx, entity.DirectionIn, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("in-transaction %s: %w", id, domain.ErrNotFound)
		}
		if tx.DeletedAt != nil {
			return domain.Validationf("id", "already deleted")
		}
		tx.DeletedAt = &now
		tx.UpdatedAt = now
		return ledgerRepo.UpdateHeader(ctx, tx, actor)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Restore revierte el borrado lógico de una entrada. No es el inverso
// de la anulación: no toca stock ni el estado void.
func (uc *LedgerUseCase) Restore(ctx context.Context, id string, actor string) (string, error) {
	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerRepository, _ repository.ItemRepository) error {
		tx, err := ledgerRepo.GetForUpdate(ctx, entity.DirectionIn, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("in-transaction %s: %w", id, domain.ErrNotFound)
		}
		if tx.DeletedAt == nil {
			return domain.Validationf("id", "not deleted")
		}
		tx.DeletedAt = nil
		tx.UpdatedAt = now
		return ledgerRepo.UpdateHeader(ctx, tx, actor)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
