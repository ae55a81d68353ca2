package ledger

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de trabajo explícita del
// libro: cabecera, filas join, líneas y stock se persisten todo-o-nada,
// y los bloqueos de fila se liberan al terminar en Commit o Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		itemRepo repository.ItemRepository,
	) error) error
}
