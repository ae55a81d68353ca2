package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

func TestTransferEngine_ApplyYReverseSonInversos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "mortero")
	engine := ledger.TransferEngine{}
	effective := time.Now().UTC()

	err := f.store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		return engine.Apply(ctx, itemRepo, entity.DirectionIn, item, 12, effective, testActor)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), f.stock(t, item))

	err = f.store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		return engine.Reverse(ctx, itemRepo, entity.DirectionIn, item, 12, effective, testActor)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.stock(t, item))
}

func TestTransferEngine_EstampaHoraEfectiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "estuco")
	engine := ledger.TransferEngine{}

	// La hora efectiva es la de la transacción dueña, no la de inserción.
	effective := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	err := f.store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		return engine.Apply(ctx, itemRepo, entity.DirectionOut, item, 3, effective, testActor)
	})
	require.NoError(t, err)

	got, err := f.itemUC.Get(ctx, item)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(effective))
	assert.Equal(t, int64(-3), got.Stock)
}

func TestTransferEngine_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "sellador")
	engine := ledger.TransferEngine{}

	for _, qty := range []int64{0, -1} {
		err := f.store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
			return engine.Apply(ctx, itemRepo, entity.DirectionIn, item, qty, time.Now().UTC(), testActor)
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, int64(0), f.stock(t, item))
}

func TestTransferEngine_ArticuloInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := ledger.TransferEngine{}

	err := f.store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		return engine.Apply(ctx, itemRepo, entity.DirectionIn, "fantasma", 1, time.Now().UTC(), testActor)
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDirection_Sign(t *testing.T) {
	assert.Equal(t, int64(1), entity.DirectionIn.Sign())
	assert.Equal(t, int64(-1), entity.DirectionOut.Sign())
	assert.True(t, entity.DirectionIn.Valid())
	assert.True(t, entity.DirectionOut.Valid())
	assert.False(t, entity.Direction("SIDEWAYS").Valid())
}

// Las líneas comparten la hora efectiva de su transacción dueña.
func TestCreate_LineasCompartenHoraDeTransaccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addItem(t, "perno")
	b := f.addItem(t, "arandela")

	id, err := f.ledgerUC.Create(ctx, entity.DirectionIn, createReq("P", entity.DirectionIn,
		dto.TransferLineRequest{Item: a, Quantity: 1},
		dto.TransferLineRequest{Item: b, Quantity: 1},
	), testActor)
	require.NoError(t, err)

	resp, err := f.ledgerUC.Get(ctx, entity.DirectionIn, id)
	require.NoError(t, err)
	itemA, err := f.itemUC.Get(ctx, a)
	require.NoError(t, err)
	itemB, err := f.itemUC.Get(ctx, b)
	require.NoError(t, err)
	assert.True(t, itemA.UpdatedAt.Equal(resp.CreatedAt))
	assert.True(t, itemB.UpdatedAt.Equal(resp.CreatedAt))
}
