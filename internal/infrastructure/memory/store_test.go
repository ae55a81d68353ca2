package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

func seedItem(t *testing.T, store *memory.Store, name string) string {
	t.Helper()
	unitID := store.AddUnit("unit-" + name)
	now := time.Now().UTC()
	item := &entity.Item{ID: uuid.New().String(), Name: name, UnitID: unitID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Items().Create(context.Background(), item, "seed"))
	return item.ID
}

// Run restaura el snapshot previo cuando fn falla: las escrituras
// parciales no se observan después del rollback.
func TestRun_RollbackDescartaEscrituras(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	itemID := seedItem(t, store, "cal")
	boom := errors.New("boom")

	err := store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		require.NoError(t, err)
		item.Stock = 999
		require.NoError(t, itemRepo.UpdateStock(ctx, item, time.Now().UTC(), "tester"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	item, err := store.Items().GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Stock, "el rollback debe descartar el stock escrito")

	count, err := store.Histories().CountItemHistory(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "solo debe quedar la fila de historial del alta")
}

func TestRun_CommitPersiste(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	itemID := seedItem(t, store, "cascote")

	err := store.Run(ctx, func(_ repository.LedgerRepository, itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		item.Stock = 7
		return itemRepo.UpdateStock(ctx, item, time.Now().UTC(), "tester")
	})
	require.NoError(t, err)

	item, err := store.Items().GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.Stock)
}
