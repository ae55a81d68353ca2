package ledger_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func TestHistorialTransaccion_PaginacionPorHistoryID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "grava")

	id, err := f.ledgerUC.Create(ctx, entity.DirectionOut, createReq("Cliente 0", entity.DirectionOut,
		dto.TransferLineRequest{Item: item, Quantity: 1},
	), testActor)
	require.NoError(t, err)

	// Ediciones suficientes para desbordar una página de historial.
	edits := ledger.PageSize + 20
	for i := 1; i <= edits; i++ {
		_, err := f.ledgerUC.Edit(ctx, entity.DirectionOut, id,
			editReq(fmt.Sprintf("Cliente %d", i), entity.DirectionOut, false), testActor)
		require.NoError(t, err)
	}
	total := edits + 1 // + snapshot de creación

	page1, err := f.historyUC.ListTransactionHistory(ctx, entity.DirectionOut, id, "")
	require.NoError(t, err)
	assert.Equal(t, int64(total), page1.Count)
	require.Len(t, page1.Results, ledger.PageSize)
	// Más reciente primero, historyId descendente y contiguo.
	assert.Equal(t, int64(total), page1.Results[0].HistoryID)
	for i := 1; i < len(page1.Results); i++ {
		assert.Equal(t, page1.Results[i-1].HistoryID-1, page1.Results[i].HistoryID)
	}

	cursor := strconv.FormatInt(page1.Results[len(page1.Results)-1].HistoryID, 10)
	page2, err := f.historyUC.ListTransactionHistory(ctx, entity.DirectionOut, id, cursor)
	require.NoError(t, err)
	require.Len(t, page2.Results, total-ledger.PageSize)
	assert.Equal(t, page1.Results[len(page1.Results)-1].HistoryID-1, page2.Results[0].HistoryID)
	assert.Equal(t, int64(1), page2.Results[len(page2.Results)-1].HistoryID)
}

func TestHistorialTransaccion_CursorInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "tiza")

	id, err := f.ledgerUC.Create(ctx, entity.DirectionIn, createReq("P", entity.DirectionIn,
		dto.TransferLineRequest{Item: item, Quantity: 1},
	), testActor)
	require.NoError(t, err)

	// Un cursor que no resuelve a una fila de historial es NotFound, sea
	// porque no es numérico o porque esa entidad nunca emitió ese historyId.
	_, err = f.historyUC.ListTransactionHistory(ctx, entity.DirectionIn, id, "abc")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.historyUC.ListTransactionHistory(ctx, entity.DirectionIn, id, "999")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.historyUC.ListItemHistory(ctx, item, "abc")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistorialArticulo_UnaFilaPorMovimiento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.addItem(t, "esmalte")

	// Alta (1) + dos entradas (2,3) + anulación de la primera (4).
	txID, err := f.ledgerUC.Create(ctx, entity.DirectionIn, createReq("P", entity.DirectionIn,
		dto.TransferLineRequest{Item: item, Quantity: 4},
	), testActor)
	require.NoError(t, err)
	_, err = f.ledgerUC.Create(ctx, entity.DirectionIn, createReq("P", entity.DirectionIn,
		dto.TransferLineRequest{Item: item, Quantity: 6},
	), testActor)
	require.NoError(t, err)
	_, err = f.ledgerUC.Edit(ctx, entity.DirectionIn, txID, editReq("P", entity.DirectionIn, true), testActor)
	require.NoError(t, err)

	page, err := f.historyUC.ListItemHistory(ctx, item, "")
	require.NoError(t, err)
	require.Equal(t, int64(4), page.Count)
	// La serie de stock queda completa en el historial: 0, 4, 10, 6.
	assert.Equal(t, int64(6), page.Results[0].Stock)
	assert.Equal(t, int64(10), page.Results[1].Stock)
	assert.Equal(t, int64(4), page.Results[2].Stock)
	assert.Equal(t, int64(0), page.Results[3].Stock)
}
