package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Kardex-api/internal/interfaces/http"
)

// testAPI aplicación completa sobre el almacén en memoria, con el
// router real y tokens firmados igual que en producción.
type testAPI struct {
	app    *fiber.App
	store  *memory.Store
	unitID string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LedgerUC:  ledger.NewLedgerUseCase(store, store.Ledger()),
		HistoryUC: ledger.NewHistoryUseCase(store.Histories()),
		ItemUC:    usecase.NewItemUseCase(store.Items(), store.Units()),
		JWTSecret: testJWTSecret,
	})
	return &testAPI{app: app, store: store, unitID: store.AddUnit("piece")}
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *testAPI) createItem(t *testing.T, name string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/items", "member",
		dto.CreateItemRequest{Name: name, Unit: a.unitID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[map[string]string](t, resp)["id"]
}

func (a *testAPI) createTx(t *testing.T, path string, req dto.CreateTransactionRequest) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, path, "member", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[map[string]string](t, resp)["id"]
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/api/items", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CicloEntrada(t *testing.T) {
	a := newTestAPI(t)
	item := a.createItem(t, "ladrillos")

	txID := a.createTx(t, "/api/in-transactions", dto.CreateTransactionRequest{
		Supplier:  "Ladrillera Acme",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 500}},
	})

	resp := a.do(t, http.MethodGet, "/api/in-transactions/"+txID, "member", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tx := decode[dto.TransactionResponse](t, resp)
	assert.Equal(t, "Ladrillera Acme", tx.Supplier)
	require.Len(t, tx.Transfers, 1)
	assert.Equal(t, "ladrillos", tx.Transfers[0].ItemName)

	resp = a.do(t, http.MethodGet, "/api/items/"+item, "member", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(500), decode[dto.ItemResponse](t, resp).Stock)

	resp = a.do(t, http.MethodGet, "/api/in-transactions", "member", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.TransactionPage](t, resp)
	assert.Equal(t, int64(1), page.Count)
}

func TestAPI_CicloSalidaConAnulacion(t *testing.T) {
	a := newTestAPI(t)
	item := a.createItem(t, "tejas")

	a.createTx(t, "/api/in-transactions", dto.CreateTransactionRequest{
		Supplier:  "Proveedor",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 100}},
	})
	outID := a.createTx(t, "/api/out-transactions", dto.CreateTransactionRequest{
		Customer:  "Obra Centro",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 40}},
	})

	resp := a.do(t, http.MethodGet, "/api/items/"+item, "member", nil)
	assert.Equal(t, int64(60), decode[dto.ItemResponse](t, resp).Stock)

	// Anular la salida requiere rol admin y devuelve el stock.
	edit := dto.EditTransactionRequest{Customer: "Obra Centro", Void: true}
	resp = a.do(t, http.MethodPut, "/api/out-transactions/"+outID, "member", edit)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPut, "/api/out-transactions/"+outID, "admin", edit)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/items/"+item, "member", nil)
	assert.Equal(t, int64(100), decode[dto.ItemResponse](t, resp).Stock)

	// Una segunda anulación responde 400 con el campo ofensor.
	resp = a.do(t, http.MethodPut, "/api/out-transactions/"+outID, "admin", edit)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "void", errBody.Field)
}

func TestAPI_ValidacionConCampo(t *testing.T) {
	a := newTestAPI(t)
	item := a.createItem(t, "malla")

	resp := a.do(t, http.MethodPost, "/api/out-transactions", "member", dto.CreateTransactionRequest{
		Customer:  "Cliente",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 0}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "quantity", errBody.Field)
	assert.Equal(t, "must be a positive integer", errBody.Message)
}

func TestAPI_NotFound(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/api/in-transactions/fantasma", "member", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_HistorialSoloAdmin(t *testing.T) {
	a := newTestAPI(t)
	item := a.createItem(t, "poste")
	txID := a.createTx(t, "/api/in-transactions", dto.CreateTransactionRequest{
		Supplier:  "Proveedor",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 1}},
	})

	resp := a.do(t, http.MethodGet, "/api/in-transactions/"+txID+"/histories", "member", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/in-transactions/"+txID+"/histories", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.TransactionHistoryPage](t, resp)
	require.Equal(t, int64(1), page.Count)
	assert.Equal(t, testUsername, page.Results[0].HistoryUser)

	resp = a.do(t, http.MethodGet, "/api/items/"+item+"/histories", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	itemPage := decode[dto.ItemHistoryPage](t, resp)
	assert.Equal(t, int64(2), itemPage.Count)
}

func TestAPI_DeleteRestoreSoloEntradas(t *testing.T) {
	a := newTestAPI(t)
	item := a.createItem(t, "viga")
	inID := a.createTx(t, "/api/in-transactions", dto.CreateTransactionRequest{
		Supplier:  "Proveedor",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 2}},
	})
	outID := a.createTx(t, "/api/out-transactions", dto.CreateTransactionRequest{
		Customer:  "Cliente",
		Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 1}},
	})

	resp := a.do(t, http.MethodDelete, "/api/in-transactions/"+inID, "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/in-transactions/"+inID+"/restore", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Las salidas no tienen borrado lógico: la ruta no existe.
	resp = a.do(t, http.MethodDelete, "/api/out-transactions/"+outID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ListadoConCursor(t *testing.T) {
	a := newTestAPI(t)
	item := a.createItem(t, "panel")
	for i := 0; i < 5; i++ {
		a.createTx(t, "/api/out-transactions", dto.CreateTransactionRequest{
			Customer:  fmt.Sprintf("Cliente %d", i),
			Transfers: []dto.TransferLineRequest{{Item: item, Quantity: 1}},
		})
	}

	resp := a.do(t, http.MethodGet, "/api/out-transactions?search=cliente", "member", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.TransactionPage](t, resp)
	assert.Equal(t, int64(5), page.Count)

	cursor := page.Results[2].ID
	resp = a.do(t, http.MethodGet, "/api/out-transactions?cursor="+cursor, "member", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page2 := decode[dto.TransactionPage](t, resp)
	assert.Equal(t, int64(5), page2.Count)
	assert.Len(t, page2.Results, 2)
}

func TestAPI_Unidades(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/api/units", "member", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	units := decode[[]map[string]any](t, resp)
	assert.Len(t, units, 1)
}
