package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro de transacciones.
// Un solo handler sirve entradas y salidas: la dirección se fija al
// montar las rutas.
type LedgerHandler struct {
	uc        *ledger.LedgerUseCase
	historyUC *ledger.HistoryUseCase
	direction entity.Direction
}

// NewLedgerHandler construye el handler para una dirección.
func NewLedgerHandler(uc *ledger.LedgerUseCase, historyUC *ledger.HistoryUseCase, direction entity.Direction) *LedgerHandler {
	return &LedgerHandler{uc: uc, historyUC: historyUC, direction: direction}
}

// Create godoc
// @Summary      Crear transacción con sus líneas
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "supplier (entradas) o customer (salidas), transfers"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/in-transactions [post]
func (h *LedgerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Create(c.Context(), h.direction, in, GetUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// List godoc
// @Summary      Listar transacciones (paginación por cursor)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Subcadena sobre proveedor/cliente, sin acentos"
// @Param        date    query  string  false  "Día YYYY-MM-DD"
// @Param        cursor  query  string  false  "id de la última fila vista"
// @Success      200  {object}  dto.TransactionPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/in-transactions [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	var in dto.ListTransactionsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page, err := h.uc.List(c.Context(), h.direction, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// Get godoc
// @Summary      Obtener una transacción con sus líneas
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/in-transactions/{id} [get]
func (h *LedgerHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), h.direction, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// Edit godoc
// @Summary      Editar cabecera; void=true anula y revierte stock
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la transacción"
// @Param        body  body  dto.EditTransactionRequest  true  "cabecera nueva"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/in-transactions/{id} [put]
func (h *LedgerHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Edit(c.Context(), h.direction, c.Params("id"), in, GetUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// Histories godoc
// @Summary      Historial de auditoría de una transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "id de la transacción"
// @Param        cursor  query  string  false  "historyId de la última fila vista"
// @Success      200  {object}  dto.TransactionHistoryPage
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/in-transactions/{id}/histories [get]
func (h *LedgerHandler) Histories(c *fiber.Ctx) error {
	page, err := h.historyUC.ListTransactionHistory(c.Context(), h.direction, c.Params("id"), c.Query("cursor"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// Delete godoc
// @Summary      Borrado lógico de una entrada (no toca stock)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la entrada"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/in-transactions/{id} [delete]
func (h *LedgerHandler) Delete(c *fiber.Ctx) error {
	id, err := h.uc.Delete(c.Context(), c.Params("id"), GetUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

// Restore godoc
// @Summary      Revertir el borrado lógico de una entrada
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id de la entrada"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/in-transactions/{id}/restore [post]
func (h *LedgerHandler) Restore(c *fiber.Ctx) error {
	id, err := h.uc.Restore(c.Context(), c.Params("id"), GetUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}
