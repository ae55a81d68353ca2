package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP de artículos y unidades.
type ItemHandler struct {
	uc        *usecase.ItemUseCase
	historyUC *ledger.HistoryUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, historyUC *ledger.HistoryUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, historyUC: historyUC}
}

// Create godoc
// @Summary      Dar de alta un artículo (stock inicial 0)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, unit"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Create(c.Context(), in, GetUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// List godoc
// @Summary      Listar artículos (paginación por cursor)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Subcadena sobre el nombre, sin acentos"
// @Param        cursor  query  string  false  "id de la última fila vista"
// @Success      200  {object}  dto.ItemPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ListItemsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page, err := h.uc.List(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// Get godoc
// @Summary      Obtener un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// Histories godoc
// @Summary      Historial de auditoría de un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "id del artículo"
// @Param        cursor  query  string  false  "historyId de la última fila vista"
// @Success      200  {object}  dto.ItemHistoryPage
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/histories [get]
func (h *ItemHandler) Histories(c *fiber.Ctx) error {
	page, err := h.historyUC.ListItemHistory(c.Context(), c.Params("id"), c.Query("cursor"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// ListUnits godoc
// @Summary      Unidades de medida disponibles
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnitResponse
// @Router       /api/units [get]
func (h *ItemHandler) ListUnits(c *fiber.Ctx) error {
	units, err := h.uc.ListUnits(c.Context())
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.FromUnit(u))
	}
	return c.JSON(out)
}
