package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *ledger.LedgerUseCase
	HistoryUC *ledger.HistoryUseCase
	ItemUC    *usecase.ItemUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Entradas y salidas comparten
// handler; solo cambia la dirección fijada al montarlas. Todo requiere
// Bearer Token; historial, ediciones y borrados además rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	mountLedger(api.Group("/in-transactions"), deps, entity.DirectionIn)
	mountLedger(api.Group("/out-transactions"), deps, entity.DirectionOut)

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.HistoryUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.Get)
	items.Get("/:id/histories", RequireAdmin(), itemHandler.Histories)

	api.Get("/units", itemHandler.ListUnits)
}

func mountLedger(g fiber.Router, deps RouterDeps, d entity.Direction) {
	h := NewLedgerHandler(deps.LedgerUC, deps.HistoryUC, d)
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Put("/:id", RequireAdmin(), h.Edit)
	g.Get("/:id/histories", RequireAdmin(), h.Histories)
	// El borrado lógico y su reversa existen solo para entradas.
	if d == entity.DirectionIn {
		g.Delete("/:id", RequireAdmin(), h.Delete)
		g.Post("/:id/restore", RequireAdmin(), h.Restore)
	}
}
