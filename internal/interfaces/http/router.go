package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator *cyclecount.Coordinator
	Runs        repository.RunRepository
	Orders      repository.CountOrderRepository
	Sheets      cyclecount.CountSheetGenerator
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el grupo de cycle count va detrás
// del Bearer Token; con JWTSecret vacío el middleware deja pasar (desarrollo).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/cycle-count", AuthMiddleware(deps.JWTSecret))

	handler := NewCycleCountHandler(deps.Coordinator, deps.Runs, deps.Orders, deps.Sheets)
	protected.Post("/run", handler.Run)
	protected.Get("/status", handler.Status)
	protected.Get("/runs", handler.ListRuns)
	protected.Get("/runs/:id/sheet", handler.CountSheet)
	protected.Get("/orders", handler.ListOrders)
	protected.Get("/coverage", handler.Coverage)
}
