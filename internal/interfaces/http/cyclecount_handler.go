package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/dto"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
)

// CycleCountHandler maneja las peticiones HTTP del motor de cycle count.
type CycleCountHandler struct {
	coord  *cyclecount.Coordinator
	runs   repository.RunRepository
	orders repository.CountOrderRepository
	sheets cyclecount.CountSheetGenerator
}

// NewCycleCountHandler construye el handler.
func NewCycleCountHandler(
	coord *cyclecount.Coordinator,
	runs repository.RunRepository,
	orders repository.CountOrderRepository,
	sheets cyclecount.CountSheetGenerator,
) *CycleCountHandler {
	return &CycleCountHandler{coord: coord, runs: runs, orders: orders, sheets: sheets}
}

// Run godoc
// @Summary      Disparar una corrida de cycle count
// @Tags         cycle-count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunRequest  false  "max_orders, filtros opcionales, additional_prefix"
// @Success      200  {object}  dto.RunSummaryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/cycle-count/run [post]
func (h *CycleCountHandler) Run(c *fiber.Ctx) error {
	var in dto.RunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	summary, err := h.coord.Run(c.Context(), cyclecount.RunParams{
		Trigger:          entity.RunTriggerManual,
		MaxOrders:        in.MaxOrders,
		StorageUnits:     in.StorageUnits,
		Qualifiers:       in.Qualifiers,
		Locations:        in.Locations,
		AdditionalPrefix: in.AdditionalPrefix,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RUN_IN_PROGRESS", Message: "ya hay una corrida en curso"})
		}
		if errors.Is(err, domain.ErrSourceUnavailable) || errors.Is(err, domain.ErrSourceMalformed) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SOURCE_ERROR", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// Status godoc
// @Summary      Resumen de la última corrida
// @Tags         cycle-count
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RunSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cycle-count/status [get]
func (h *CycleCountHandler) Status(c *fiber.Ctx) error {
	last := h.coord.LastRun()
	if last == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_RUNS", Message: "sin corridas desde el arranque"})
	}
	return c.JSON(last)
}

// ListRuns godoc
// @Summary      Historial de corridas
// @Tags         cycle-count
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.RunResponse
// @Router       /api/cycle-count/runs [get]
func (h *CycleCountHandler) ListRuns(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	runs, err := h.runs.ListRecent(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.FromRun(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "runs": out})
}

// ListOrders godoc
// @Summary      Órdenes de conteo generadas
// @Tags         cycle-count
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending, in_progress, completed, skipped, failed"
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        limit        query  int     false  "máximo de filas (default 50)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}  dto.CountOrderResponse
// @Router       /api/cycle-count/orders [get]
func (h *CycleCountHandler) ListOrders(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	orders, err := h.orders.List(c.Context(), c.Query("status"), c.Query("location_id"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.CountOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.FromCountOrder(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "orders": out})
}

// Coverage godoc
// @Summary      Cobertura de conteo desde una fecha
// @Description  Porcentaje de ubicaciones contadas o puestas desde la fecha de
//               referencia, por unidad de almacenamiento.
// @Tags         cycle-count
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "fecha YYYY-MM-DD (default: hace 60 días)"
// @Success      200  {object}  dto.CoverageReport
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/cycle-count/coverage [get]
func (h *CycleCountHandler) Coverage(c *fiber.Ctx) error {
	since := time.Now().AddDate(0, 0, -60)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "formato esperado: YYYY-MM-DD"})
		}
		since = parsed
	}

	report, err := h.coord.Coverage(c.Context(), since)
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) || errors.Is(err, domain.ErrSourceMalformed) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SOURCE_ERROR", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// CountSheet godoc
// @Summary      Hoja de conteo PDF de una corrida
// @Tags         cycle-count
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "id de la corrida"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cycle-count/runs/{id}/sheet [get]
func (h *CycleCountHandler) CountSheet(c *fiber.Ctx) error {
	runID := c.Params("id")
	run, err := h.runs.GetByID(c.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "corrida no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	orders, err := h.orders.ListByRun(c.Context(), runID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	pdfBytes, err := h.sheets.GenerateCountSheet(c.Context(), run, orders)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="count-sheet-%s.pdf"`, runID))
	return c.Send(pdfBytes)
}
