package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
	apphttp "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/interfaces/http"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para montar la API completa sin red ni base de datos
// ──────────────────────────────────────────────────────────────────────────────

type memSource struct {
	items []entity.Item
	err   error
}

func (m *memSource) FetchLocationContents(ctx context.Context) ([]entity.Item, error) {
	return m.items, m.err
}

type memOrderRepo struct {
	created []entity.CountOrder
}

func (m *memOrderRepo) CreateBatch(ctx context.Context, orders []entity.CountOrder) error {
	m.created = append(m.created, orders...)
	return nil
}

func (m *memOrderRepo) GetOpenLocationIDs(ctx context.Context, openedAfter time.Time) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (m *memOrderRepo) UpdateSubmission(ctx context.Context, orderID, status, itemPathID string) error {
	return nil
}

func (m *memOrderRepo) ListByRun(ctx context.Context, runID string) ([]entity.CountOrder, error) {
	var out []entity.CountOrder
	for _, o := range m.created {
		if o.RunID == runID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) List(ctx context.Context, status, locationID string, limit, offset int) ([]entity.CountOrder, error) {
	return append([]entity.CountOrder(nil), m.created...), nil
}

type memTxRunner struct{ repo *memOrderRepo }

func (m *memTxRunner) Run(ctx context.Context, fn func(orders repository.CountOrderRepository) error) error {
	return fn(m.repo)
}

type memRunRepo struct{ runs []entity.Run }

func (m *memRunRepo) Record(ctx context.Context, run *entity.Run) error {
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memRunRepo) GetByID(ctx context.Context, id string) (*entity.Run, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRunRepo) ListRecent(ctx context.Context, limit, offset int) ([]entity.Run, error) {
	return append([]entity.Run(nil), m.runs...), nil
}

type memSheets struct{}

func (memSheets) GenerateCountSheet(ctx context.Context, run *entity.Run, orders []entity.CountOrder) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

func testItem(locID string, lastCount time.Time) entity.Item {
	return entity.Item{
		MaterialID:   "MAT-" + locID,
		ItemTypeCode: "121",
		LocationID:   locID,
		LocationName: "Loc " + locID,
		StorageUnit:  "U1",
		Quantity:     decimal.NewFromInt(2),
		PutDate:      lastCount.AddDate(0, -1, 0),
		StorageDate:  lastCount.AddDate(0, -1, 0),
		LastCountDate: func() *time.Time {
			t := lastCount
			return &t
		}(),
	}
}

// buildAPI monta la app completa (router incluido, sin auth) sobre fakes.
func buildAPI(source *memSource) (*fiber.App, *memRunRepo, *memOrderRepo) {
	orders := &memOrderRepo{}
	runs := &memRunRepo{}
	coord := appcc.NewCoordinator(
		source, &memTxRunner{repo: orders}, orders, runs, nil,
		appcc.Options{}, logger.NewNop(),
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Coordinator: coord,
		Runs:        runs,
		Orders:      orders,
		Sheets:      memSheets{},
		JWTSecret:   "",
	})
	return app, runs, orders
}

func doJSON(t *testing.T, app *fiber.App, method, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del handler
// ──────────────────────────────────────────────────────────────────────────────

func TestCycleCountAPI_RunYStatus(t *testing.T) {
	source := &memSource{items: []entity.Item{
		testItem("A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		testItem("B", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}}
	app, _, orders := buildAPI(source)

	var summary map[string]any
	status := doJSON(t, app, http.MethodPost, "/api/cycle-count/run", &summary)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", summary["outcome"])
	assert.Equal(t, float64(2), summary["orders_created"])
	assert.Len(t, orders.created, 2)

	var last map[string]any
	status = doJSON(t, app, http.MethodGet, "/api/cycle-count/status", &last)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, summary["run_id"], last["run_id"])
}

func TestCycleCountAPI_StatusSinCorridas(t *testing.T) {
	app, _, _ := buildAPI(&memSource{})
	status := doJSON(t, app, http.MethodGet, "/api/cycle-count/status", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCycleCountAPI_FuenteCaidaEs502(t *testing.T) {
	source := &memSource{err: domain.ErrSourceUnavailable}
	app, _, _ := buildAPI(source)

	var body map[string]any
	status := doJSON(t, app, http.MethodPost, "/api/cycle-count/run", &body)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "SOURCE_ERROR", body["code"])
}

func TestCycleCountAPI_ListadosYHoja(t *testing.T) {
	source := &memSource{items: []entity.Item{
		testItem("A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	app, runs, _ := buildAPI(source)

	var summary map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodPost, "/api/cycle-count/run", &summary))
	runID := summary["run_id"].(string)

	var runsBody map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/cycle-count/runs", &runsBody))
	assert.Equal(t, float64(1), runsBody["total"])
	require.Len(t, runs.runs, 1)

	var ordersBody map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/cycle-count/orders", &ordersBody))
	assert.Equal(t, float64(1), ordersBody["total"])

	// Hoja de conteo PDF
	req := httptest.NewRequest(http.MethodGet, "/api/cycle-count/runs/"+runID+"/sheet", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	// Corrida inexistente
	status := doJSON(t, app, http.MethodGet, "/api/cycle-count/runs/no-existe/sheet", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCycleCountAPI_CoverageFechaInvalida(t *testing.T) {
	app, _, _ := buildAPI(&memSource{})
	var body map[string]any
	status := doJSON(t, app, http.MethodGet, "/api/cycle-count/coverage?date=ayer", &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_DATE", body["code"])
}
