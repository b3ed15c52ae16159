package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// RunRequest cuerpo opcional del disparo manual de una corrida.
type RunRequest struct {
	MaxOrders        int      `json:"max_orders"`
	StorageUnits     []string `json:"storage_units"`
	Qualifiers       []string `json:"qualifiers"`
	Locations        []string `json:"locations"`
	AdditionalPrefix string   `json:"additional_prefix"`
}

// RunSummaryResponse resumen de una corrida para la respuesta del trigger
// y el endpoint de estado.
type RunSummaryResponse struct {
	RunID           string    `json:"run_id"`
	Trigger         string    `json:"trigger"`
	Outcome         string    `json:"outcome"`
	Stage           string    `json:"stage"`
	OrdersCreated   int       `json:"orders_created"`
	OrdersSubmitted int       `json:"orders_submitted"`
	OrdersSkipped   int       `json:"orders_skipped"`
	OrdersFailed    int       `json:"orders_failed"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Error           string    `json:"error,omitempty"`
}

// RunResponse corrida del historial.
type RunResponse struct {
	ID            string    `json:"id"`
	Trigger       string    `json:"trigger"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Outcome       string    `json:"outcome"`
	Stage         string    `json:"stage"`
	OrdersCreated int       `json:"orders_created"`
	Error         string    `json:"error,omitempty"`
}

// FromRun convierte la entidad a su representación HTTP.
func FromRun(r entity.Run) RunResponse {
	return RunResponse{
		ID:            r.ID,
		Trigger:       r.Trigger,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Outcome:       r.Outcome,
		Stage:         r.Stage,
		OrdersCreated: r.OrdersCreated,
		Error:         r.ErrorMessage,
	}
}

// CountOrderResponse orden de conteo del historial.
type CountOrderResponse struct {
	ID           string          `json:"id"`
	RunID        string          `json:"run_id"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	StorageUnit  string          `json:"storage_unit"`
	BatchName    string          `json:"batch_name"`
	ItemPathID   string          `json:"itempath_id,omitempty"`
	Status       string          `json:"status"`
	Priority     int             `json:"priority"`
	Quantity     decimal.Decimal `json:"quantity"`
	Deadline     time.Time       `json:"deadline"`
	CreatedAt    time.Time       `json:"created_at"`
}

// FromCountOrder convierte la entidad a su representación HTTP.
func FromCountOrder(o entity.CountOrder) CountOrderResponse {
	return CountOrderResponse{
		ID:           o.ID,
		RunID:        o.RunID,
		LocationID:   o.LocationID,
		LocationName: o.LocationName,
		StorageUnit:  o.StorageUnit,
		BatchName:    o.BatchName,
		ItemPathID:   o.ItemPathID,
		Status:       o.Status,
		Priority:     o.Priority,
		Quantity:     o.Quantity,
		Deadline:     o.Deadline,
		CreatedAt:    o.CreatedAt,
	}
}

// CoverageUnit cobertura de conteo de una unidad de almacenamiento.
type CoverageUnit struct {
	StorageUnit    string  `json:"storage_unit"`
	TotalLocations int     `json:"total_locations"`
	CountedSince   int     `json:"counted_since"`
	PutSince       int     `json:"put_since"`
	Covered        int     `json:"covered"`
	CoveragePct    float64 `json:"coverage_pct"`
}

// CoverageReport porcentaje de ubicaciones verificadas (contadas o puestas)
// desde la fecha de referencia, por unidad y total.
type CoverageReport struct {
	Since  string         `json:"since"`
	Units  []CoverageUnit `json:"units"`
	Totals CoverageUnit   `json:"totals"`
}
