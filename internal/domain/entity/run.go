package entity

import "time"

// Resultados posibles de una corrida.
const (
	RunOutcomeSuccess = "success"
	RunOutcomePartial = "partial" // órdenes persistidas pero algún envío a ItemPath falló
	RunOutcomeFailure = "failure"
)

// Disparadores de una corrida.
const (
	RunTriggerManual    = "manual"
	RunTriggerScheduled = "scheduled"
)

// Run es el registro de auditoría de una corrida del motor de cycle count.
type Run struct {
	ID            string
	Trigger       string
	StartedAt     time.Time
	FinishedAt    time.Time
	Outcome       string
	Stage         string // última etapa alcanzada (la fallida si Outcome != success)
	OrdersCreated int
	ErrorMessage  string
}
