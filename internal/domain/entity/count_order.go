package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de conteo. "pending" e "in_progress" cuentan como
// abiertas para el filtro de deduplicación; los demás son terminales.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusSkipped    = "skipped" // ya existía en ItemPath o no tenía líneas
	OrderStatusFailed     = "failed"  // el envío a ItemPath falló
)

// CountOrder es una orden de conteo generada para una ubicación.
// Se persiste indefinidamente; el estado lo actualizan consumidores externos.
type CountOrder struct {
	ID           string
	RunID        string
	LocationID   string
	LocationName string
	StorageUnit  string
	// BatchName sigue el esquema YYMMDD.<unidad><prefijo><tipo>Count.<rank>,
	// sin espacios; es el nombre con el que la orden se crea en ItemPath.
	BatchName string
	// ItemPathID id de la orden en ItemPath. Vacío hasta que el envío lo
	// devuelve, o hasta que la reconciliación por nombre lo resuelve cuando
	// la orden ya existía de una corrida anterior.
	ItemPathID string
	Status     string
	Priority   int // 1=Low, 2=Medium, 3=High, 4=Hot
	Quantity   decimal.Decimal
	Deadline   time.Time
	CreatedAt  time.Time
}

// Open indica si la orden sigue abierta para efectos de deduplicación.
func (o CountOrder) Open() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusInProgress
}
