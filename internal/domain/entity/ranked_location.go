package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryType clasificación de inventario para el esquema de nombres de batch.
type InventoryType string

const (
	InventoryTypeJersey    InventoryType = "Jersey"
	InventoryTypeComponent InventoryType = "Component"
)

// RankedLocation es una ubicación candidata a conteo con su prioridad FIFO.
// Derivada por corrida, nunca persistida.
type RankedLocation struct {
	LocationID    string
	LocationName  string
	StorageUnit   string
	Shelf         string // identificador único de estante (unidad_carrier_estante, sin espacios)
	Qualification string
	Type          InventoryType
	Quantity      decimal.Decimal // cantidad total de la ubicación
	// Score es la fecha de referencia más antigua entre los items de la
	// ubicación: una ubicación es tan fresca como su contenido menos verificado.
	Score        time.Time
	NeverCounted bool // algún item sin fecha de conteo
	Rank         int  // 1 = más prioritaria
}
