package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item es el contenido de una ubicación según la fuente de inventario (ItemPath).
// Es un snapshot efímero por corrida: nunca se persiste en el historial.
type Item struct {
	MaterialID    string
	MaterialName  string
	ItemTypeCode  string // GroupCode del material ("121"/"127" = jerseys/garments)
	Info1         string
	LocationID    string
	LocationName  string
	StorageUnit   string
	Carrier       string
	Shelf         string
	Qualification string
	Quantity      decimal.Decimal
	PutDate       time.Time
	StorageDate   time.Time // cero = desconocida
	// LastCountDate nil significa que la ubicación nunca fue contada para este item:
	// máxima prioridad de conteo a igualdad de fechas.
	LastCountDate *time.Time
}

// ReferenceDate devuelve la fecha que gobierna la prioridad FIFO del item:
// la última fecha de conteo si existe; si no, la más antigua entre
// StorageDate y PutDate. Cero si no hay ninguna fecha utilizable.
func (it Item) ReferenceDate() time.Time {
	if it.LastCountDate != nil && !it.LastCountDate.IsZero() {
		return *it.LastCountDate
	}
	switch {
	case it.StorageDate.IsZero():
		return it.PutDate
	case it.PutDate.IsZero():
		return it.StorageDate
	case it.StorageDate.Before(it.PutDate):
		return it.StorageDate
	default:
		return it.PutDate
	}
}

// NeverCounted indica si el item no tiene fecha de conteo registrada.
func (it Item) NeverCounted() bool {
	return it.LastCountDate == nil || it.LastCountDate.IsZero()
}
