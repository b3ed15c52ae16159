package cyclecount

import (
	"time"

	"github.com/google/uuid"

	domaincc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// GenerateOptions política de selección de una corrida.
type GenerateOptions struct {
	// MaxOrders acota la carga diaria de conteo. El excedente no es un error:
	// queda diferido a la siguiente corrida.
	MaxOrders int
	// Filtros opcionales (vacío = sin filtro), por nombre.
	StorageUnits []string
	Qualifiers   []string
	Locations    []string
	// AdditionalPrefix se inserta en el nombre de batch (corridas especiales).
	AdditionalPrefix string
	// Priority de las órdenes en ItemPath (1=Low..4=Hot).
	Priority int
	// Now fija la marca de tiempo de creación y la fecha del batch.
	Now time.Time
}

// Generate selecciona las primeras MaxOrders ubicaciones elegibles en orden de
// prioridad y arma los borradores de orden. Una ubicación presente en open
// (orden abierta dentro de la ventana de deduplicación) nunca se selecciona.
// Transformación pura: sin red ni almacenamiento.
func Generate(ranked []entity.RankedLocation, open map[string]struct{}, opts GenerateOptions) []entity.CountOrder {
	if opts.MaxOrders <= 0 || len(ranked) == 0 {
		return nil
	}

	units := toSet(opts.StorageUnits)
	quals := toSet(opts.Qualifiers)
	locs := toSet(opts.Locations)

	deadline := domaincc.NextBusinessDay(opts.Now)
	orders := make([]entity.CountOrder, 0, opts.MaxOrders)

	for _, rl := range ranked {
		if len(orders) >= opts.MaxOrders {
			break
		}
		if _, isOpen := open[rl.LocationID]; isOpen {
			continue
		}
		if !matches(units, rl.StorageUnit) || !matches(quals, rl.Qualification) || !matches(locs, rl.LocationName) {
			continue
		}

		orders = append(orders, entity.CountOrder{
			ID:           uuid.NewString(),
			LocationID:   rl.LocationID,
			LocationName: rl.LocationName,
			StorageUnit:  rl.StorageUnit,
			BatchName:    domaincc.BatchName(opts.Now, rl, opts.AdditionalPrefix),
			Status:       entity.OrderStatusPending,
			Priority:     opts.Priority,
			Quantity:     rl.Quantity,
			Deadline:     deadline,
			CreatedAt:    opts.Now,
		})
	}
	return orders
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// matches: un set nil significa "sin filtro".
func matches(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
