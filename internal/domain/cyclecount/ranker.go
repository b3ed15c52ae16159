package cyclecount

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// excludedStorageUnitPrefix: las unidades BorderWorx son bodega aduanera y no
// entran al programa de cycle count.
const excludedStorageUnitPrefix = "BorderWorx"

// Excluded indica si una unidad de almacenamiento está fuera del programa.
func Excluded(storageUnit string) bool {
	return strings.HasPrefix(storageUnit, excludedStorageUnitPrefix)
}

// Rank calcula la prioridad FIFO de cada ubicación a partir del snapshot de
// items. Agrupa por ubicación, toma como score la fecha de referencia más
// antigua entre sus items (fecha de último conteo, o la más vieja entre
// storage/put si nunca se contó) y ordena ascendente: la fecha más vieja es
// la ubicación más vencida y recibe rank 1.
//
// El orden es total y determinista: a igualdad de score gana la ubicación con
// items nunca contados, y el último desempate es el identificador de ubicación.
// Un item sin ninguna fecha utilizable invalida la corrida completa con
// ErrInvalidDateData: saltarlo en silencio rompería la garantía FIFO.
func Rank(items []entity.Item) ([]entity.RankedLocation, error) {
	byLocation := make(map[string]*entity.RankedLocation)

	for _, it := range items {
		if Excluded(it.StorageUnit) {
			continue
		}
		if it.LocationID == "" {
			return nil, fmt.Errorf("item %s sin ubicación: %w", it.MaterialID, domain.ErrInvalidDateData)
		}
		ref := it.ReferenceDate()
		if ref.IsZero() {
			return nil, fmt.Errorf("item %s en ubicación %s sin fecha de referencia: %w",
				it.MaterialID, it.LocationID, domain.ErrInvalidDateData)
		}

		loc, ok := byLocation[it.LocationID]
		if !ok {
			loc = &entity.RankedLocation{
				LocationID:    it.LocationID,
				LocationName:  it.LocationName,
				StorageUnit:   it.StorageUnit,
				Shelf:         ShelfKey(it),
				Qualification: it.Qualification,
				Type:          Classify(it),
				Score:         ref,
				NeverCounted:  it.NeverCounted(),
			}
			byLocation[it.LocationID] = loc
		} else {
			if ref.Before(loc.Score) {
				loc.Score = ref
			}
			if it.NeverCounted() {
				loc.NeverCounted = true
			}
			// Un solo item componente degrada la ubicación a Component:
			// los batches de jerseys deben ser homogéneos.
			if Classify(it) == entity.InventoryTypeComponent {
				loc.Type = entity.InventoryTypeComponent
			}
		}
		loc.Quantity = loc.Quantity.Add(it.Quantity)
	}

	ranked := make([]entity.RankedLocation, 0, len(byLocation))
	for _, loc := range byLocation {
		ranked = append(ranked, *loc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.Score.Equal(b.Score) {
			return a.Score.Before(b.Score)
		}
		if a.NeverCounted != b.NeverCounted {
			return a.NeverCounted
		}
		return a.LocationID < b.LocationID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// Classify determina si un item cuenta como jersey/garment o como componente.
// Jerseys: GroupCode 121 o 127, fuera de las unidades verticales (V*), de G5 y
// de PPG Receiving, y que no sean parches según Info1.
func Classify(it entity.Item) entity.InventoryType {
	isJerseyCode := it.ItemTypeCode == "121" || it.ItemTypeCode == "127"
	inComponentUnit := strings.HasPrefix(it.StorageUnit, "V") ||
		it.StorageUnit == "G5" || it.StorageUnit == "PPG Receiving"
	isPatch := strings.Contains(strings.ToLower(it.Info1), "patch")

	if isJerseyCode && !inComponentUnit && !isPatch {
		return entity.InventoryTypeJersey
	}
	return entity.InventoryTypeComponent
}

// ShelfKey arma el identificador único de estante: unidad_carrier_estante,
// sin espacios. Es la clave con la que operaciones agrupa los conteos físicos.
func ShelfKey(it entity.Item) string {
	key := it.StorageUnit + "_" + it.Carrier + "_" + it.Shelf
	return strings.ReplaceAll(key, " ", "")
}
