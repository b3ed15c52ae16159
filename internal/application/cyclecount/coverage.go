package cyclecount

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/dto"
	domaincc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/cyclecount"
)

// Coverage calcula qué porcentaje de las ubicaciones fue verificado desde la
// fecha de referencia, por unidad de almacenamiento. Una ubicación cuenta como
// cubierta si alguno de sus items fue contado después de since, o si fue
// puesta (put/storage) después de since: lo recién almacenado no necesita
// recuento todavía.
func (c *Coordinator) Coverage(ctx context.Context, since time.Time) (*dto.CoverageReport, error) {
	items, err := c.source.FetchLocationContents(ctx)
	if err != nil {
		return nil, err
	}

	type locFlags struct {
		unit    string
		counted bool
		put     bool
	}
	locations := make(map[string]*locFlags)

	for _, it := range items {
		if domaincc.Excluded(it.StorageUnit) {
			continue
		}
		lf, ok := locations[it.LocationID]
		if !ok {
			lf = &locFlags{unit: it.StorageUnit}
			locations[it.LocationID] = lf
		}
		if it.LastCountDate != nil && !it.LastCountDate.Before(since) {
			lf.counted = true
		}
		put := it.PutDate
		if it.StorageDate.After(put) {
			put = it.StorageDate
		}
		if !put.IsZero() && !put.Before(since) {
			lf.put = true
		}
	}

	byUnit := make(map[string]*dto.CoverageUnit)
	totals := dto.CoverageUnit{StorageUnit: "TOTAL"}
	for _, lf := range locations {
		cu, ok := byUnit[lf.unit]
		if !ok {
			cu = &dto.CoverageUnit{StorageUnit: lf.unit}
			byUnit[lf.unit] = cu
		}
		cu.TotalLocations++
		totals.TotalLocations++
		if lf.counted {
			cu.CountedSince++
			totals.CountedSince++
		}
		if lf.put {
			cu.PutSince++
			totals.PutSince++
		}
		if lf.counted || lf.put {
			cu.Covered++
			totals.Covered++
		}
	}

	units := make([]dto.CoverageUnit, 0, len(byUnit))
	for _, cu := range byUnit {
		cu.CoveragePct = pct(cu.Covered, cu.TotalLocations)
		units = append(units, *cu)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].StorageUnit < units[j].StorageUnit })
	totals.CoveragePct = pct(totals.Covered, totals.TotalLocations)

	return &dto.CoverageReport{
		Since:  since.Format("2006-01-02"),
		Units:  units,
		Totals: totals,
	}, nil
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
