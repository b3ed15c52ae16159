package cyclecount_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rankedLoc(rank int, locID, unit string, score time.Time, neverCounted bool) entity.RankedLocation {
	return entity.RankedLocation{
		LocationID:   locID,
		LocationName: "Loc " + locID,
		StorageUnit:  unit,
		Type:         entity.InventoryTypeJersey,
		Quantity:     decimal.NewFromInt(10),
		Score:        score,
		NeverCounted: neverCounted,
		Rank:         rank,
	}
}

func defaultOpts(maxOrders int) appcc.GenerateOptions {
	return appcc.GenerateOptions{
		MaxOrders: maxOrders,
		Priority:  3,
		Now:       date(2025, 8, 27), // miércoles
	}
}

func TestGenerate_SeleccionaLaMasVencidaPrimero(t *testing.T) {
	// Ubicación A nunca contada, B contada hace poco. Con tope 1 y sin órdenes
	// abiertas debe salir A; con A bloqueada por una orden abierta, sale B.
	ranked := []entity.RankedLocation{
		rankedLoc(1, "A", "U1", date(2024, 1, 1), true),
		rankedLoc(2, "B", "U1", date(2025, 6, 1), false),
	}

	orders := appcc.Generate(ranked, map[string]struct{}{}, defaultOpts(1))
	require.Len(t, orders, 1)
	assert.Equal(t, "A", orders[0].LocationID)

	orders = appcc.Generate(ranked, map[string]struct{}{"A": {}}, defaultOpts(1))
	require.Len(t, orders, 1)
	assert.Equal(t, "B", orders[0].LocationID,
		"una ubicación con orden abierta nunca se selecciona")
}

func TestGenerate_RespetaElTope(t *testing.T) {
	ranked := []entity.RankedLocation{
		rankedLoc(1, "A", "U1", date(2024, 1, 1), false),
		rankedLoc(2, "B", "U1", date(2024, 2, 1), false),
		rankedLoc(3, "C", "U1", date(2024, 3, 1), false),
	}

	orders := appcc.Generate(ranked, nil, defaultOpts(2))
	require.Len(t, orders, 2, "el excedente queda diferido a la siguiente corrida")
	assert.Equal(t, "A", orders[0].LocationID)
	assert.Equal(t, "B", orders[1].LocationID)
}

func TestGenerate_TopeCeroNoGeneraNada(t *testing.T) {
	ranked := []entity.RankedLocation{rankedLoc(1, "A", "U1", date(2024, 1, 1), false)}
	assert.Empty(t, appcc.Generate(ranked, nil, defaultOpts(0)))
}

func TestGenerate_FiltroPorUnidad(t *testing.T) {
	ranked := []entity.RankedLocation{
		rankedLoc(1, "A", "U1", date(2024, 1, 1), false),
		rankedLoc(2, "B", "U2", date(2024, 2, 1), false),
	}
	opts := defaultOpts(10)
	opts.StorageUnits = []string{"U2"}

	orders := appcc.Generate(ranked, nil, opts)
	require.Len(t, orders, 1)
	assert.Equal(t, "B", orders[0].LocationID)
}

func TestGenerate_FiltroPorUbicacion(t *testing.T) {
	ranked := []entity.RankedLocation{
		rankedLoc(1, "A", "U1", date(2024, 1, 1), false),
		rankedLoc(2, "B", "U1", date(2024, 2, 1), false),
	}
	opts := defaultOpts(10)
	opts.Locations = []string{"Loc B"}

	orders := appcc.Generate(ranked, nil, opts)
	require.Len(t, orders, 1)
	assert.Equal(t, "B", orders[0].LocationID)
}

func TestGenerate_CamposDelBorrador(t *testing.T) {
	ranked := []entity.RankedLocation{rankedLoc(4, "A", "U1", date(2024, 1, 1), true)}
	opts := defaultOpts(1)
	opts.Priority = 2

	orders := appcc.Generate(ranked, nil, opts)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Equal(t, 2, o.Priority)
	assert.Equal(t, "250827.U1JerseyCount.4", o.BatchName)
	assert.Equal(t, date(2025, 8, 28), o.Deadline, "el deadline es el siguiente día hábil")
	assert.True(t, o.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, opts.Now, o.CreatedAt)
}

func TestGenerate_IDsUnicos(t *testing.T) {
	ranked := []entity.RankedLocation{
		rankedLoc(1, "A", "U1", date(2024, 1, 1), false),
		rankedLoc(2, "B", "U1", date(2024, 2, 1), false),
	}
	orders := appcc.Generate(ranked, nil, defaultOpts(10))
	require.Len(t, orders, 2)
	assert.NotEqual(t, orders[0].ID, orders[1].ID)
}
