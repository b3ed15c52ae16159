// Package pdf genera la hoja de conteo imprimible de una corrida: una fila
// por orden con el nombre de batch en código de barras Code128, para que el
// personal de bodega escanee el batch al iniciar el conteo físico.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appcc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

var _ appcc.CountSheetGenerator = (*CountSheetGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// CountSheetGenerator implementa cyclecount.CountSheetGenerator usando Maroto v2.
type CountSheetGenerator struct{}

// NewCountSheetGenerator construye el generador.
func NewCountSheetGenerator() *CountSheetGenerator { return &CountSheetGenerator{} }

// GenerateCountSheet genera el PDF de la corrida y devuelve sus bytes.
func (g *CountSheetGenerator) GenerateCountSheet(
	_ context.Context,
	run *entity.Run,
	orders []entity.CountOrder,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de Conteo Cíclico", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(run))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, o := range orders {
		m.AddRows(orderRow(o))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título + identificación de la corrida.
func headerRow(run *entity.Run) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("HOJA DE CONTEO CÍCLICO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Corrida: "+run.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+run.StartedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(fmt.Sprintf("Órdenes: %d", run.OrdersCreated), props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de órdenes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Batch", 4, align.Left),
		h("Ubicación", 3, align.Left),
		h("Unidad", 1, align.Left),
		h("Cant.", 1, align.Right),
		h("Código", 3, align.Center),
	)
}

// orderRow: una fila por orden con su batch en Code128.
func orderRow(o entity.CountOrder) core.Row {
	return row.New(14).Add(
		col.New(4).Add(text.New(
			o.BatchName,
			props.Text{Size: 8, Align: align.Left, Top: 5, Left: 1},
		)),
		col.New(3).Add(text.New(
			o.LocationName,
			props.Text{Size: 8, Align: align.Left, Top: 5, Left: 1},
		)),
		col.New(1).Add(text.New(
			o.StorageUnit,
			props.Text{Size: 8, Align: align.Left, Top: 5},
		)),
		col.New(1).Add(text.New(
			o.Quantity.StringFixed(0),
			props.Text{Size: 8, Align: align.Right, Top: 5, Right: 1},
		)),
		col.New(3).Add(code.NewBar(o.BatchName, props.Barcode{
			Percent: 90, Center: true,
		})),
	)
}
