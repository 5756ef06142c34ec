package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/factupro/cotizador/internal/quote"
)

// QuotePDF renders an export payload as a one-page quote summary. Lines
// appear in the product's fixed order: labor, supplies, transport, PPE,
// other, overtime, base cost, contingency, subtotal, margin table.
func QuotePDF(p quote.Payload) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New("Resumen de cotización", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
				}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Fecha de generación: %s", p.CreatedAt), props.Text{
					Size:  9,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(5).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Técnicos: %.0f  |  Ayudantes: %.0f", p.State.QtyTechs, p.State.QtyHelpers), props.Text{Size: 9}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Período: %.0f %s", p.State.PeriodValue, p.State.PeriodUnit), props.Text{Size: 9}),
			),
		),
		row.New(4),
	)

	addSectionTitle(m, "Resumen de costos")
	addAmountLine(m, "Mano de obra", p.Totals.TotalLabor, false)
	addAmountLine(m, "Insumos", p.Totals.TotalSupplies, false)
	addAmountLine(m, "Transporte", p.Totals.TotalTransport, false)
	addAmountLine(m, "EPP adicionales", p.Totals.TotalEpp, false)
	addAmountLine(m, "Otros", p.Totals.TotalOther, false)
	addAmountLine(m, "Horas extra (con aportes)", p.Totals.TotalOvertime, false)
	m.AddRows(row.New(2))
	addAmountLine(m, "Costo base", p.Totals.BaseCost, false)
	addAmountLine(m, "Imprevistos (10%)", p.Totals.Contingency, false)
	addAmountLine(m, "Subtotal del proyecto", p.Totals.Subtotal, true)

	m.AddRows(row.New(4))
	addSectionTitle(m, "Márgenes de utilidad sugeridos")
	for _, margin := range p.Totals.Margins {
		addAmountLine(m, margin.Label, margin.Value, false)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}

	return doc.GetBytes(), nil
}

func addSectionTitle(m core.Maroto, title string) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  12,
					Style: fontstyle.Bold,
				}),
			),
		),
	)
}

func addAmountLine(m core.Maroto, label string, value float64, strong bool) {
	labelProps := props.Text{Size: 9}
	valueProps := props.Text{Size: 9, Align: align.Right}
	if strong {
		labelProps.Style = fontstyle.Bold
		valueProps.Style = fontstyle.Bold
	}

	m.AddRows(
		row.New(5).Add(
			col.New(8).Add(text.New(label, labelProps)),
			col.New(4).Add(text.New(FormatUSD(value), valueProps)),
		),
	)
}
