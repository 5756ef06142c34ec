package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/factupro/cotizador/internal/quote"
)

const sheetName = "Cotización"

// QuoteXLSX renders an export payload as a spreadsheet with the same line
// order as the PDF summary.
func QuoteXLSX(p quote.Payload) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", "A", 34); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 16); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	moneyFmt := "$#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	strongMoneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create strong money style: %w", err)
	}

	rowNum := 1
	setCell := func(colRef string, value any, style int) {
		cell := fmt.Sprintf("%s%d", colRef, rowNum)
		f.SetCellValue(sheetName, cell, value)
		if style != 0 {
			f.SetCellStyle(sheetName, cell, cell, style)
		}
	}
	amountLine := func(label string, value float64, style int) {
		setCell("A", label, 0)
		setCell("B", value, style)
		rowNum++
	}

	setCell("A", "Resumen de cotización", titleStyle)
	rowNum++
	setCell("A", fmt.Sprintf("Fecha de generación: %s", p.CreatedAt), 0)
	rowNum++
	setCell("A", fmt.Sprintf("Técnicos: %.0f  |  Ayudantes: %.0f", p.State.QtyTechs, p.State.QtyHelpers), 0)
	rowNum++
	setCell("A", fmt.Sprintf("Período: %.0f %s", p.State.PeriodValue, p.State.PeriodUnit), 0)
	rowNum += 2

	setCell("A", "Resumen de costos", sectionStyle)
	rowNum++
	amountLine("Mano de obra", p.Totals.TotalLabor, moneyStyle)
	amountLine("Insumos", p.Totals.TotalSupplies, moneyStyle)
	amountLine("Transporte", p.Totals.TotalTransport, moneyStyle)
	amountLine("EPP adicionales", p.Totals.TotalEpp, moneyStyle)
	amountLine("Otros", p.Totals.TotalOther, moneyStyle)
	amountLine("Horas extra (con aportes)", p.Totals.TotalOvertime, moneyStyle)
	amountLine("Costo base", p.Totals.BaseCost, moneyStyle)
	amountLine("Imprevistos (10%)", p.Totals.Contingency, moneyStyle)
	amountLine("Subtotal del proyecto", p.Totals.Subtotal, strongMoneyStyle)
	rowNum++

	setCell("A", "Márgenes de utilidad sugeridos", sectionStyle)
	rowNum++
	for _, margin := range p.Totals.Margins {
		amountLine(margin.Label, margin.Value, moneyStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}
