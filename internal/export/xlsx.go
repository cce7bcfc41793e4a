package export

import (
	"fmt"

	"github.com/diewo77/window-configurator/internal/session"
	"github.com/xuri/excelize/v2"
)

var estimateHeaders = []string{
	"No.", "Symbol", "Description", "Width", "Height", "Frame W", "Frame H",
	"Area m²", "Bars", "Quantity", "Discount", "Unit price", "Ironmongery", "Total",
}

// EstimateXLSX writes est as a single-sheet workbook.
func EstimateXLSX(est *session.Estimate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Estimate"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheet, "A1", est.Number)
	f.SetCellValue(sheet, "C1", "Valid until "+est.ValidUntil.Format("2006-01-02"))

	for i, h := range estimateHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "3"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for idx, it := range est.Items {
		row := idx + 4
		p := it.Price
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Number)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Specification.WindowSymbol)
		desc := Describe(it.Specification)
		if im := DescribeIronmongery(it.Ironmongery); im != "" {
			desc += "; " + im
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), desc)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), it.Specification.Width)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), it.Specification.Height)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.FrameWidth)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.FrameHeight)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), p.AreaSqm.Round(4).InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), p.BarsCount)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), p.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), p.DiscountFraction.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), p.UnitPrice.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), it.IronmongeryNet.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), it.Net().InexactFloat64())
	}

	totals := est.Totals()
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	first := len(est.Items) + 5
	for i, line := range []struct {
		label string
		value float64
	}{
		{"Subtotal", totals.Net.InexactFloat64()},
		{"VAT", totals.VAT.InexactFloat64()},
		{"Total", totals.TotalWithVAT.InexactFloat64()},
	} {
		row := first + i
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), line.label)
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), line.value)
		f.SetCellStyle(sheet, fmt.Sprintf("M%d", row), fmt.Sprintf("N%d", row), summaryStyle)
	}

	colWidths := []float64{6, 12, 60, 8, 8, 9, 9, 9, 6, 9, 9, 12, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render estimate xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
