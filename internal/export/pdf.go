package export

import (
	"fmt"

	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/session"
	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

// EstimatePDF renders est as an A4 quotation.
func EstimatePDF(est *session.Estimate, company string) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	dark := color.Color{Red: 38, Green: 38, Blue: 34}
	muted := color.Color{Red: 121, Green: 119, Blue: 109}

	m.Row(15, func() {
		m.Col(12, func() {
			m.Text("ESTIMATE", props.Text{Size: 20, Style: consts.Bold, Color: dark})
		})
	})
	m.Row(8, func() {
		m.Col(6, func() {
			m.Text(company, props.Text{Size: 11, Style: consts.Bold, Color: dark})
		})
		m.Col(6, func() {
			m.Text(est.Number, props.Text{Size: 11, Style: consts.Bold, Align: consts.Right, Color: dark})
		})
	})
	m.Row(5, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Date: %s  Valid until: %s", est.CreatedAt.Format("Jan 02, 2006"), est.ValidUntil.Format("Jan 02, 2006")),
				props.Text{Size: 9, Align: consts.Right, Color: muted})
		})
	})
	m.Row(8, func() {})

	header := props.Text{Size: 9, Style: consts.Bold, Color: dark}
	right := props.Text{Size: 9, Style: consts.Bold, Align: consts.Right, Color: dark}
	m.Row(6, func() {
		m.Col(1, func() { m.Text("No.", header) })
		m.Col(6, func() { m.Text("Description", header) })
		m.Col(1, func() { m.Text("Qty", right) })
		m.Col(2, func() { m.Text("Unit", right) })
		m.Col(2, func() { m.Text("Total", right) })
	})
	m.Line(1)

	cell := props.Text{Size: 8, Color: dark}
	cellRight := props.Text{Size: 8, Align: consts.Right, Color: dark}
	for _, it := range est.Items {
		it := it
		m.Row(10, func() {
			m.Col(1, func() { m.Text(it.Number, cell) })
			m.Col(6, func() {
				m.Text(it.Specification.WindowSymbol, props.Text{Size: 8, Style: consts.Bold, Color: dark})
				m.Text(Describe(it.Specification), props.Text{Size: 7, Top: 4, Color: muted})
				if im := DescribeIronmongery(it.Ironmongery); im != "" {
					m.Text(im, props.Text{Size: 7, Top: 7, Color: muted})
				}
			})
			m.Col(1, func() { m.Text(fmt.Sprintf("%d", it.Price.Quantity), cellRight) })
			m.Col(2, func() { m.Text(pricing.FormatGBP(it.Price.UnitPrice), cellRight) })
			m.Col(2, func() { m.Text(pricing.FormatGBP(it.Net()), cellRight) })
		})
	}
	m.Line(1)

	totals := est.Totals()
	for _, line := range []struct {
		label, value string
	}{
		{"Subtotal", pricing.FormatGBP(totals.Net)},
		{fmt.Sprintf("VAT (%s%%)", est.VATRate.Shift(2).String()), pricing.FormatGBP(totals.VAT)},
		{"Total", pricing.FormatGBP(totals.TotalWithVAT)},
	} {
		line := line
		m.Row(6, func() {
			m.Col(10, func() { m.Text(line.label, right) })
			m.Col(2, func() { m.Text(line.value, right) })
		})
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render estimate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
