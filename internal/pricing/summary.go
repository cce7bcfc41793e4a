package pricing

import (
	"fmt"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/validation"
	"github.com/shopspring/decimal"
)

// FormatGBP renders an amount the way the price panel shows it, e.g. "£1630.13".
func FormatGBP(d decimal.Decimal) string {
	return "£" + d.StringFixed(2)
}

// Summary is a Breakdown with VAT applied and display strings for the price panel.
type Summary struct {
	Breakdown    Breakdown       `json:"breakdown"`
	VATRate      decimal.Decimal `json:"vatRate"`
	VATAmount    decimal.Decimal `json:"vatAmount"`
	TotalWithVAT decimal.Decimal `json:"totalWithVat"`
	Display      SummaryDisplay  `json:"display"`
}

type SummaryDisplay struct {
	FrameSize    string `json:"frameSize"`
	Area         string `json:"area"`
	BasePrice    string `json:"basePrice"`
	BarsPrice    string `json:"barsPrice"`
	Options      string `json:"additionalOptions"`
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
	UnitPrice    string `json:"unitPrice"`
	TotalPrice   string `json:"totalPrice"`
	VATAmount    string `json:"vatAmount"`
	TotalWithVAT string `json:"totalWithVat"`
}

// Summarize adds VAT on top of the rounded total.
func Summarize(b Breakdown, rules *RuleTable) Summary {
	rate := decimal.Zero
	if rules != nil {
		rate = rules.VATRate
	}
	vat := b.TotalPrice.Mul(rate).Round(roundingPlaces)
	gross := b.TotalPrice.Add(vat)
	return Summary{
		Breakdown:    b,
		VATRate:      rate,
		VATAmount:    vat,
		TotalWithVAT: gross,
		Display: SummaryDisplay{
			FrameSize:    fmt.Sprintf("%d x %d mm", b.FrameWidth, b.FrameHeight),
			Area:         b.AreaSqm.StringFixed(2) + " m²",
			BasePrice:    FormatGBP(b.BasePrice),
			BarsPrice:    FormatGBP(b.BarsPrice),
			Options:      FormatGBP(b.OptionsPrice),
			Subtotal:     FormatGBP(b.Subtotal),
			Discount:     b.DiscountFraction.Shift(2).String() + "%",
			UnitPrice:    FormatGBP(b.UnitPrice),
			TotalPrice:   FormatGBP(b.TotalPrice),
			VATAmount:    FormatGBP(vat),
			TotalWithVAT: FormatGBP(gross),
		},
	}
}

var (
	frameTypes   = []string{string(models.FrameStandard), string(models.FrameSlim)}
	glassTypes   = []string{string(models.GlassDouble), string(models.GlassTriple), string(models.GlassPassive)}
	glassSpecs   = []string{string(models.GlassSpecToughened), string(models.GlassSpecLaminated)}
	glassFinish  = []string{string(models.GlassFinishClear), string(models.GlassFinishFrosted)}
	openingTypes = []string{string(models.OpeningBoth), string(models.OpeningBottom), string(models.OpeningFixed)}
	colorTypes   = []string{string(models.ColorSingle), string(models.ColorDual)}
)

// ValidateSpecification reports fields that must be chosen before a window can
// be added to an estimate. Pricing itself never requires it.
func ValidateSpecification(spec models.WindowSpecification) validation.Violations {
	v := validation.Violations{}
	validation.PositiveInt("width", spec.Width, v)
	validation.PositiveInt("height", spec.Height, v)
	required := []struct {
		field, value string
		allowed      []string
	}{
		{"frameType", string(spec.FrameType), frameTypes},
		{"glassType", string(spec.GlassType), glassTypes},
		{"openingType", string(spec.OpeningType), openingTypes},
		{"colorType", string(spec.ColorType), colorTypes},
		{"glassSpec", string(spec.GlassSpec), glassSpecs},
		{"glassFinish", string(spec.GlassFinish), glassFinish},
	}
	for _, r := range required {
		validation.Required(r.field, r.value, v)
		validation.OneOf(r.field, r.value, r.allowed, v)
	}
	return v
}
