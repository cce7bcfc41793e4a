package pricing

import (
	"slices"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/shopspring/decimal"
)

const (
	defaultWidth   = 1000
	defaultHeight  = 1500
	openingExtraW  = 150
	openingExtraH  = 75
	roundingPlaces = 2
)

// Breakdown is the full price derivation for one specification. It is
// recomputed on every request and never cached.
type Breakdown struct {
	FrameWidth       int             `json:"frameWidth"`
	FrameHeight      int             `json:"frameHeight"`
	AreaSqm          decimal.Decimal `json:"areaSqm"`
	SizeMultiplier   decimal.Decimal `json:"sizeMultiplier"`
	BasePrice        decimal.Decimal `json:"basePrice"`
	BarsCount        int             `json:"barsCount"`
	BarsPrice        decimal.Decimal `json:"barsPrice"`
	OptionsPrice     decimal.Decimal `json:"additionalOptionsPrice"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Quantity         int             `json:"quantity"`
	DiscountFraction decimal.Decimal `json:"quantityDiscount"`
	DiscountAmount   decimal.Decimal `json:"discountAmount"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	RulesVersion     int             `json:"rulesVersion"`
}

// Calculate prices spec against rules. It is a pure function: missing fields
// fall back to defaults and unknown option values cost nothing. Intermediate
// values keep full precision; only UnitPrice and TotalPrice are rounded.
func Calculate(spec models.WindowSpecification, rules *RuleTable) Breakdown {
	if rules == nil {
		rules = &RuleTable{}
	}
	fw, fh := FrameDimensions(spec)
	area := decimal.NewFromInt(int64(fw)).Shift(-3).Mul(decimal.NewFromInt(int64(fh)).Shift(-3))

	multiplier := rules.sizeMultiplier(area)
	base := rules.BasePricePerSqm.Mul(area).Mul(multiplier)

	bars := rules.barsCount(spec)
	barsPrice := rules.PricePerBar.Mul(decimal.NewFromInt(int64(bars)))

	options := rules.optionsPrice(spec)
	subtotal := base.Add(barsPrice).Add(options)

	qty := spec.Quantity
	if qty < 1 {
		qty = 1
	}
	fraction := rules.discountFraction(qty)
	discount := subtotal.Mul(fraction)
	unit := subtotal.Sub(discount)

	return Breakdown{
		FrameWidth:       fw,
		FrameHeight:      fh,
		AreaSqm:          area,
		SizeMultiplier:   multiplier,
		BasePrice:        base,
		BarsCount:        bars,
		BarsPrice:        barsPrice,
		OptionsPrice:     options,
		Subtotal:         subtotal,
		Quantity:         qty,
		DiscountFraction: fraction,
		DiscountAmount:   discount,
		UnitPrice:        unit.Round(roundingPlaces),
		TotalPrice:       unit.Mul(decimal.NewFromInt(int64(qty))).Round(roundingPlaces),
		RulesVersion:     rules.Version,
	}
}

// FrameDimensions returns the frame size in mm that the price is based on.
func FrameDimensions(spec models.WindowSpecification) (width, height int) {
	if spec.HasFrameOverride() {
		return spec.ActualFrameWidth, spec.ActualFrameHeight
	}
	width, height = spec.Width, spec.Height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}
	if spec.MeasurementType.Normalize() == models.MeasurementStructuralOpening {
		width += openingExtraW
		height += openingExtraH
	}
	return width, height
}

func (rt *RuleTable) sizeMultiplier(area decimal.Decimal) decimal.Decimal {
	tiers := slices.Clone(rt.SizeTiers)
	slices.SortStableFunc(tiers, func(a, b SizeTier) int { return a.MaxAreaSqm.Cmp(b.MaxAreaSqm) })
	for _, t := range tiers {
		if t.MaxAreaSqm.GreaterThanOrEqual(area) {
			return t.Multiplier
		}
	}
	return FallbackMultiplier
}

func (rt *RuleTable) barsCount(spec models.WindowSpecification) int {
	var upper, lower *models.SashBars
	if spec.CustomBars != nil {
		upper, lower = spec.CustomBars.Upper, spec.CustomBars.Lower
	}
	return rt.sashBars(spec.UpperBars, upper) + rt.sashBars(spec.LowerBars, lower)
}

func (rt *RuleTable) sashBars(pattern models.BarPattern, custom *models.SashBars) int {
	if pattern == models.BarsCustom {
		return custom.Count()
	}
	return rt.BarsPerPattern[string(pattern)]
}

func (rt *RuleTable) optionsPrice(spec models.WindowSpecification) decimal.Decimal {
	o := rt.Options
	pas24 := "no"
	if spec.PAS24 {
		pas24 = "yes"
	}
	return decimal.Sum(
		o.FrameTypes.lookup(string(spec.FrameType)),
		o.GlassTypes.lookup(string(spec.GlassType)),
		o.GlassSpecs.lookup(string(spec.GlassSpec)),
		o.GlassFinishes.lookup(string(spec.GlassFinish)),
		o.Horns.lookup(string(spec.Horns)),
		o.Ironmongery.lookup(string(spec.IronmongeryFinish)),
		o.OpeningTypes.lookup(string(spec.OpeningType)),
		o.ColorTypes.lookup(string(spec.ColorType)),
		o.PAS24.lookup(pas24),
	)
}

// discountFraction picks the tier with the highest MinQuantity not above qty.
func (rt *RuleTable) discountFraction(qty int) decimal.Decimal {
	best := -1
	fraction := decimal.Zero
	for _, d := range rt.QuantityDiscounts {
		if d.MinQuantity <= qty && d.MinQuantity > best {
			best = d.MinQuantity
			fraction = d.Fraction
		}
	}
	return fraction
}
