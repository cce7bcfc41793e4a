// Package pricing holds the window pricing rule table and the price calculator.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/diewo77/window-configurator/validation"
	"github.com/shopspring/decimal"
)

// SizeTier applies Multiplier to windows whose frame area is at most MaxAreaSqm.
type SizeTier struct {
	MaxAreaSqm decimal.Decimal `json:"maxSqm"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// QuantityDiscount applies Fraction once an order reaches MinQuantity windows.
type QuantityDiscount struct {
	MinQuantity int             `json:"minQty"`
	Fraction    decimal.Decimal `json:"discount"`
}

// Surcharges maps an option value to its flat surcharge. Missing keys cost nothing.
type Surcharges map[string]decimal.Decimal

func (s Surcharges) lookup(key string) decimal.Decimal {
	if v, ok := s[key]; ok {
		return v
	}
	return decimal.Zero
}

// OptionSurcharges groups the per-option surcharge tables.
type OptionSurcharges struct {
	FrameTypes    Surcharges `json:"frameTypes"`
	GlassTypes    Surcharges `json:"glassTypes"`
	GlassSpecs    Surcharges `json:"glassSpec"`
	GlassFinishes Surcharges `json:"glassFinish"`
	Horns         Surcharges `json:"horns"`
	Ironmongery   Surcharges `json:"ironmongery"`
	OpeningTypes  Surcharges `json:"openingTypes"`
	ColorTypes    Surcharges `json:"colorTypes"`
	PAS24         Surcharges `json:"pas24"`
}

// RuleTable is one immutable snapshot of pricing rules. Replace the whole
// table to change prices; never mutate one that has been handed out.
type RuleTable struct {
	Version           int                `json:"version"`
	Currency          string             `json:"currency"`
	BasePricePerSqm   decimal.Decimal    `json:"basePricePerSqm"`
	SizeTiers         []SizeTier         `json:"sizeMultipliers"`
	PricePerBar       decimal.Decimal    `json:"pricePerBar"`
	BarsPerPattern    map[string]int     `json:"barsPerPattern"`
	Options           OptionSurcharges   `json:"additionalOptions"`
	QuantityDiscounts []QuantityDiscount `json:"quantityDiscounts"`
	VATRate           decimal.Decimal    `json:"vatRate"`
}

// FallbackMultiplier is used when the area is above every size tier.
var FallbackMultiplier = decimal.RequireFromString("0.8")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultRules returns the factory price list.
func DefaultRules() *RuleTable {
	return &RuleTable{
		Currency:        "GBP",
		BasePricePerSqm: dec("1000"),
		SizeTiers: []SizeTier{
			{MaxAreaSqm: dec("0.6"), Multiplier: dec("1.25")},
			{MaxAreaSqm: dec("1.0"), Multiplier: dec("1.0")},
			{MaxAreaSqm: dec("1.5"), Multiplier: dec("0.95")},
			{MaxAreaSqm: dec("2.0"), Multiplier: dec("0.9")},
			{MaxAreaSqm: dec("3.0"), Multiplier: dec("0.85")},
			{MaxAreaSqm: dec("999"), Multiplier: dec("0.8")},
		},
		PricePerBar: dec("15"),
		BarsPerPattern: map[string]int{
			"none":       0,
			"2x2":        2,
			"3x3":        4,
			"4x4":        4,
			"6x6":        5,
			"9x9":        8,
			"2-vertical": 2,
			"1-vertical": 1,
		},
		Options: OptionSurcharges{
			FrameTypes:    Surcharges{"standard": dec("0"), "slim": dec("50")},
			GlassTypes:    Surcharges{"double": dec("0"), "triple": dec("150"), "passive": dec("250")},
			GlassSpecs:    Surcharges{"toughened": dec("0"), "laminated": dec("100")},
			GlassFinishes: Surcharges{"clear": dec("0"), "frosted": dec("80")},
			Horns:         Surcharges{"none": dec("0"), "standard": dec("20"), "deep": dec("35"), "traditional": dec("50")},
			Ironmongery:   Surcharges{"none": dec("0"), "black": dec("40"), "chrome": dec("50"), "gold": dec("60")},
			OpeningTypes:  Surcharges{"both": dec("0"), "bottom": dec("-30"), "fixed": dec("-50")},
			ColorTypes:    Surcharges{"single": dec("0"), "dual": dec("100")},
			PAS24:         Surcharges{"no": dec("0"), "yes": dec("100")},
		},
		QuantityDiscounts: []QuantityDiscount{
			{MinQuantity: 1, Fraction: dec("0")},
			{MinQuantity: 5, Fraction: dec("0.05")},
			{MinQuantity: 10, Fraction: dec("0.10")},
			{MinQuantity: 20, Fraction: dec("0.15")},
		},
		VATRate: dec("0.20"),
	}
}

// ParseRules decodes a JSON rule table.
func ParseRules(data []byte) (*RuleTable, error) {
	var rt RuleTable
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("parse pricing rules: %w", err)
	}
	return &rt, nil
}

// LoadRulesFile reads and validates a JSON rule table from disk.
func LoadRulesFile(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing rules: %w", err)
	}
	rt, err := ParseRules(data)
	if err != nil {
		return nil, err
	}
	if v := rt.Validate(); !v.Empty() {
		return nil, fmt.Errorf("invalid pricing rules in %s: %w", path, v)
	}
	return rt, nil
}

// Validate checks a table before it is published. Calculate never calls it.
func (rt *RuleTable) Validate() validation.Violations {
	v := validation.Violations{}
	validation.PositiveFloat("basePricePerSqm", rt.BasePricePerSqm.InexactFloat64(), v)
	validation.NonNegativeFloat("pricePerBar", rt.PricePerBar.InexactFloat64(), v)
	validation.RangeFloat("vatRate", rt.VATRate.InexactFloat64(), 0, 1, v)
	if len(rt.SizeTiers) == 0 {
		v["sizeMultipliers"] = "required"
	}
	for i, t := range rt.SizeTiers {
		validation.PositiveFloat(fmt.Sprintf("sizeMultipliers[%d].maxSqm", i), t.MaxAreaSqm.InexactFloat64(), v)
		validation.NonNegativeFloat(fmt.Sprintf("sizeMultipliers[%d].multiplier", i), t.Multiplier.InexactFloat64(), v)
	}
	for pattern, n := range rt.BarsPerPattern {
		if n < 0 {
			v["barsPerPattern."+pattern] = "must_not_be_negative"
		}
	}
	for i, d := range rt.QuantityDiscounts {
		validation.PositiveInt(fmt.Sprintf("quantityDiscounts[%d].minQty", i), d.MinQuantity, v)
		if d.Fraction.IsNegative() || d.Fraction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			v[fmt.Sprintf("quantityDiscounts[%d].discount", i)] = "out_of_range"
		}
	}
	return v
}

// Clone returns a deep copy that can be edited and published as a new version.
func (rt *RuleTable) Clone() *RuleTable {
	out := *rt
	out.SizeTiers = append([]SizeTier(nil), rt.SizeTiers...)
	out.QuantityDiscounts = append([]QuantityDiscount(nil), rt.QuantityDiscounts...)
	out.BarsPerPattern = make(map[string]int, len(rt.BarsPerPattern))
	for k, n := range rt.BarsPerPattern {
		out.BarsPerPattern[k] = n
	}
	out.Options = OptionSurcharges{
		FrameTypes:    cloneSurcharges(rt.Options.FrameTypes),
		GlassTypes:    cloneSurcharges(rt.Options.GlassTypes),
		GlassSpecs:    cloneSurcharges(rt.Options.GlassSpecs),
		GlassFinishes: cloneSurcharges(rt.Options.GlassFinishes),
		Horns:         cloneSurcharges(rt.Options.Horns),
		Ironmongery:   cloneSurcharges(rt.Options.Ironmongery),
		OpeningTypes:  cloneSurcharges(rt.Options.OpeningTypes),
		ColorTypes:    cloneSurcharges(rt.Options.ColorTypes),
		PAS24:         cloneSurcharges(rt.Options.PAS24),
	}
	return &out
}

func cloneSurcharges(s Surcharges) Surcharges {
	if s == nil {
		return nil
	}
	out := make(Surcharges, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
