// Package export renders estimates as PDF and XLSX documents.
package export

import (
	"fmt"
	"strings"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/session"
)

// Describe summarises a specification on one line for document tables.
func Describe(spec models.WindowSpecification) string {
	w, h := pricing.FrameDimensions(spec)
	parts := []string{
		fmt.Sprintf("%d x %d mm frame", w, h),
		string(spec.FrameType) + " frame",
		string(spec.GlassType) + " glazing",
		string(spec.OpeningType) + " opening",
	}
	if hasBars(spec.UpperBars) || hasBars(spec.LowerBars) {
		parts = append(parts, fmt.Sprintf("bars %s/%s", orNone(spec.UpperBars), orNone(spec.LowerBars)))
	}
	if spec.ColorType == models.ColorDual {
		parts = append(parts, fmt.Sprintf("dual colour %s/%s", spec.InteriorColor, spec.ExteriorColor))
	} else if spec.SingleColor != "" {
		parts = append(parts, spec.SingleColor)
	}
	if spec.GlassFinish == models.GlassFinishFrosted {
		parts = append(parts, "frosted "+string(spec.FrostedLocation))
	}
	if spec.PAS24 {
		parts = append(parts, "PAS24")
	}
	return strings.Join(parts, ", ")
}

// DescribeIronmongery lists the fittings of one window, or "" when none were chosen.
func DescribeIronmongery(lines []session.IronmongeryLine) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%d x %s (%s)", l.Quantity, l.Name, l.Finish)
	}
	return "Ironmongery: " + strings.Join(parts, ", ")
}

func hasBars(p models.BarPattern) bool { return p != "" && p != models.BarsNone }

func orNone(p models.BarPattern) string {
	if p == "" {
		return string(models.BarsNone)
	}
	return string(p)
}
