package models

import (
	"encoding/json"
	"reflect"
	"strings"
)

// MeasurementType tells how width/height were measured on site.
type MeasurementType string

const (
	MeasurementStructuralOpening MeasurementType = "structural-opening"
	MeasurementFrameSize         MeasurementType = "frame-size"

	// measurementBrickToBrick is the legacy name of a structural opening.
	measurementBrickToBrick MeasurementType = "brick-to-brick"
)

// Normalize maps the empty value and the legacy alias to structural-opening.
func (m MeasurementType) Normalize() MeasurementType {
	if m == "" || m == measurementBrickToBrick {
		return MeasurementStructuralOpening
	}
	return m
}

type FrameType string

const (
	FrameStandard FrameType = "standard"
	FrameSlim     FrameType = "slim"
)

type GlassType string

const (
	GlassDouble  GlassType = "double"
	GlassTriple  GlassType = "triple"
	GlassPassive GlassType = "passive"
)

type GlassSpec string

const (
	GlassSpecToughened GlassSpec = "toughened"
	GlassSpecLaminated GlassSpec = "laminated"
)

type GlassFinish string

const (
	GlassFinishClear   GlassFinish = "clear"
	GlassFinishFrosted GlassFinish = "frosted"
)

type FrostedLocation string

const (
	FrostedBottom FrostedLocation = "bottom"
	FrostedBoth   FrostedLocation = "both"
)

type OpeningType string

const (
	OpeningBoth   OpeningType = "both"
	OpeningBottom OpeningType = "bottom"
	OpeningFixed  OpeningType = "fixed"
)

type ColorType string

const (
	ColorSingle ColorType = "single"
	ColorDual   ColorType = "dual"
)

// BarPattern is the glazing bar layout of one sash.
type BarPattern string

const (
	BarsNone      BarPattern = "none"
	Bars2x2       BarPattern = "2x2"
	Bars3x3       BarPattern = "3x3"
	Bars4x4       BarPattern = "4x4"
	Bars6x6       BarPattern = "6x6"
	Bars9x9       BarPattern = "9x9"
	Bars2Vertical BarPattern = "2-vertical"
	Bars1Vertical BarPattern = "1-vertical"
	BarsCustom    BarPattern = "custom"
)

type Horns string

const (
	HornsNone        Horns = "none"
	HornsStandard    Horns = "standard"
	HornsDeep        Horns = "deep"
	HornsTraditional Horns = "traditional"
)

type IronmongeryFinish string

const (
	IronmongeryNone         IronmongeryFinish = "none"
	IronmongeryBlack        IronmongeryFinish = "black"
	IronmongeryChrome       IronmongeryFinish = "chrome"
	IronmongeryGold         IronmongeryFinish = "gold"
	IronmongerySatin        IronmongeryFinish = "satin"
	IronmongeryBrass        IronmongeryFinish = "brass"
	IronmongeryAntiqueBrass IronmongeryFinish = "antique-brass"
	IronmongeryWhite        IronmongeryFinish = "white"
	IronmongeryClientSupply IronmongeryFinish = "client-supply"
)

// SashBars holds custom bar offsets (mm from the sash edge) for one sash.
type SashBars struct {
	Horizontal []int `json:"horizontal"`
	Vertical   []int `json:"vertical"`
}

// Count returns the number of bars placed on the sash.
func (s *SashBars) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Horizontal) + len(s.Vertical)
}

// CustomBars is only read for a sash whose pattern is BarsCustom.
type CustomBars struct {
	Upper *SashBars `json:"upper,omitempty"`
	Lower *SashBars `json:"lower,omitempty"`
}

// WindowSpecification is the full set of choices a customer makes for one window.
// Zero values mean "not chosen yet".
type WindowSpecification struct {
	Width             int               `json:"width,omitempty"`
	Height            int               `json:"height,omitempty"`
	MeasurementType   MeasurementType   `json:"measurementType,omitempty"`
	ActualFrameWidth  int               `json:"actualFrameWidth,omitempty"`
	ActualFrameHeight int               `json:"actualFrameHeight,omitempty"`
	FrameType         FrameType         `json:"frameType,omitempty"`
	GlassType         GlassType         `json:"glassType,omitempty"`
	GlassSpec         GlassSpec         `json:"glassSpec,omitempty"`
	GlassFinish       GlassFinish       `json:"glassFinish,omitempty"`
	FrostedLocation   FrostedLocation   `json:"frostedLocation,omitempty"`
	OpeningType       OpeningType       `json:"openingType,omitempty"`
	ColorType         ColorType         `json:"colorType,omitempty"`
	SingleColor       string            `json:"singleColor,omitempty"`
	InteriorColor     string            `json:"interiorColor,omitempty"`
	ExteriorColor     string            `json:"exteriorColor,omitempty"`
	UpperBars         BarPattern        `json:"upperBars,omitempty"`
	LowerBars         BarPattern        `json:"lowerBars,omitempty"`
	CustomBars        *CustomBars       `json:"customBars,omitempty"`
	Horns             Horns             `json:"horns,omitempty"`
	IronmongeryFinish IronmongeryFinish `json:"ironmongeryFinish,omitempty"`
	PAS24             bool              `json:"pas24"`
	Quantity          int               `json:"quantity,omitempty"`
	WindowSymbol      string            `json:"windowSymbol,omitempty"`
}

// DefaultSpecification is the state of a freshly opened configurator.
func DefaultSpecification() WindowSpecification {
	return WindowSpecification{
		Width:             1000,
		Height:            1500,
		MeasurementType:   MeasurementStructuralOpening,
		FrameType:         FrameStandard,
		GlassType:         GlassDouble,
		GlassSpec:         GlassSpecToughened,
		GlassFinish:       GlassFinishClear,
		OpeningType:       OpeningBoth,
		ColorType:         ColorSingle,
		SingleColor:       "white",
		UpperBars:         BarsNone,
		LowerBars:         BarsNone,
		Horns:             HornsNone,
		IronmongeryFinish: IronmongeryNone,
		Quantity:          1,
	}
}

// HasFrameOverride reports whether the caller supplied the frame size directly.
func (w WindowSpecification) HasFrameOverride() bool {
	return w.ActualFrameWidth > 0 && w.ActualFrameHeight > 0
}

// Clone returns a deep copy; custom bar slices are not shared.
func (w WindowSpecification) Clone() WindowSpecification {
	out := w
	if w.CustomBars != nil {
		cb := CustomBars{Upper: cloneSash(w.CustomBars.Upper), Lower: cloneSash(w.CustomBars.Lower)}
		out.CustomBars = &cb
	}
	return out
}

func cloneSash(s *SashBars) *SashBars {
	if s == nil {
		return nil
	}
	return &SashBars{
		Horizontal: append([]int(nil), s.Horizontal...),
		Vertical:   append([]int(nil), s.Vertical...),
	}
}

// UnmarshalJSON accepts the legacy measurement alias.
func (w *WindowSpecification) UnmarshalJSON(data []byte) error {
	type plain WindowSpecification
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.MeasurementType == measurementBrickToBrick {
		p.MeasurementType = MeasurementStructuralOpening
	}
	*w = WindowSpecification(p)
	return nil
}

// FieldNames returns the JSON names of every specification field.
func FieldNames() []string {
	t := reflect.TypeOf(WindowSpecification{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		names = append(names, name)
	}
	return names
}
