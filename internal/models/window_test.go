package models

import (
	"encoding/json"
	"testing"
)

func TestMeasurementType_Normalize(t *testing.T) {
	tests := []struct {
		in   MeasurementType
		want MeasurementType
	}{
		{"", MeasurementStructuralOpening},
		{"brick-to-brick", MeasurementStructuralOpening},
		{MeasurementStructuralOpening, MeasurementStructuralOpening},
		{MeasurementFrameSize, MeasurementFrameSize},
		{"something-else", "something-else"},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSashBars_Count(t *testing.T) {
	var nilSash *SashBars
	if got := nilSash.Count(); got != 0 {
		t.Errorf("nil sash count = %d, want 0", got)
	}
	s := &SashBars{Horizontal: []int{300, 600}, Vertical: []int{450}}
	if got := s.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

func TestWindowSpecification_CloneIsDeep(t *testing.T) {
	orig := DefaultSpecification()
	orig.CustomBars = &CustomBars{Upper: &SashBars{Horizontal: []int{100}}}

	cp := orig.Clone()
	cp.CustomBars.Upper.Horizontal[0] = 999
	cp.CustomBars.Upper.Vertical = append(cp.CustomBars.Upper.Vertical, 5)

	if orig.CustomBars.Upper.Horizontal[0] != 100 {
		t.Fatalf("clone shares horizontal offsets with original")
	}
	if len(orig.CustomBars.Upper.Vertical) != 0 {
		t.Fatalf("clone shares vertical offsets with original")
	}
}

func TestWindowSpecification_UnmarshalLegacyMeasurement(t *testing.T) {
	var w WindowSpecification
	if err := json.Unmarshal([]byte(`{"width":900,"measurementType":"brick-to-brick","pas24":true}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.MeasurementType != MeasurementStructuralOpening {
		t.Errorf("expected structural-opening got %q", w.MeasurementType)
	}
	if w.Width != 900 || !w.PAS24 {
		t.Errorf("fields not decoded: %+v", w)
	}
}

func TestWindowSpecification_HasFrameOverride(t *testing.T) {
	w := WindowSpecification{ActualFrameWidth: 1150}
	if w.HasFrameOverride() {
		t.Fatal("override needs both dimensions")
	}
	w.ActualFrameHeight = 1575
	if !w.HasFrameOverride() {
		t.Fatal("expected override with both dimensions set")
	}
}
