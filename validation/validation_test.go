package validation

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	PositiveInt("width", 0, v)
	PositiveFloat("price", -1, v)
	NonNegativeFloat("surcharge", -0.5, v)
	RangeFloat("discount", 1.5, 0, 1, v)
	OneOf("glass", "quad", []string{"double", "triple"}, v)
	OneOf("frame", "", []string{"standard"}, v)

	want := map[string]string{
		"name":      "required",
		"width":     "must_be_positive",
		"price":     "must_be_positive",
		"surcharge": "must_not_be_negative",
		"discount":  "out_of_range",
		"glass":     "invalid_choice",
	}
	if len(v) != len(want) {
		t.Fatalf("expected %d violations got %d: %v", len(want), len(v), v)
	}
	for k, code := range want {
		if v[k] != code {
			t.Errorf("%s: expected %q got %q", k, code, v[k])
		}
	}
}

func TestViolations_Error(t *testing.T) {
	v := Violations{"width": "required", "height": "required"}
	msg := v.Error()
	if !strings.HasPrefix(msg, "validation failed: height: required") {
		t.Fatalf("unexpected message %q", msg)
	}
	if (Violations{}).Empty() != true {
		t.Fatal("empty violations should report Empty")
	}
}
