package gate

// Section names one confirmable block of the configurator.
type Section string

const (
	SectionDimensions Section = "dimensions"
	SectionBars       Section = "bars"
	SectionFrame      Section = "frame"
	SectionColor      Section = "color"
	SectionGlass      Section = "glass"
	SectionOpening    Section = "opening"
	SectionPAS24      Section = "pas24"
	SectionDetails    Section = "details"
	SectionGlassSpec  Section = "glassSpec"
)

// Order is the fixed confirmation sequence.
var Order = []Section{
	SectionDimensions,
	SectionBars,
	SectionFrame,
	SectionColor,
	SectionGlass,
	SectionOpening,
	SectionPAS24,
	SectionDetails,
	SectionGlassSpec,
}

// Index returns the position of s in Order, or -1.
func Index(s Section) int {
	for i, o := range Order {
		if o == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is part of the sequence.
func (s Section) Valid() bool { return Index(s) >= 0 }

// sectionFields lists the specification fields (JSON names) owned by each section.
var sectionFields = map[Section][]string{
	SectionDimensions: {"width", "height", "measurementType"},
	SectionBars:       {"upperBars", "lowerBars", "customBars"},
	SectionFrame:      {"frameType"},
	SectionColor:      {"colorType", "singleColor", "interiorColor", "exteriorColor"},
	SectionGlass:      {"glassType"},
	SectionOpening:    {"openingType"},
	SectionPAS24:      {"pas24"},
	SectionDetails:    {"horns", "ironmongeryFinish"},
	SectionGlassSpec:  {"glassSpec", "glassFinish", "frostedLocation"},
}

// Fields returns the specification fields owned by s.
func Fields(s Section) []string {
	return append([]string(nil), sectionFields[s]...)
}

// SectionForField returns the section that owns a specification field.
// Fields such as quantity belong to no section.
func SectionForField(field string) (Section, bool) {
	for s, fields := range sectionFields {
		for _, f := range fields {
			if f == field {
				return s, true
			}
		}
	}
	return "", false
}
