package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/validation"
	"github.com/shopspring/decimal"
)

// IronmongeryCategory groups products that are priced and counted alike.
type IronmongeryCategory string

const (
	CategoryLocks       IronmongeryCategory = "locks"
	CategoryRestrictors IronmongeryCategory = "restrictors"
	CategoryFasteners   IronmongeryCategory = "fasteners"
	CategoryHooks       IronmongeryCategory = "hooks"
)

// CategoryOrder is the display order of the catalogue.
var CategoryOrder = []IronmongeryCategory{CategoryLocks, CategoryRestrictors, CategoryFasteners, CategoryHooks}

const (
	MaxIronmongeryQuantity = 10
	restrictorsPerWindow   = 2
	wideWindowMM           = 1200
)

// IronmongeryProduct is one priced fitting in one finish.
type IronmongeryProduct struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Category    IronmongeryCategory      `json:"category"`
	Finish      models.IronmongeryFinish `json:"finish"`
	PAS24       bool                     `json:"pas24"`
	Recommended bool                     `json:"recommended,omitempty"`
	NetPrice    decimal.Decimal          `json:"net"`
	GrossPrice  decimal.Decimal          `json:"vat"`
}

// Catalogue is the ironmongery price list. Like RuleTable it is replaced, never edited.
type Catalogue struct {
	Products []IronmongeryProduct `json:"products"`
}

type catalogueLine struct {
	slug     string
	name     string
	category IronmongeryCategory
	pas24    bool
	standard [2]string
	premium  [2]string
	premiums []models.IronmongeryFinish
}

var catalogueLines = []catalogueLine{
	{
		slug: "standard-lock-pas24", name: "Standard Lock PAS24", category: CategoryLocks, pas24: true,
		standard: [2]string{"25.00", "30.00"}, premium: [2]string{"27.00", "32.40"},
		premiums: []models.IronmongeryFinish{models.IronmongeryBrass},
	},
	{
		slug: "angel-restrictor", name: "Angel Restrictor Air Ventlock", category: CategoryRestrictors,
		standard: [2]string{"13.10", "15.72"}, premium: [2]string{"14.50", "17.40"},
		premiums: []models.IronmongeryFinish{models.IronmongeryBrass, models.IronmongeryAntiqueBrass},
	},
	{
		slug: "fitch-fastener", name: "Fitch Fastener", category: CategoryFasteners,
		standard: [2]string{"9.25", "11.10"}, premium: [2]string{"10.50", "12.60"},
		premiums: []models.IronmongeryFinish{models.IronmongeryBrass, models.IronmongeryAntiqueBrass},
	},
	{
		slug: "mighton-hooking", name: "Mighton Hooking", category: CategoryHooks,
		standard: [2]string{"4.98", "5.98"}, premium: [2]string{"5.50", "6.60"},
		premiums: []models.IronmongeryFinish{models.IronmongeryBrass, models.IronmongeryAntiqueBrass},
	},
}

var standardFinishes = []models.IronmongeryFinish{
	models.IronmongeryChrome, models.IronmongerySatin, models.IronmongeryBlack, models.IronmongeryWhite,
}

// DefaultCatalogue returns the factory ironmongery list.
func DefaultCatalogue() *Catalogue {
	c := &Catalogue{}
	for _, l := range catalogueLines {
		add := func(f models.IronmongeryFinish, prices [2]string) {
			c.Products = append(c.Products, IronmongeryProduct{
				ID:          l.slug + "-" + string(f),
				Name:        l.name,
				Category:    l.category,
				Finish:      f,
				PAS24:       l.pas24,
				Recommended: l.pas24,
				NetPrice:    dec(prices[0]),
				GrossPrice:  dec(prices[1]),
			})
		}
		for _, f := range standardFinishes {
			add(f, l.standard)
		}
		for _, f := range l.premiums {
			add(f, l.premium)
		}
	}
	return c
}

// ParseCatalogue decodes a JSON catalogue.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse ironmongery catalogue: %w", err)
	}
	return &c, nil
}

// LoadCatalogueFile reads and validates a JSON catalogue from disk.
func LoadCatalogueFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ironmongery catalogue: %w", err)
	}
	c, err := ParseCatalogue(data)
	if err != nil {
		return nil, err
	}
	if v := c.Validate(); !v.Empty() {
		return nil, fmt.Errorf("invalid ironmongery catalogue in %s: %w", path, v)
	}
	return c, nil
}

func (c *Catalogue) Validate() validation.Violations {
	v := validation.Violations{}
	if len(c.Products) == 0 {
		v["products"] = "required"
	}
	seen := map[string]bool{}
	for i, p := range c.Products {
		field := fmt.Sprintf("products[%d]", i)
		validation.Required(field+".id", p.ID, v)
		validation.Required(field+".name", p.Name, v)
		if !slices.Contains(CategoryOrder, p.Category) {
			v[field+".category"] = "invalid"
		}
		validation.PositiveFloat(field+".net", p.NetPrice.InexactFloat64(), v)
		if seen[p.ID] {
			v[field+".id"] = "duplicate"
		}
		seen[p.ID] = true
	}
	return v
}

// Lookup finds a product by id.
func (c *Catalogue) Lookup(id string) (IronmongeryProduct, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return IronmongeryProduct{}, false
}

// ForFinish lists the products sold in finish, in catalogue order.
// Client-supplied ironmongery has no products.
func (c *Catalogue) ForFinish(finish models.IronmongeryFinish) []IronmongeryProduct {
	var out []IronmongeryProduct
	for _, p := range c.Products {
		if p.Finish == finish {
			out = append(out, p)
		}
	}
	return out
}

// AutoQuantity is the fixed count for categories the customer does not choose.
// Locks double up on wide windows and windows with bars.
func AutoQuantity(category IronmongeryCategory, spec models.WindowSpecification) (int, bool) {
	switch category {
	case CategoryLocks:
		if spec.Width > wideWindowMM || hasBars(spec.UpperBars) || hasBars(spec.LowerBars) {
			return 2, true
		}
		return 1, true
	case CategoryRestrictors:
		return restrictorsPerWindow, true
	}
	return 0, false
}

func hasBars(p models.BarPattern) bool { return p != "" && p != models.BarsNone }
