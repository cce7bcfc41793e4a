package session

import (
	"errors"
	"slices"
	"strings"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownProduct         = errors.New("unknown ironmongery product")
	ErrFinishMismatch         = errors.New("product is not sold in the chosen ironmongery finish")
	ErrPAS24LockRequired      = errors.New("PAS24 windows need a PAS24 lock")
	ErrLockAlreadySelected    = errors.New("only one lock type can be chosen per window")
	ErrIronmongeryNotSelected = errors.New("ironmongery product not selected")
)

// IronmongeryLine is one selected product. Prices are frozen when selected;
// quantities of automatically counted categories follow the specification.
type IronmongeryLine struct {
	ProductID string                      `json:"productId"`
	Name      string                      `json:"name"`
	Category  pricing.IronmongeryCategory `json:"category"`
	Finish    models.IronmongeryFinish    `json:"finish"`
	PAS24     bool                        `json:"pas24"`
	Quantity  int                         `json:"quantity"`
	UnitNet   decimal.Decimal             `json:"unitNet"`
	TotalNet  decimal.Decimal             `json:"totalNet"`
}

// IronmongerySelection is the per-window ironmongery with its net total.
type IronmongerySelection struct {
	Finish   models.IronmongeryFinish `json:"finish"`
	Products []IronmongeryLine        `json:"products"`
	TotalNet decimal.Decimal          `json:"totalNet"`
}

func ironmongeryTotal(lines []IronmongeryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalNet)
	}
	return total
}

// Catalogue returns the products offered to this session.
func (s *Session) Catalogue() *pricing.Catalogue { return s.catalogue }

// Ironmongery returns the current selection.
func (s *Session) Ironmongery() IronmongerySelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return IronmongerySelection{
		Finish:   s.spec.IronmongeryFinish,
		Products: slices.Clone(s.ironmongery),
		TotalNet: ironmongeryTotal(s.ironmongery),
	}
}

// SelectIronmongery adds productID to the window or changes its quantity.
// Locks and restrictors are counted from the specification and quantity is
// ignored for them; other products take 1 to MaxIronmongeryQuantity.
func (s *Session) SelectIronmongery(productID string, quantity int) (IronmongeryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, err := s.selectLocked(productID, quantity)
	if err != nil {
		return IronmongeryLine{}, err
	}
	s.persistLocked(keyIronmongery, s.ironmongery)
	s.logger.Info("ironmongery selected",
		zap.String("product", line.ProductID),
		zap.Int("quantity", line.Quantity))
	return line, nil
}

func (s *Session) selectLocked(productID string, quantity int) (IronmongeryLine, error) {
	p, ok := s.catalogue.Lookup(productID)
	if !ok {
		return IronmongeryLine{}, ErrUnknownProduct
	}
	if p.Finish != s.spec.IronmongeryFinish {
		return IronmongeryLine{}, ErrFinishMismatch
	}
	if p.Category == pricing.CategoryLocks {
		if s.spec.PAS24 && !p.PAS24 {
			return IronmongeryLine{}, ErrPAS24LockRequired
		}
		for _, l := range s.ironmongery {
			if l.Category == pricing.CategoryLocks && l.ProductID != p.ID {
				return IronmongeryLine{}, ErrLockAlreadySelected
			}
		}
	}
	if n, auto := pricing.AutoQuantity(p.Category, s.spec); auto {
		quantity = n
	} else if quantity < 1 || quantity > pricing.MaxIronmongeryQuantity {
		return IronmongeryLine{}, validation.Violations{"quantity": "out_of_range"}
	}

	line := IronmongeryLine{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Finish:    p.Finish,
		PAS24:     p.PAS24,
		Quantity:  quantity,
		UnitNet:   p.NetPrice,
		TotalNet:  p.NetPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
	if i := slices.IndexFunc(s.ironmongery, func(l IronmongeryLine) bool { return l.ProductID == p.ID }); i >= 0 {
		s.ironmongery[i] = line
	} else {
		s.ironmongery = append(s.ironmongery, line)
	}
	slices.SortFunc(s.ironmongery, compareLines)
	return line, nil
}

func compareLines(a, b IronmongeryLine) int {
	if d := slices.Index(pricing.CategoryOrder, a.Category) - slices.Index(pricing.CategoryOrder, b.Category); d != 0 {
		return d
	}
	return strings.Compare(a.ProductID, b.ProductID)
}

func (s *Session) RemoveIronmongery(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.ironmongery, func(l IronmongeryLine) bool { return l.ProductID == productID })
	if i < 0 {
		return ErrIronmongeryNotSelected
	}
	s.ironmongery = slices.Delete(s.ironmongery, i, i+1)
	s.persistLocked(keyIronmongery, s.ironmongery)
	return nil
}

// refreshIronmongeryLocked drops products that no longer fit the specification
// and recounts locks and restrictors.
func (s *Session) refreshIronmongeryLocked() {
	if len(s.ironmongery) == 0 {
		return
	}
	changed := false
	kept := s.ironmongery[:0]
	for _, l := range s.ironmongery {
		if l.Finish != s.spec.IronmongeryFinish || (l.Category == pricing.CategoryLocks && s.spec.PAS24 && !l.PAS24) {
			s.logger.Debug("ironmongery dropped", zap.String("product", l.ProductID))
			changed = true
			continue
		}
		if n, auto := pricing.AutoQuantity(l.Category, s.spec); auto && n != l.Quantity {
			l.Quantity = n
			l.TotalNet = l.UnitNet.Mul(decimal.NewFromInt(int64(n)))
			changed = true
		}
		kept = append(kept, l)
	}
	s.ironmongery = kept
	if changed {
		s.persistLocked(keyIronmongery, s.ironmongery)
	}
}
