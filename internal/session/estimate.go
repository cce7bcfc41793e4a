package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const estimateValidity = 30 * 24 * time.Hour

var (
	ErrEstimateEmpty    = errors.New("estimate is empty")
	ErrEstimateNotFound = errors.New("estimate item not found")
)

// EstimateItem is one priced window on an estimate, numbered W1, W2, ...
// Ironmongery is priced per window.
type EstimateItem struct {
	Number         string                     `json:"number"`
	Specification  models.WindowSpecification `json:"specification"`
	Price          pricing.Breakdown          `json:"price"`
	Ironmongery    []IronmongeryLine          `json:"ironmongery,omitempty"`
	IronmongeryNet decimal.Decimal            `json:"ironmongeryNet"`
	AddedAt        time.Time                  `json:"addedAt"`
}

// Net is the window price plus its ironmongery for every window on the line.
func (it EstimateItem) Net() decimal.Decimal {
	qty := decimal.NewFromInt(int64(it.Price.Quantity))
	return it.Price.TotalPrice.Add(it.IronmongeryNet.Mul(qty))
}

// Estimate collects priced windows. Item prices are frozen when added.
type Estimate struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Currency   string          `json:"currency"`
	VATRate    decimal.Decimal `json:"vatRate"`
	CreatedAt  time.Time       `json:"createdAt"`
	ValidUntil time.Time       `json:"validUntil"`
	Items      []EstimateItem  `json:"items"`
}

// EstimateTotals are the sums over every item.
type EstimateTotals struct {
	Windows      int             `json:"windows"`
	Net          decimal.Decimal `json:"net"`
	VAT          decimal.Decimal `json:"vat"`
	TotalWithVAT decimal.Decimal `json:"totalWithVat"`
}

func (e *Estimate) Totals() EstimateTotals {
	var t EstimateTotals
	for _, it := range e.Items {
		t.Windows += it.Price.Quantity
		t.Net = t.Net.Add(it.Net())
	}
	t.VAT = t.Net.Mul(e.VATRate).Round(2)
	t.TotalWithVAT = t.Net.Add(t.VAT)
	return t
}

func (e *Estimate) clone() *Estimate {
	out := *e
	out.Items = make([]EstimateItem, len(e.Items))
	for i, it := range e.Items {
		it.Specification = it.Specification.Clone()
		it.Ironmongery = slices.Clone(it.Ironmongery)
		out.Items[i] = it
	}
	return &out
}

// nextNumber continues after the highest number in use; removed numbers are not reused.
func (e *Estimate) nextNumber() string {
	highest := 0
	for _, it := range e.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(it.Number, "W")); err == nil && n > highest {
			highest = n
		}
	}
	return "W" + strconv.Itoa(highest+1)
}

// newEstimateNumber is EST-<yymm>-<first eight hex digits of estimateID>.
func newEstimateNumber(now time.Time, estimateID uuid.UUID) string {
	return fmt.Sprintf("EST-%s-%s", now.Format("0601"), strings.ToUpper(hex.EncodeToString(estimateID[:4])))
}

// AddToEstimate validates and prices the current specification and appends it.
// The estimate is created on first use.
func (s *Session) AddToEstimate() (EstimateItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := pricing.ValidateSpecification(s.spec); !v.Empty() {
		return EstimateItem{}, v
	}
	rules := s.rules.Current()
	now := s.now()
	if s.estimate == nil {
		id := uuid.New()
		s.estimate = &Estimate{
			ID:         id.String(),
			Number:     newEstimateNumber(now, id),
			Currency:   rules.Currency,
			VATRate:    rules.VATRate,
			CreatedAt:  now,
			ValidUntil: now.Add(estimateValidity),
		}
	}
	item := EstimateItem{
		Number:         s.estimate.nextNumber(),
		Specification:  s.spec.Clone(),
		Price:          pricing.Calculate(s.spec, rules),
		Ironmongery:    slices.Clone(s.ironmongery),
		IronmongeryNet: ironmongeryTotal(s.ironmongery),
		AddedAt:        now,
	}
	if item.Specification.WindowSymbol == "" {
		item.Specification.WindowSymbol = item.Number
	}
	s.estimate.Items = append(s.estimate.Items, item)
	s.persistLocked(keyEstimate, s.estimate)
	s.logger.Info("window added to estimate",
		zap.String("estimate", s.estimate.Number),
		zap.String("item", item.Number),
		zap.String("total", item.Net().StringFixed(2)))
	return item, nil
}

// Estimate returns a copy of the estimate, or ErrEstimateEmpty when none exists.
func (s *Session) Estimate() (*Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.estimate == nil {
		return nil, ErrEstimateEmpty
	}
	return s.estimate.clone(), nil
}

func (s *Session) RemoveEstimateItem(number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.estimate == nil {
		return ErrEstimateNotFound
	}
	for i, it := range s.estimate.Items {
		if it.Number == number {
			s.estimate.Items = append(s.estimate.Items[:i], s.estimate.Items[i+1:]...)
			s.persistLocked(keyEstimate, s.estimate)
			return nil
		}
	}
	return ErrEstimateNotFound
}

func (s *Session) ClearEstimate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimate = nil
	s.saver.clear(s.key(keyEstimate))
}
