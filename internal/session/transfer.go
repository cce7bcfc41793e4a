package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/diewo77/window-configurator/gate"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"go.uber.org/zap"
)

// ExportDocument is the downloadable form of a configuration.
type ExportDocument struct {
	Configuration models.WindowSpecification `json:"configuration"`
	Ironmongery   *IronmongerySelection      `json:"ironmongery,omitempty"`
	Price         pricing.Breakdown          `json:"price"`
	ExportDate    time.Time                  `json:"exportDate"`
}

func (s *Session) Export() ExportDocument {
	spec := s.Specification()
	doc := ExportDocument{
		Configuration: spec,
		Price:         pricing.Calculate(spec, s.rules.Current()),
		ExportDate:    s.now(),
	}
	if sel := s.Ironmongery(); len(sel.Products) > 0 {
		doc.Ironmongery = &sel
	}
	return doc
}

type importDocument struct {
	Configuration json.RawMessage       `json:"configuration"`
	Ironmongery   *IronmongerySelection `json:"ironmongery"`
}

// Import replaces the specification with the one in an exported document.
// The price in the document is ignored and recalculated on demand. When the
// document carries ironmongery it replaces the selection, re-priced from the
// catalogue; products that no longer fit are skipped.
func (s *Session) Import(data []byte) ([]gate.Section, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc.Configuration, &fields); err != nil || len(fields) == 0 {
		return nil, fmt.Errorf("%w: configuration is missing or empty", ErrInvalidPatch)
	}
	var spec models.WindowSpecification
	if err := json.Unmarshal(doc.Configuration, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	invalidated := s.replaceLocked(spec)
	if doc.Ironmongery != nil {
		s.ironmongery = nil
		for _, l := range doc.Ironmongery.Products {
			if _, err := s.selectLocked(l.ProductID, l.Quantity); err != nil {
				s.logger.Warn("imported ironmongery skipped", zap.String("product", l.ProductID), zap.Error(err))
			}
		}
		s.persistLocked(keyIronmongery, s.ironmongery)
	}
	return invalidated, nil
}
