package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/window-configurator/gate"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrVariantLimit    = errors.New("saved variant limit reached")
	ErrVariantNotFound = errors.New("variant not found")
)

// Variant is a named snapshot of a specification the customer can come back to.
type Variant struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Specification models.WindowSpecification `json:"specification"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

// SaveVariant stores the current specification under name.
func (s *Session) SaveVariant(name string) (Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.variants) >= s.maxVariants {
		return Variant{}, fmt.Errorf("%w (%d)", ErrVariantLimit, s.maxVariants)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Variant %d", len(s.variants)+1)
	}
	v := Variant{
		ID:            uuid.NewString(),
		Name:          name,
		Specification: s.spec.Clone(),
		CreatedAt:     s.now(),
	}
	s.variants = append(s.variants, v)
	s.persistLocked(keyVariants, s.variants)
	s.logger.Info("variant saved", zap.String("variant", v.ID), zap.String("name", v.Name))
	return v, nil
}

func (s *Session) Variants() []Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Variant, len(s.variants))
	for i, v := range s.variants {
		v.Specification = v.Specification.Clone()
		out[i] = v
	}
	return out
}

// LoadVariant makes a saved variant the current specification. Sections whose
// fields change are un-confirmed as with any other edit.
func (s *Session) LoadVariant(id string) ([]gate.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.variants {
		if v.ID == id {
			return s.replaceLocked(v.Specification.Clone()), nil
		}
	}
	return nil, ErrVariantNotFound
}

func (s *Session) DeleteVariant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.variants {
		if v.ID == id {
			s.variants = append(s.variants[:i], s.variants[i+1:]...)
			s.persistLocked(keyVariants, s.variants)
			return nil
		}
	}
	return ErrVariantNotFound
}
