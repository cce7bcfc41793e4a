// Package session owns the state of one configurator visit: the window
// specification with its ironmongery, the apply-sequence gate, saved variants
// and the estimate.
// Every Session is independent; nothing is shared between them except the
// rule provider and the store.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/diewo77/window-configurator/gate"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/store"
	"go.uber.org/zap"
)

const DefaultMaxVariants = 10

var (
	ErrUnknownField = errors.New("unknown specification field")
	ErrInvalidPatch = errors.New("invalid specification patch")
)

// Options configures a new Session. Store is required.
type Options struct {
	ID          string
	Store       store.ConfigStore
	Rules       *pricing.Provider
	Logger      *zap.Logger
	Catalogue   *pricing.Catalogue
	MaxVariants int
	Now         func() time.Time
}

type Session struct {
	id          string
	rules       *pricing.Provider
	catalogue   *pricing.Catalogue
	store       store.ConfigStore
	saver       *saver
	logger      *zap.Logger
	maxVariants int
	now         func() time.Time

	mu       sync.Mutex
	spec     models.WindowSpecification
	gate     *gate.Gate
	variants    []Variant
	estimate    *Estimate
	ironmongery []IronmongeryLine
}

// New creates a session holding the default specification and no confirmations.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rules == nil {
		opts.Rules = pricing.NewProvider(nil)
	}
	if opts.Catalogue == nil {
		opts.Catalogue = pricing.DefaultCatalogue()
	}
	if opts.MaxVariants <= 0 {
		opts.MaxVariants = DefaultMaxVariants
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.With(zap.String("session", opts.ID))
	return &Session{
		id:          opts.ID,
		rules:       opts.Rules,
		catalogue:   opts.Catalogue,
		store:       opts.Store,
		saver:       newSaver(opts.Store, logger),
		logger:      logger,
		maxVariants: opts.MaxVariants,
		now:         opts.Now,
		spec:        models.DefaultSpecification(),
		gate:        gate.New(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) key(name string) string { return "session:" + s.id + ":" + name }

// Specification returns a copy of the current specification.
func (s *Session) Specification() models.WindowSpecification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec.Clone()
}

// Price recalculates against the current rule snapshot on every call.
func (s *Session) Price() pricing.Breakdown {
	spec := s.Specification()
	return pricing.Calculate(spec, s.rules.Current())
}

// Summary is Price with VAT and display strings.
func (s *Session) Summary() pricing.Summary {
	rules := s.rules.Current()
	return pricing.Summarize(pricing.Calculate(s.Specification(), rules), rules)
}

func (s *Session) Sections() []gate.SectionState { return s.gate.States() }

// Update merges a partial JSON object into the specification. Every section
// owning a field whose value changed is un-confirmed; the sections are returned.
func (s *Session) Update(patch json.RawMessage) ([]gate.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := MergePatch(s.spec, patch)
	if err != nil {
		return nil, err
	}
	return s.replaceLocked(merged), nil
}

// Replace swaps the whole specification, applying the same invalidation as Update.
func (s *Session) Replace(spec models.WindowSpecification) []gate.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(spec.Clone())
}

func (s *Session) replaceLocked(next models.WindowSpecification) []gate.Section {
	changed := changedFields(s.spec, next)
	var invalidated []gate.Section
	seen := map[gate.Section]bool{}
	for _, f := range changed {
		sec, ok := gate.SectionForField(f)
		if !ok || seen[sec] {
			continue
		}
		seen[sec] = true
		if sec == gate.SectionDimensions {
			next.ActualFrameWidth, next.ActualFrameHeight = 0, 0
		}
		if s.gate.Invalidate(sec) {
			invalidated = append(invalidated, sec)
		}
	}
	slices.SortFunc(invalidated, func(a, b gate.Section) int { return gate.Index(a) - gate.Index(b) })
	s.spec = next
	s.persistSpecLocked()
	s.refreshIronmongeryLocked()
	if len(invalidated) > 0 {
		s.persistFlagsLocked()
		s.logger.Debug("sections invalidated", zap.Any("sections", invalidated))
	}
	return invalidated
}

// Confirm confirms section when the previous one is confirmed. Confirming
// dimensions fixes the frame size used for pricing. State is persisted in
// the background.
func (s *Session) Confirm(section gate.Section) gate.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.gate.Confirm(section)
	if out != gate.Confirmed {
		s.logger.Info("confirm rejected", zap.String("section", string(section)), zap.Stringer("outcome", out))
		return out
	}
	if section == gate.SectionDimensions {
		spec := s.spec
		spec.ActualFrameWidth, spec.ActualFrameHeight = 0, 0
		s.spec.ActualFrameWidth, s.spec.ActualFrameHeight = pricing.FrameDimensions(spec)
	}
	s.persistFlagsLocked()
	s.persistSpecLocked()
	return out
}

// ResetSequence clears every confirmation but keeps the specification.
func (s *Session) ResetSequence() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Reset()
	s.saver.clear(s.key(keyAppliedSections))
}

// FullReset clears confirmations and the ironmongery selection, restores the
// default specification and removes all three from the store.
func (s *Session) FullReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Reset()
	s.spec = models.DefaultSpecification()
	s.ironmongery = nil
	s.saver.clear(s.key(keyAppliedSections))
	s.saver.clear(s.key(keySpecification))
	s.saver.clear(s.key(keyIronmongery))
}

// MarkCreated records the session in the store so it can be resumed even
// before anything else has been saved.
func (s *Session) MarkCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(keyCreated, s.now())
}

// Resume reloads persisted state. Missing keys keep the in-memory values.
// It reports false when the store holds nothing at all for the session.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created time.Time
	known, err := s.loadJSON(ctx, keyCreated, &created)
	if err != nil {
		return false, err
	}
	var spec models.WindowSpecification
	if found, err := s.loadJSON(ctx, keySpecification, &spec); err != nil {
		return false, err
	} else if found {
		s.spec = spec
		known = true
	}
	var flags map[gate.Section]bool
	if found, err := s.loadJSON(ctx, keyAppliedSections, &flags); err != nil {
		return false, err
	} else if found {
		s.gate.Restore(flags)
		known = true
	}
	var variants []Variant
	if found, err := s.loadJSON(ctx, keyVariants, &variants); err != nil {
		return false, err
	} else if found {
		s.variants = variants
		known = true
	}
	var est Estimate
	if found, err := s.loadJSON(ctx, keyEstimate, &est); err != nil {
		return false, err
	} else if found {
		s.estimate = &est
		known = true
	}
	var lines []IronmongeryLine
	if found, err := s.loadJSON(ctx, keyIronmongery, &lines); err != nil {
		return false, err
	} else if found {
		s.ironmongery = lines
		known = true
	}
	return known, nil
}

// Flush waits for queued writes to reach the store.
func (s *Session) Flush(ctx context.Context) error { return s.saver.flush(ctx) }

// LastPersistError is the result of the most recent background write.
func (s *Session) LastPersistError() error { return s.saver.err() }

// Close drains pending writes and stops the background writer.
func (s *Session) Close() { s.saver.close() }

const (
	keySpecification   = "specification"
	keyAppliedSections = "applied_sections"
	keyVariants        = "variants"
	keyEstimate        = "estimate"
	keyIronmongery     = "ironmongery"
	keyCreated         = "created"
)

func (s *Session) persistSpecLocked() { s.persistLocked(keySpecification, s.spec) }

func (s *Session) persistFlagsLocked() { s.persistLocked(keyAppliedSections, s.gate.Flags()) }

func (s *Session) persistLocked(name string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode configurator state", zap.String("key", name), zap.Error(err))
		return
	}
	s.saver.save(s.key(name), b)
}

func (s *Session) loadJSON(ctx context.Context, name string, dst any) (bool, error) {
	b, err := s.store.Load(ctx, s.key(name))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resume %s: %w", name, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// MergePatch overlays the JSON object patch on spec. Unknown keys are rejected.
func MergePatch(spec models.WindowSpecification, patch json.RawMessage) (models.WindowSpecification, error) {
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return spec, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	known := models.FieldNames()
	for k := range changes {
		if !slices.Contains(known, k) {
			return spec, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
	}
	base, err := fieldMap(spec)
	if err != nil {
		return spec, err
	}
	for k, v := range changes {
		base[k] = v
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return spec, err
	}
	var out models.WindowSpecification
	if err := json.Unmarshal(raw, &out); err != nil {
		return spec, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}

func fieldMap(spec models.WindowSpecification) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// changedFields lists the JSON names of fields that differ between a and b.
func changedFields(a, b models.WindowSpecification) []string {
	am, err1 := fieldMap(a)
	bm, err2 := fieldMap(b)
	if err1 != nil || err2 != nil {
		return nil
	}
	var out []string
	for k, v := range am {
		if !bytes.Equal(v, bm[k]) {
			out = append(out, k)
		}
	}
	for k := range bm {
		if _, ok := am[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
