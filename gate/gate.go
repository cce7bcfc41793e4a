// Package gate implements the apply-sequence gate of the window configurator:
// sections must be confirmed in a fixed order, and editing a confirmed
// section un-confirms only that section.
//
// A Gate holds nothing but confirmation flags. Persisting them is the
// caller's job; Flags and Restore give it the serialisable form.
package gate

import "sync"

// State is the display state of one section.
type State string

const (
	StateLocked    State = "locked"
	StateUnlocked  State = "unlocked"
	StateConfirmed State = "confirmed"
)

// Outcome is the result of Confirm. Confirm never panics; callers switch on it
// or call Err.
type Outcome int

const (
	Confirmed Outcome = iota
	Locked
	UnknownSection
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Locked:
		return "locked"
	default:
		return "unknown_section"
	}
}

// Err maps the outcome to a sentinel error, nil when confirmed.
func (o Outcome) Err() error {
	switch o {
	case Confirmed:
		return nil
	case Locked:
		return ErrSectionLocked
	default:
		return ErrUnknownSection
	}
}

// SectionState pairs a section with its state for listings.
type SectionState struct {
	Section Section `json:"section"`
	State   State   `json:"state"`
}

// Gate tracks which sections are confirmed. Safe for concurrent use.
type Gate struct {
	mu        sync.RWMutex
	confirmed map[Section]bool
}

// New creates a gate with nothing confirmed.
func New() *Gate {
	return &Gate{confirmed: make(map[Section]bool)}
}

// IsUnlocked reports whether s may be confirmed now: it is the first section
// or the section before it is confirmed.
func (g *Gate) IsUnlocked(s Section) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.unlocked(s)
}

func (g *Gate) unlocked(s Section) bool {
	i := Index(s)
	if i < 0 {
		return false
	}
	return i == 0 || g.confirmed[Order[i-1]]
}

// IsConfirmed reports whether s is currently confirmed.
func (g *Gate) IsConfirmed(s Section) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.confirmed[s]
}

// Confirm marks s confirmed when it is unlocked. Confirming an already
// confirmed section is a no-op that still reports Confirmed.
func (g *Gate) Confirm(s Section) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !s.Valid() {
		return UnknownSection
	}
	if !g.unlocked(s) {
		return Locked
	}
	g.confirmed[s] = true
	return Confirmed
}

// Invalidate clears the confirmation of s only; later sections keep theirs.
// It reports whether s was confirmed.
func (g *Gate) Invalidate(s Section) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	was := g.confirmed[s]
	delete(g.confirmed, s)
	return was
}

// Reset clears every confirmation.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.confirmed = make(map[Section]bool)
	g.mu.Unlock()
}

// State returns the display state of s. Unknown sections are locked.
func (g *Gate) State(s Section) State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch {
	case g.confirmed[s]:
		return StateConfirmed
	case g.unlocked(s):
		return StateUnlocked
	default:
		return StateLocked
	}
}

// States lists every section in order with its state.
func (g *Gate) States() []SectionState {
	out := make([]SectionState, 0, len(Order))
	for _, s := range Order {
		out = append(out, SectionState{Section: s, State: g.State(s)})
	}
	return out
}

// Flags returns the confirmation flags keyed by section name, the form that is persisted.
func (g *Gate) Flags() map[Section]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[Section]bool, len(Order))
	for _, s := range Order {
		out[s] = g.confirmed[s]
	}
	return out
}

// Restore replaces the flags with persisted ones. Unknown names are dropped.
func (g *Gate) Restore(flags map[Section]bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirmed = make(map[Section]bool)
	for s, ok := range flags {
		if ok && s.Valid() {
			g.confirmed[s] = true
		}
	}
}
