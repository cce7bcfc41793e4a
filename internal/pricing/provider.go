package pricing

import (
	"errors"
	"sync"
)

var ErrNilRules = errors.New("pricing: nil rule table")

// Provider hands out the current rule snapshot. Replace swaps the whole table;
// callers holding an older snapshot keep pricing against it unchanged.
type Provider struct {
	mu    sync.RWMutex
	rules *RuleTable
}

// NewProvider starts with rules, or DefaultRules when rules is nil.
func NewProvider(rules *RuleTable) *Provider {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Provider{rules: rules}
}

// Current returns the active snapshot. Do not mutate it.
func (p *Provider) Current() *RuleTable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rules
}

// Replace installs a new snapshot. Tables are never merged.
func (p *Provider) Replace(rules *RuleTable) error {
	if rules == nil {
		return ErrNilRules
	}
	p.mu.Lock()
	p.rules = rules
	p.mu.Unlock()
	return nil
}
