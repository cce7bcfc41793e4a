package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidID       = errors.New("invalid session id")
	ErrSessionNotFound = errors.New("session not found")
)

// ManagerOptions tunes a Manager. IdleTimeout of zero keeps sessions until Close.
type ManagerOptions struct {
	MaxVariants int
	IdleTimeout time.Duration
	Catalogue   *pricing.Catalogue
	Now         func() time.Time
}

type liveSession struct {
	session  *Session
	lastUsed time.Time
}

// Manager keeps the live sessions of the process and resumes known ones from the store.
type Manager struct {
	store       store.ConfigStore
	rules       *pricing.Provider
	catalogue   *pricing.Catalogue
	logger      *zap.Logger
	maxVariants int
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*liveSession
}

func NewManager(s store.ConfigStore, rules *pricing.Provider, logger *zap.Logger, opts ManagerOptions) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Catalogue == nil {
		opts.Catalogue = pricing.DefaultCatalogue()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		store:       s,
		rules:       rules,
		catalogue:   opts.Catalogue,
		logger:      logger,
		maxVariants: opts.MaxVariants,
		idleTimeout: opts.IdleTimeout,
		now:         opts.Now,
		sessions:    make(map[string]*liveSession),
	}
}

func (m *Manager) newSession(id string) *Session {
	return New(Options{
		ID:          id,
		Store:       m.store,
		Rules:       m.rules,
		Catalogue:   m.catalogue,
		Logger:      m.logger,
		MaxVariants: m.maxVariants,
		Now:         m.now,
	})
}

// Catalogue is the ironmongery list shared by every session.
func (m *Manager) Catalogue() *pricing.Catalogue { return m.catalogue }

// Create starts a fresh session with a new id and records it in the store.
func (m *Manager) Create() *Session {
	s := m.newSession(uuid.NewString())
	s.MarkCreated()
	m.mu.Lock()
	m.sessions[s.ID()] = &liveSession{session: s, lastUsed: m.now()}
	m.mu.Unlock()
	m.logger.Info("session created", zap.String("session", s.ID()))
	return s
}

// Get returns a live session, resuming it from the store when the process
// has not seen it yet. Ids must be UUIDs the store knows about.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if live, ok := m.sessions[id]; ok {
		live.lastUsed = m.now()
		return live.session, nil
	}

	s := m.newSession(id)
	found, err := s.Resume(ctx)
	if err != nil || !found {
		s.Close()
		if err != nil {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}
	m.sessions[id] = &liveSession{session: s, lastUsed: m.now()}
	m.logger.Info("session resumed", zap.String("session", id))
	return s, nil
}

// Len is the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle closes and forgets sessions unused for longer than the idle
// timeout. Their state stays in the store and Get resumes them.
func (m *Manager) EvictIdle() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTimeout)
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, live := range m.sessions {
		if live.lastUsed.After(cutoff) {
			continue
		}
		live.session.Close()
		delete(m.sessions, id)
		evicted++
	}
	if evicted > 0 {
		m.logger.Info("idle sessions evicted", zap.Int("count", evicted), zap.Int("live", len(m.sessions)))
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// Close drains and stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, live := range m.sessions {
		live.session.Close()
		delete(m.sessions, id)
	}
}
