package handlers

import (
	"net/http"

	"github.com/diewo77/window-configurator/gate"
	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/i18n"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/session"
	"go.uber.org/zap"
)

// SessionHandler serves one customer's configuration session.
type SessionHandler struct {
	sessions *session.Manager
	company  string
	logger   *zap.Logger
}

func NewSessionHandler(m *session.Manager, company string, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: m, company: company, logger: logger}
}

type sessionView struct {
	ID            string                     `json:"id"`
	Specification models.WindowSpecification `json:"specification"`
	Sections      []gate.SectionState        `json:"sections"`
	Price         pricing.Breakdown          `json:"price"`
	PersistError  string                     `json:"persistError,omitempty"`
}

type changeView struct {
	sessionView
	Invalidated []gate.Section `json:"invalidated"`
}

// viewOf also surfaces the last failed background write; the in-memory
// state shown is still current.
func viewOf(s *session.Session) sessionView {
	v := sessionView{
		ID:            s.ID(),
		Specification: s.Specification(),
		Sections:      s.Sections(),
		Price:         s.Price(),
	}
	if err := s.LastPersistError(); err != nil {
		v.PersistError = err.Error()
	}
	return v
}

func changeOf(s *session.Session, invalidated []gate.Section) changeView {
	if invalidated == nil {
		invalidated = []gate.Section{}
	}
	return changeView{sessionView: viewOf(s), Invalidated: invalidated}
}

func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	httpx.JSON(w, http.StatusCreated, viewOf(s))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(s))
}

// Update applies a partial specification. Sections owning changed fields
// are listed under "invalidated".
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	body, err := httpx.ReadBody(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	invalidated, err := s.Update(body)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, changeOf(s, invalidated))
}

func (h *SessionHandler) Price(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, s.Price())
}

func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, s.Summary())
}

func (h *SessionHandler) Sections(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, s.Sections())
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	section := gate.Section(r.PathValue("section"))
	if err := s.Confirm(section).Err(); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"section":       section,
		"message":       i18n.T(i18n.LangFromContext(r.Context()), "section_confirmed"),
		"sections":      s.Sections(),
		"specification": s.Specification(),
	})
}

// Reset clears every confirmation and keeps the specification.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	s.ResetSequence()
	httpx.JSON(w, http.StatusOK, viewOf(s))
}

func (h *SessionHandler) FullReset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	s.FullReset()
	httpx.JSON(w, http.StatusOK, viewOf(s))
}
