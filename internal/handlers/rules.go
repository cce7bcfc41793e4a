package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/services"
	"github.com/diewo77/window-configurator/validation"
	"go.uber.org/zap"
)

// RulesHandler is the admin surface for the pricing rule table.
type RulesHandler struct {
	svc      *services.RuleService
	provider *pricing.Provider
	logger   *zap.Logger
}

func NewRulesHandler(svc *services.RuleService, provider *pricing.Provider, logger *zap.Logger) *RulesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RulesHandler{svc: svc, provider: provider, logger: logger}
}

func (h *RulesHandler) Current(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.provider.Current())
}

// Publish replaces the live table with the posted one as a new version.
func (h *RulesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	rules, err := pricing.ParseRules(body)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	author := strings.TrimSpace(r.Header.Get("X-Admin-User"))
	if author == "" {
		author = "admin"
	}
	published, err := h.svc.Publish(r.Context(), rules, author)
	if err != nil {
		var v validation.Violations
		if errors.As(err, &v) {
			httpx.Problem(w, r, http.StatusUnprocessableEntity, "invalid_rules", v)
			return
		}
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, published)
}

func (h *RulesHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.svc.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
