package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/window-configurator/gate"
	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/services"
	"github.com/diewo77/window-configurator/internal/session"
	"github.com/diewo77/window-configurator/validation"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{gate.ErrSectionLocked, http.StatusConflict, "section_locked"},
	{gate.ErrUnknownSection, http.StatusNotFound, "unknown_section"},
	{session.ErrInvalidID, http.StatusNotFound, "session_not_found"},
	{session.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{session.ErrUnknownField, http.StatusBadRequest, "unknown_field"},
	{session.ErrInvalidPatch, http.StatusBadRequest, "invalid_patch"},
	{session.ErrVariantLimit, http.StatusConflict, "variant_limit"},
	{session.ErrVariantNotFound, http.StatusNotFound, "variant_not_found"},
	{session.ErrEstimateEmpty, http.StatusNotFound, "estimate_empty"},
	{session.ErrEstimateNotFound, http.StatusNotFound, "estimate_item_not_found"},
	{session.ErrUnknownProduct, http.StatusNotFound, "unknown_product"},
	{session.ErrIronmongeryNotSelected, http.StatusNotFound, "ironmongery_not_selected"},
	{session.ErrFinishMismatch, http.StatusConflict, "finish_mismatch"},
	{session.ErrPAS24LockRequired, http.StatusConflict, "pas24_lock_required"},
	{session.ErrLockAlreadySelected, http.StatusConflict, "lock_already_selected"},
	{services.ErrNoRuleSet, http.StatusNotFound, "no_rule_set"},
	{pricing.ErrNilRules, http.StatusBadRequest, "invalid_rules"},
	{httpx.ErrBadJSON, http.StatusBadRequest, "bad_json"},
}

// respondError maps a domain error to its status and translated code.
// Anything unmapped is logged and reported as a 500.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var v validation.Violations
	if errors.As(err, &v) {
		httpx.Problem(w, r, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			httpx.Problem(w, r, m.status, m.code, nil)
			return
		}
	}
	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	httpx.Problem(w, r, http.StatusInternalServerError, "internal_error", nil)
}
