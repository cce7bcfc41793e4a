package handlers

import (
	"net/http"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/session"
	"go.uber.org/zap"
)

// QuoteHandler prices a posted specification without a session. Omitted
// fields take their default values.
type QuoteHandler struct {
	rules  *pricing.Provider
	logger *zap.Logger
}

func NewQuoteHandler(rules *pricing.Provider, logger *zap.Logger) *QuoteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteHandler{rules: rules, logger: logger}
}

func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	spec, err := session.MergePatch(models.DefaultSpecification(), body)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if v := pricing.ValidateSpecification(spec); !v.Empty() {
		respondError(w, r, h.logger, v)
		return
	}
	rules := h.rules.Current()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"specification": spec,
		"summary":       pricing.Summarize(pricing.Calculate(spec, rules), rules),
	})
}
