package handlers

import (
	"net/http"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/export"
	"github.com/diewo77/window-configurator/internal/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type estimateView struct {
	*session.Estimate
	Totals session.EstimateTotals `json:"totals"`
}

func (h *SessionHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	est, err := s.Estimate()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, estimateView{Estimate: est, Totals: est.Totals()})
}

// AddEstimateItem prices the current specification and appends it.
func (h *SessionHandler) AddEstimateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	item, err := s.AddToEstimate()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *SessionHandler) RemoveEstimateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := s.RemoveEstimateItem(r.PathValue("number")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearEstimate discards the estimate and all its lines.
func (h *SessionHandler) ClearEstimate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	s.ClearEstimate()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) EstimatePDF(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	est, err := s.Estimate()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	body, err := export.EstimatePDF(est, h.company)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.Attachment(w, "application/pdf", est.Number+".pdf", body)
}

func (h *SessionHandler) EstimateXLSX(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	est, err := s.Estimate()
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	body, err := export.EstimateXLSX(est)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.Attachment(w, xlsxContentType, est.Number+".xlsx", body)
}
