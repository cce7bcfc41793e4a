package handlers

import (
	"net/http"

	"github.com/diewo77/window-configurator/httpx"
)

type saveVariantRequest struct {
	Name string `json:"name"`
}

func (h *SessionHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, s.Variants())
}

// SaveVariant snapshots the current specification. The body is optional.
func (h *SessionHandler) SaveVariant(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	var req saveVariantRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
	}
	v, err := s.SaveVariant(req.Name)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, v)
}

func (h *SessionHandler) LoadVariant(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	invalidated, err := s.LoadVariant(r.PathValue("variantID"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, changeOf(s, invalidated))
}

func (h *SessionHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := s.DeleteVariant(r.PathValue("variantID")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
