package handlers

import (
	"net/http"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
)

type selectIronmongeryRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Catalogue lists ironmongery products, optionally only those in ?finish=.
func (h *SessionHandler) Catalogue(w http.ResponseWriter, r *http.Request) {
	c := h.sessions.Catalogue()
	products := c.Products
	if finish := r.URL.Query().Get("finish"); finish != "" {
		products = c.ForFinish(models.IronmongeryFinish(finish))
	}
	if products == nil {
		products = []pricing.IronmongeryProduct{}
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *SessionHandler) Ironmongery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, s.Ironmongery())
}

// SelectIronmongery adds a product to the window or changes its quantity.
func (h *SessionHandler) SelectIronmongery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	var req selectIronmongeryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if _, err := s.SelectIronmongery(req.ProductID, req.Quantity); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s.Ironmongery())
}

func (h *SessionHandler) RemoveIronmongery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := s.RemoveIronmongery(r.PathValue("productID")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s.Ironmongery())
}
