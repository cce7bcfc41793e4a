package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/window-configurator/httpx"
)

// Export downloads the configuration with its price as a JSON file.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	doc := s.Export()
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	name := "window-configuration-" + doc.ExportDate.Format("2006-01-02") + ".json"
	httpx.Attachment(w, "application/json", name, body)
}

// Import replaces the specification with a previously exported document.
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	body, err := httpx.ReadBody(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	invalidated, err := s.Import(body)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, changeOf(s, invalidated))
}
