package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/models"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/services"
	"github.com/diewo77/window-configurator/internal/session"
	"github.com/diewo77/window-configurator/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.ConfigEntry{}, &models.PricingRuleSet{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupSessionMux(t *testing.T) *http.ServeMux {
	t.Helper()
	db := setupTestDB(t)
	m := session.NewManager(store.NewGormStore(db), pricing.NewProvider(nil), zap.NewNop(), session.ManagerOptions{MaxVariants: 2})
	t.Cleanup(m.Close)

	h := NewSessionHandler(m, "Test Windows Ltd", zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", h.Create)
	mux.HandleFunc("GET /sessions/{id}", h.Get)
	mux.HandleFunc("PATCH /sessions/{id}/specification", h.Update)
	mux.HandleFunc("GET /sessions/{id}/price", h.Price)
	mux.HandleFunc("GET /sessions/{id}/summary", h.Summary)
	mux.HandleFunc("GET /sessions/{id}/sections", h.Sections)
	mux.HandleFunc("POST /sessions/{id}/sections/{section}/confirm", h.Confirm)
	mux.HandleFunc("POST /sessions/{id}/reset", h.Reset)
	mux.HandleFunc("POST /sessions/{id}/full-reset", h.FullReset)
	mux.HandleFunc("GET /sessions/{id}/variants", h.ListVariants)
	mux.HandleFunc("POST /sessions/{id}/variants", h.SaveVariant)
	mux.HandleFunc("POST /sessions/{id}/variants/{variantID}/load", h.LoadVariant)
	mux.HandleFunc("DELETE /sessions/{id}/variants/{variantID}", h.DeleteVariant)
	mux.HandleFunc("GET /sessions/{id}/estimate", h.Estimate)
	mux.HandleFunc("DELETE /sessions/{id}/estimate", h.ClearEstimate)
	mux.HandleFunc("POST /sessions/{id}/estimate/items", h.AddEstimateItem)
	mux.HandleFunc("DELETE /sessions/{id}/estimate/items/{number}", h.RemoveEstimateItem)
	mux.HandleFunc("GET /sessions/{id}/estimate/pdf", h.EstimatePDF)
	mux.HandleFunc("GET /sessions/{id}/estimate/xlsx", h.EstimateXLSX)
	mux.HandleFunc("GET /sessions/{id}/export", h.Export)
	mux.HandleFunc("POST /sessions/{id}/import", h.Import)
	mux.HandleFunc("GET /ironmongery", h.Catalogue)
	mux.HandleFunc("GET /sessions/{id}/ironmongery", h.Ironmongery)
	mux.HandleFunc("POST /sessions/{id}/ironmongery", h.SelectIronmongery)
	mux.HandleFunc("DELETE /sessions/{id}/ironmongery/{productID}", h.RemoveIronmongery)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) httpx.ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d got %d: %s", status, w.Code, w.Body.String())
	}
	body := decode[httpx.ErrorResponse](t, w)
	if body.Error != code {
		t.Fatalf("expected code %s got %s", code, body.Error)
	}
	return body
}

func createSession(t *testing.T, mux http.Handler) string {
	t.Helper()
	w := do(t, mux, http.MethodPost, "/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", w.Code)
	}
	return decode[sessionView](t, w).ID
}

func TestSessionHandler_DefaultPrice(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodGet, "/sessions/"+id+"/price", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	b := decode[pricing.Breakdown](t, w)
	if !b.TotalPrice.Equal(decimal.RequireFromString("1630.13")) {
		t.Fatalf("expected 1630.13 got %s", b.TotalPrice)
	}

	w = do(t, mux, http.MethodGet, "/sessions/"+id+"/summary", "")
	s := decode[pricing.Summary](t, w)
	if s.Display.TotalPrice != "£1630.13" {
		t.Fatalf("expected display £1630.13 got %s", s.Display.TotalPrice)
	}
}

func TestSessionHandler_ConfirmSequence(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	body := expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/sections/glass/confirm", ""),
		http.StatusConflict, "section_locked")
	if body.Message != "Please confirm previous selection first" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/sections/roof/confirm", ""),
		http.StatusNotFound, "unknown_section")

	w := do(t, mux, http.MethodPost, "/sessions/"+id+"/sections/dimensions/confirm", "")
	if w.Code != http.StatusOK {
		t.Fatalf("confirm dimensions: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/sections/bars/confirm", "")
	if w.Code != http.StatusOK {
		t.Fatalf("confirm bars: expected 200 got %d", w.Code)
	}

	w = do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"width":1200}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	cv := decode[changeView](t, w)
	if len(cv.Invalidated) != 1 || cv.Invalidated[0] != "dimensions" {
		t.Fatalf("expected only dimensions invalidated, got %v", cv.Invalidated)
	}
	if cv.Specification.Width != 1200 || cv.Price.FrameWidth != 1350 {
		t.Fatalf("unexpected spec/price after update: %d / %d", cv.Specification.Width, cv.Price.FrameWidth)
	}
	states := map[string]string{}
	for _, st := range cv.Sections {
		states[string(st.Section)] = string(st.State)
	}
	if states["dimensions"] != "unlocked" || states["bars"] != "confirmed" || states["color"] != "locked" {
		t.Fatalf("unexpected states %v", states)
	}

	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/reset", "")
	for _, st := range decode[sessionView](t, w).Sections {
		if st.State == "confirmed" {
			t.Fatalf("reset left %s confirmed", st.Section)
		}
	}
}

func TestSessionHandler_BadRequests(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	expectError(t, do(t, mux, http.MethodGet, "/sessions/not-a-uuid", ""), http.StatusNotFound, "session_not_found")
	expectError(t, do(t, mux, http.MethodGet, "/sessions/"+uuid.NewString(), ""), http.StatusNotFound, "session_not_found")
	expectError(t, do(t, mux, http.MethodPatch, "/sessions/"+uuid.NewString()+"/specification", `{"width":900}`),
		http.StatusNotFound, "session_not_found")
	expectError(t, do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"roofPitch":30}`),
		http.StatusBadRequest, "unknown_field")
	expectError(t, do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `[1,2]`),
		http.StatusBadRequest, "invalid_patch")
}

func TestSessionHandler_FullReset(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"width":600,"quantity":3}`)
	w := do(t, mux, http.MethodPost, "/sessions/"+id+"/full-reset", "")
	v := decode[sessionView](t, w)
	if v.Specification.Width != 1000 || v.Specification.Quantity != 1 {
		t.Fatalf("expected default specification, got %+v", v.Specification)
	}
}

func TestSessionHandler_Variants(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodPost, "/sessions/"+id+"/variants", `{"name":"Kitchen"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("save: expected 201 got %d", w.Code)
	}
	kitchen := decode[session.Variant](t, w)
	if kitchen.Name != "Kitchen" {
		t.Fatalf("unexpected name %s", kitchen.Name)
	}

	do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"height":900}`)
	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/variants", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("save without body: expected 201 got %d", w.Code)
	}
	if name := decode[session.Variant](t, w).Name; name != "Variant 2" {
		t.Fatalf("expected default name, got %s", name)
	}
	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/variants", `{"name":"Third"}`),
		http.StatusConflict, "variant_limit")

	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/variants/"+kitchen.ID+"/load", "")
	if decode[changeView](t, w).Specification.Height != 1500 {
		t.Fatal("loading the variant should restore its height")
	}

	w = do(t, mux, http.MethodDelete, "/sessions/"+id+"/variants/"+kitchen.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204 got %d", w.Code)
	}
	expectError(t, do(t, mux, http.MethodDelete, "/sessions/"+id+"/variants/"+kitchen.ID, ""),
		http.StatusNotFound, "variant_not_found")

	list := decode[[]session.Variant](t, do(t, mux, http.MethodGet, "/sessions/"+id+"/variants", ""))
	if len(list) != 1 {
		t.Fatalf("expected 1 variant left got %d", len(list))
	}
}

func TestSessionHandler_Estimate(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)
	base := "/sessions/" + id + "/estimate"

	expectError(t, do(t, mux, http.MethodGet, base, ""), http.StatusNotFound, "estimate_empty")
	expectError(t, do(t, mux, http.MethodGet, base+"/pdf", ""), http.StatusNotFound, "estimate_empty")

	w := do(t, mux, http.MethodPost, base+"/items", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("add: expected 201 got %d: %s", w.Code, w.Body.String())
	}
	if n := decode[session.EstimateItem](t, w).Number; n != "W1" {
		t.Fatalf("expected W1 got %s", n)
	}
	do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"quantity":2}`)
	do(t, mux, http.MethodPost, base+"/items", "")

	w = do(t, mux, http.MethodGet, base, "")
	var got struct {
		Items  []session.EstimateItem `json:"items"`
		Totals session.EstimateTotals `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Items) != 2 || got.Totals.Windows != 3 {
		t.Fatalf("expected 2 items / 3 windows, got %d / %d", len(got.Items), got.Totals.Windows)
	}
	if !got.Totals.Net.Equal(decimal.RequireFromString("4890.38")) {
		t.Fatalf("expected net 4890.38 got %s", got.Totals.Net)
	}

	w = do(t, mux, http.MethodGet, base+"/pdf", "")
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a pdf, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".pdf") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	w = do(t, mux, http.MethodGet, base+"/xlsx", "")
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected an xlsx archive, got %d", w.Code)
	}

	if w := do(t, mux, http.MethodDelete, base+"/items/W1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("remove: expected 204 got %d", w.Code)
	}
	expectError(t, do(t, mux, http.MethodDelete, base+"/items/W1", ""), http.StatusNotFound, "estimate_item_not_found")

	if w := do(t, mux, http.MethodDelete, base, ""); w.Code != http.StatusNoContent {
		t.Fatalf("clear: expected 204 got %d", w.Code)
	}
	expectError(t, do(t, mux, http.MethodGet, base, ""), http.StatusNotFound, "estimate_empty")
}

func TestSessionHandler_EstimateRejectsInvalidSpecification(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"width":0}`)
	body := expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/estimate/items", ""),
		http.StatusUnprocessableEntity, "validation_failed")
	if body.Details == nil {
		t.Fatal("expected field details")
	}
}

func TestSessionHandler_ExportImport(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"width":900,"pas24":true}`)
	w := do(t, mux, http.MethodGet, "/sessions/"+id+"/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200 got %d", w.Code)
	}
	exported := w.Body.String()

	other := createSession(t, mux)
	w = do(t, mux, http.MethodPost, "/sessions/"+other+"/import", exported)
	if w.Code != http.StatusOK {
		t.Fatalf("import: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	v := decode[changeView](t, w)
	if v.Specification.Width != 900 || !v.Specification.PAS24 {
		t.Fatalf("import did not restore the configuration: %+v", v.Specification)
	}

	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+other+"/import", "not json"),
		http.StatusBadRequest, "invalid_patch")
	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+other+"/import", `{}`),
		http.StatusBadRequest, "invalid_patch")
	w = do(t, mux, http.MethodGet, "/sessions/"+other, "")
	if v := decode[sessionView](t, w); v.Specification.Width != 900 {
		t.Fatalf("a rejected import must keep the configuration, got width %d", v.Specification.Width)
	}
}

func TestSessionHandler_Ironmongery(t *testing.T) {
	mux := setupSessionMux(t)
	id := createSession(t, mux)

	w := do(t, mux, http.MethodGet, "/ironmongery?finish=antique-brass", "")
	if products := decode[[]pricing.IronmongeryProduct](t, w); len(products) != 3 {
		t.Fatalf("expected 3 antique brass products got %d", len(products))
	}

	do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"ironmongeryFinish":"satin","pas24":true}`)
	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/ironmongery", `{"productId":"standard-lock-pas24-satin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("select lock: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/ironmongery", `{"productId":"mighton-hooking-satin","quantity":2}`)
	sel := decode[session.IronmongerySelection](t, w)
	if len(sel.Products) != 2 || sel.TotalNet.StringFixed(2) != "34.96" {
		t.Fatalf("unexpected selection %+v", sel)
	}

	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/ironmongery", `{"productId":"fitch-fastener-satin","quantity":11}`),
		http.StatusUnprocessableEntity, "validation_failed")
	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/ironmongery", `{"productId":"fitch-fastener-chrome","quantity":1}`),
		http.StatusConflict, "finish_mismatch")
	expectError(t, do(t, mux, http.MethodPost, "/sessions/"+id+"/ironmongery", `{"productId":"brass-knob","quantity":1}`),
		http.StatusNotFound, "unknown_product")
	expectError(t, do(t, mux, http.MethodDelete, "/sessions/"+id+"/ironmongery/fitch-fastener-satin", ""),
		http.StatusNotFound, "ironmongery_not_selected")

	w = do(t, mux, http.MethodPost, "/sessions/"+id+"/estimate/items", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("add: expected 201 got %d: %s", w.Code, w.Body.String())
	}
	item := decode[session.EstimateItem](t, w)
	if len(item.Ironmongery) != 2 || !item.IronmongeryNet.Equal(sel.TotalNet) {
		t.Fatalf("estimate line should carry the ironmongery, got %+v", item.Ironmongery)
	}

	w = do(t, mux, http.MethodDelete, "/sessions/"+id+"/ironmongery/mighton-hooking-satin", "")
	if sel := decode[session.IronmongerySelection](t, w); len(sel.Products) != 1 {
		t.Fatalf("expected the lock to remain, got %+v", sel.Products)
	}
}

func TestQuoteHandler(t *testing.T) {
	h := NewQuoteHandler(pricing.NewProvider(nil), zap.NewNop())
	tests := []struct {
		name   string
		body   string
		status int
		total  string
	}{
		{"defaults", `{}`, http.StatusOK, "1630.13"},
		{"quantity discount", `{"quantity":5}`, http.StatusOK, "7743.09"},
		{"invalid option", `{"frameType":"aluminium"}`, http.StatusUnprocessableEntity, ""},
		{"unknown field", `{"colour":"red"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, http.HandlerFunc(h.Quote), http.MethodPost, "/quote", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.total == "" {
				return
			}
			var got struct {
				Summary pricing.Summary `json:"summary"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.Summary.Breakdown.TotalPrice.Equal(decimal.RequireFromString(tt.total)) {
				t.Fatalf("expected %s got %s", tt.total, got.Summary.Breakdown.TotalPrice)
			}
		})
	}
}

func TestRulesHandler(t *testing.T) {
	db := setupTestDB(t)
	provider := pricing.NewProvider(nil)
	svc := services.NewRuleService(db, provider, zap.NewNop())
	if _, err := svc.Bootstrap(context.Background(), nil); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	h := NewRulesHandler(svc, provider, zap.NewNop())

	w := do(t, http.HandlerFunc(h.Current), http.MethodGet, "/admin/pricing-rules", "")
	if v := decode[pricing.RuleTable](t, w).Version; v != 1 {
		t.Fatalf("expected version 1 got %d", v)
	}

	next := pricing.DefaultRules()
	next.BasePricePerSqm = decimal.NewFromInt(1200)
	raw, _ := json.Marshal(next)
	req := httptest.NewRequest(http.MethodPut, "/admin/pricing-rules", bytes.NewReader(raw))
	req.Header.Set("X-Admin-User", "ops")
	w = httptest.NewRecorder()
	h.Publish(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("publish: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	if v := decode[pricing.RuleTable](t, w).Version; v != 2 {
		t.Fatalf("expected version 2 got %d", v)
	}
	if !provider.Current().BasePricePerSqm.Equal(decimal.NewFromInt(1200)) {
		t.Fatal("provider should serve the published table")
	}

	bad := pricing.DefaultRules()
	bad.BasePricePerSqm = decimal.Zero
	raw, _ = json.Marshal(bad)
	expectError(t, do(t, http.HandlerFunc(h.Publish), http.MethodPut, "/admin/pricing-rules", string(raw)),
		http.StatusUnprocessableEntity, "invalid_rules")
	expectError(t, do(t, http.HandlerFunc(h.Publish), http.MethodPut, "/admin/pricing-rules", "{"),
		http.StatusBadRequest, "bad_json")

	rows := decode[[]models.PricingRuleSet](t, do(t, http.HandlerFunc(h.History), http.MethodGet, "/admin/pricing-rules/history", ""))
	if len(rows) != 2 || rows[0].Version != 2 || rows[0].Author != "ops" {
		t.Fatalf("unexpected history %+v", rows)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(setupTestDB(t))
	if w := do(t, http.HandlerFunc(h.Live), http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", w.Code)
	}
	if w := do(t, http.HandlerFunc(h.Ready), http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", w.Code)
	}
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, string, []byte) error { return errors.New("disk full") }

func (brokenStore) Load(context.Context, string) ([]byte, error) { return nil, store.ErrNotFound }

func (brokenStore) Clear(context.Context, string) error { return errors.New("disk full") }

func TestSessionHandler_ReportsPersistFailure(t *testing.T) {
	m := session.NewManager(brokenStore{}, pricing.NewProvider(nil), zap.NewNop(), session.ManagerOptions{MaxVariants: 2})
	t.Cleanup(m.Close)
	h := NewSessionHandler(m, "", zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", h.Create)
	mux.HandleFunc("GET /sessions/{id}", h.Get)
	mux.HandleFunc("PATCH /sessions/{id}/specification", h.Update)

	id := createSession(t, mux)
	if w := do(t, mux, http.MethodPatch, "/sessions/"+id+"/specification", `{"width":1100}`); w.Code != http.StatusOK {
		t.Fatalf("update should succeed in memory, got %d", w.Code)
	}
	s, err := m.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	v := decode[sessionView](t, do(t, mux, http.MethodGet, "/sessions/"+id, ""))
	if v.PersistError != "disk full" {
		t.Fatalf("expected persist error to be reported, got %q", v.PersistError)
	}
	if v.Specification.Width != 1100 {
		t.Fatalf("in-memory width should be 1100, got %d", v.Specification.Width)
	}
}
