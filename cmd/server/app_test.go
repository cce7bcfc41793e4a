package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/internal/config"
	"github.com/diewo77/window-configurator/internal/db"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/services"
	"github.com/diewo77/window-configurator/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func setupApp(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := db.Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Migrate(conn, cfg, false, ""); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	configStore, closeStore, err := openStore(context.Background(), config.StoreConfig{Backend: "gorm"}, conn, zap.NewNop())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(closeStore)

	provider := pricing.NewProvider(nil)
	svc := services.NewRuleService(conn, provider, zap.NewNop())
	if _, err := svc.Bootstrap(context.Background(), nil); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	sessions := session.NewManager(configStore, provider, zap.NewNop(), session.ManagerOptions{MaxVariants: 10})
	t.Cleanup(sessions.Close)

	app := NewApp(Deps{
		DB:          conn,
		Sessions:    sessions,
		Rules:       provider,
		RuleService: svc,
		AdminToken:  "s3cret",
		DefaultLang: "en",
		CompanyName: "Test Windows Ltd",
	})
	return withLogging(zaptest.NewLogger(t), app)
}

func serve(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApp_Routes(t *testing.T) {
	app := setupApp(t)

	if w := serve(app, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200 got %d", w.Code)
	}
	if w := serve(app, http.MethodPost, "/quote", `{"width":800}`, nil); w.Code != http.StatusOK {
		t.Fatalf("quote: expected 200 got %d", w.Code)
	}

	w := serve(app, http.MethodPost, "/sessions", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", w.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w := serve(app, http.MethodGet, "/sessions/"+created.ID+"/sections", "", nil); w.Code != http.StatusOK {
		t.Fatalf("sections: expected 200 got %d", w.Code)
	}
	if w := serve(app, http.MethodGet, "/sessions/"+created.ID+"/price", "", nil); w.Code != http.StatusOK {
		t.Fatalf("price: expected 200 got %d", w.Code)
	}
}

func TestApp_Language(t *testing.T) {
	app := setupApp(t)
	w := serve(app, http.MethodPost, "/sessions", "", nil)
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	path := "/sessions/" + created.ID + "/sections/frame/confirm"

	tests := []struct {
		name    string
		path    string
		header  map[string]string
		message string
	}{
		{"default", path, nil, "Please confirm previous selection first"},
		{"accept-language", path, map[string]string{"Accept-Language": "pl-PL,pl;q=0.9"}, "Najpierw zatwierdź poprzedni wybór"},
		{"query wins", path + "?lang=en", map[string]string{"Accept-Language": "pl"}, "Please confirm previous selection first"},
		{"unsupported falls back", path + "?lang=de", nil, "Please confirm previous selection first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(app, http.MethodPost, tt.path, "", tt.header)
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409 got %d", w.Code)
			}
			var body httpx.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.message {
				t.Fatalf("expected %q got %q", tt.message, body.Message)
			}
		})
	}
}

func TestApp_AdminRequiresToken(t *testing.T) {
	app := setupApp(t)
	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"no header", nil, http.StatusUnauthorized},
		{"wrong token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"not bearer", map[string]string{"Authorization": "s3cret"}, http.StatusUnauthorized},
		{"valid", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(app, http.MethodGet, "/admin/pricing-rules/history", "", tt.header)
			if w.Code != tt.status {
				t.Fatalf("expected %d got %d", tt.status, w.Code)
			}
		})
	}
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	if _, _, err := openStore(context.Background(), config.StoreConfig{Backend: "memcached"}, nil, zap.NewNop()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestInitLogger(t *testing.T) {
	for _, cfg := range []config.LogConfig{{Level: "debug", Format: "json"}, {Level: "warn", Format: "console"}} {
		l, err := initLogger(cfg)
		if err != nil {
			t.Fatalf("init %+v: %v", cfg, err)
		}
		_ = l.Sync()
	}
}
