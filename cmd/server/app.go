package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/window-configurator/httpx"
	"github.com/diewo77/window-configurator/i18n"
	"github.com/diewo77/window-configurator/internal/handlers"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/services"
	"github.com/diewo77/window-configurator/internal/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the services the HTTP layer is built from.
type Deps struct {
	DB          *gorm.DB
	Sessions    *session.Manager
	Rules       *pricing.Provider
	RuleService *services.RuleService
	Logger      *zap.Logger
	AdminToken  string
	DefaultLang string
	CompanyName string
}

// App is the main application handler that sets up all routes.
type App struct {
	mux         *http.ServeMux
	deps        Deps
	defaultLang string
}

func NewApp(d Deps) *App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	lang := d.DefaultLang
	if lang == "" {
		lang = i18n.DefaultLang
	}
	app := &App{mux: http.NewServeMux(), deps: d, defaultLang: lang}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withPreferences(a.mux).ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	hh := handlers.NewHealthHandler(a.deps.DB)
	a.mux.HandleFunc("GET /health", hh.Live)
	a.mux.HandleFunc("GET /healthz", hh.Ready)

	qh := handlers.NewQuoteHandler(a.deps.Rules, a.deps.Logger)
	a.mux.HandleFunc("POST /quote", qh.Quote)

	// Configuration sessions
	sh := handlers.NewSessionHandler(a.deps.Sessions, a.deps.CompanyName, a.deps.Logger)
	a.mux.HandleFunc("POST /sessions", sh.Create)
	a.mux.HandleFunc("GET /sessions/{id}", sh.Get)
	a.mux.HandleFunc("PATCH /sessions/{id}/specification", sh.Update)
	a.mux.HandleFunc("GET /sessions/{id}/price", sh.Price)
	a.mux.HandleFunc("GET /sessions/{id}/summary", sh.Summary)
	a.mux.HandleFunc("GET /sessions/{id}/sections", sh.Sections)
	a.mux.HandleFunc("POST /sessions/{id}/sections/{section}/confirm", sh.Confirm)
	a.mux.HandleFunc("POST /sessions/{id}/reset", sh.Reset)
	a.mux.HandleFunc("POST /sessions/{id}/full-reset", sh.FullReset)

	a.mux.HandleFunc("GET /sessions/{id}/variants", sh.ListVariants)
	a.mux.HandleFunc("POST /sessions/{id}/variants", sh.SaveVariant)
	a.mux.HandleFunc("POST /sessions/{id}/variants/{variantID}/load", sh.LoadVariant)
	a.mux.HandleFunc("DELETE /sessions/{id}/variants/{variantID}", sh.DeleteVariant)

	a.mux.HandleFunc("GET /sessions/{id}/estimate", sh.Estimate)
	a.mux.HandleFunc("DELETE /sessions/{id}/estimate", sh.ClearEstimate)
	a.mux.HandleFunc("POST /sessions/{id}/estimate/items", sh.AddEstimateItem)
	a.mux.HandleFunc("DELETE /sessions/{id}/estimate/items/{number}", sh.RemoveEstimateItem)
	a.mux.HandleFunc("GET /sessions/{id}/estimate/pdf", sh.EstimatePDF)
	a.mux.HandleFunc("GET /sessions/{id}/estimate/xlsx", sh.EstimateXLSX)

	a.mux.HandleFunc("GET /ironmongery", sh.Catalogue)
	a.mux.HandleFunc("GET /sessions/{id}/ironmongery", sh.Ironmongery)
	a.mux.HandleFunc("POST /sessions/{id}/ironmongery", sh.SelectIronmongery)
	a.mux.HandleFunc("DELETE /sessions/{id}/ironmongery/{productID}", sh.RemoveIronmongery)

	a.mux.HandleFunc("GET /sessions/{id}/export", sh.Export)
	a.mux.HandleFunc("POST /sessions/{id}/import", sh.Import)

	// Admin: pricing rules
	rh := handlers.NewRulesHandler(a.deps.RuleService, a.deps.Rules, a.deps.Logger)
	a.mux.Handle("GET /admin/pricing-rules", a.requireAdmin(http.HandlerFunc(rh.Current)))
	a.mux.Handle("PUT /admin/pricing-rules", a.requireAdmin(http.HandlerFunc(rh.Publish)))
	a.mux.Handle("GET /admin/pricing-rules/history", a.requireAdmin(http.HandlerFunc(rh.History)))
}

// requireAdmin checks the bearer token against ADMIN_TOKEN. With no token
// configured the admin routes are closed.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if a.deps.AdminToken == "" || !ok ||
			subtle.ConstantTimeCompare([]byte(token), []byte(a.deps.AdminToken)) != 1 {
			httpx.Problem(w, r, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withPreferences resolves the language from the lang query, the lang cookie
// or Accept-Language, in that order.
func (a *App) withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := a.defaultLang
		if h := r.Header.Get("Accept-Language"); h != "" {
			lang = i18n.DetectLanguage(h)
		}
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = i18n.DetectLanguage(c.Value)
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = i18n.DetectLanguage(q)
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
