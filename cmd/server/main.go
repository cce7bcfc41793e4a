package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/window-configurator/internal/config"
	"github.com/diewo77/window-configurator/internal/db"
	"github.com/diewo77/window-configurator/internal/pricing"
	"github.com/diewo77/window-configurator/internal/services"
	"github.com/diewo77/window-configurator/internal/session"
	"github.com/diewo77/window-configurator/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	rulesFileFlag   = flag.String("rules", "", "Pricing rules JSON used when no version is published yet (overrides PRICING_RULES_FILE)")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	if *rulesFileFlag != "" {
		cfg.Pricing.RulesFile = *rulesFileFlag
	}

	logger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.Connect(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(dbConn, cfg.Database, cfg.App.Migrations, "migrations"); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		logger.Info("migrations completed successfully")
		return
	}

	ctx := context.Background()
	configStore, closeStore, err := openStore(ctx, cfg.Store, dbConn, logger)
	if err != nil {
		logger.Fatal("failed to open config store", zap.Error(err))
	}
	defer closeStore()

	fallback := pricing.DefaultRules()
	if cfg.Pricing.RulesFile != "" {
		if fallback, err = pricing.LoadRulesFile(cfg.Pricing.RulesFile); err != nil {
			logger.Fatal("failed to load pricing rules", zap.String("file", cfg.Pricing.RulesFile), zap.Error(err))
		}
	}
	provider := pricing.NewProvider(fallback)
	ruleService := services.NewRuleService(dbConn, provider, logger)
	live, err := ruleService.Bootstrap(ctx, fallback)
	if err != nil {
		logger.Fatal("failed to load pricing rules", zap.Error(err))
	}
	logger.Info("pricing rules live", zap.Int("version", live.Version), zap.String("currency", live.Currency))

	catalogue := pricing.DefaultCatalogue()
	if cfg.Pricing.IronmongeryFile != "" {
		if catalogue, err = pricing.LoadCatalogueFile(cfg.Pricing.IronmongeryFile); err != nil {
			logger.Fatal("failed to load ironmongery catalogue", zap.String("file", cfg.Pricing.IronmongeryFile), zap.Error(err))
		}
	}

	sessions := session.NewManager(configStore, provider, logger, session.ManagerOptions{
		MaxVariants: cfg.Pricing.MaxVariants,
		IdleTimeout: cfg.Session.IdleTimeout(),
		Catalogue:   catalogue,
	})
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, cfg.Session.SweepInterval())

	app := NewApp(Deps{
		DB:          dbConn,
		Sessions:    sessions,
		Rules:       provider,
		RuleService: ruleService,
		Logger:      logger,
		AdminToken:  cfg.App.AdminToken,
		DefaultLang: cfg.App.DefaultLang,
		CompanyName: cfg.App.CompanyName,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(logger, app),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.Bool("dev", cfg.App.Dev),
			zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	// Drain pending session writes before the store goes away.
	stopSweep()
	sessions.Close()
	logger.Info("server stopped gracefully")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

// openStore picks the session store backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.StoreConfig, dbConn *gorm.DB, logger *zap.Logger) (store.ConfigStore, func(), error) {
	switch cfg.Backend {
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session store: redis", zap.Duration("ttl", cfg.TTL()))
		return rs, func() { _ = rs.Close() }, nil
	case "gorm", "":
		logger.Info("session store: database")
		return store.NewGormStore(dbConn), func() {}, nil
	default:
		return nil, nil, errors.New("unsupported STORE_BACKEND " + cfg.Backend)
	}
}
