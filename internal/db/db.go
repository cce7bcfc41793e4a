// Package db opens the gorm connection and applies schema migrations.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/window-configurator/internal/config"
	"github.com/diewo77/window-configurator/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 10

// Connect opens the configured database. Postgres is retried to give the
// container time to start.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch cfg.Driver {
	case "sqlite":
		log.Info("opening sqlite database", zap.String("path", cfg.SQLitePath))
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	case "postgres":
		log.Info("connecting to database",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("dbname", cfg.DBName),
			zap.String("user", cfg.User),
		)
		var db *gorm.DB
		var err error
		for i := 0; i < connectAttempts; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), gcfg)
			if err == nil {
				break
			}
			log.Warn("retrying database connection", zap.Int("attempt", i+1), zap.Error(err))
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect database after retries: %w", err)
		}
		if err := db.Exec("SELECT 1").Error; err != nil {
			return nil, fmt.Errorf("db ping failed: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Migrate brings the schema up to date. Postgres with MIGRATIONS enabled runs
// the SQL files in dir through golang-migrate; everything else uses AutoMigrate.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig, sqlMigrations bool, dir string) error {
	if sqlMigrations && cfg.Driver == "postgres" {
		if err := runSQLMigrations(dir, cfg.URL()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(db); err != nil {
		return err
	}

	for _, table := range []string{"config_entries", "pricing_rule_sets"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates the configurator tables from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range []any{&models.ConfigEntry{}, &models.PricingRuleSet{}} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(dir, url string) error {
	m, err := migrate.New("file://"+dir, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
