// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Pricing  PricingConfig
	Session  SessionConfig
	Log      LogConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// DatabaseConfig selects the gorm driver and its connection settings.
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Debug      bool
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
}

// StoreConfig selects where session state is persisted.
type StoreConfig struct {
	Backend  string
	RedisURL string
	TTLHours int
}

type PricingConfig struct {
	RulesFile       string
	IronmongeryFile string
	MaxVariants     int
}

// SessionConfig controls how long idle sessions stay in memory. Both values are in minutes.
type SessionConfig struct {
	IdleMinutes  int
	SweepMinutes int
}

type LogConfig struct {
	Level  string
	Format string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev         bool
	Migrations  bool
	AdminToken  string
	DefaultLang string
	CompanyName string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TTL is zero when keys should never expire.
func (s StoreConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 0
	}
	return time.Duration(s.TTLHours) * time.Hour
}

// IdleTimeout is zero when idle sessions are never evicted.
func (s SessionConfig) IdleTimeout() time.Duration {
	if s.IdleMinutes <= 0 {
		return 0
	}
	return time.Duration(s.IdleMinutes) * time.Minute
}

func (s SessionConfig) SweepInterval() time.Duration {
	if s.SweepMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(s.SweepMinutes) * time.Minute
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			SQLitePath: getEnv("SQLITE_PATH", "configurator.db"),
			Debug:      getEnvBool("DB_DEBUG", false),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "configurator"),
			Password:   getEnv("DB_PASSWORD", "configurator"),
			DBName:     getEnv("DB_NAME", "configurator"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},
		Store: StoreConfig{
			Backend:  strings.ToLower(getEnv("STORE_BACKEND", "gorm")),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
			TTLHours: getEnvInt("STORE_TTL_HOURS", 720),
		},
		Pricing: PricingConfig{
			RulesFile:       getEnv("PRICING_RULES_FILE", ""),
			IronmongeryFile: getEnv("IRONMONGERY_FILE", ""),
			MaxVariants:     getEnvInt("MAX_VARIANTS", 10),
		},
		Session: SessionConfig{
			IdleMinutes:  getEnvInt("SESSION_IDLE_MINUTES", 30),
			SweepMinutes: getEnvInt("SESSION_SWEEP_MINUTES", 1),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		App: AppConfig{
			Dev:         getEnvBool("DEV", true),
			Migrations:  getEnvBool("MIGRATIONS", false),
			AdminToken:  getEnv("ADMIN_TOKEN", ""),
			DefaultLang: getEnv("DEFAULT_LANG", "en"),
			CompanyName: getEnv("COMPANY_NAME", "Sash Window Configurator"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool accepts "1", "true" and "yes" as true.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
