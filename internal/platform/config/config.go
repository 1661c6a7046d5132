// Package config loads the service configuration from files, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"meal_backend/internal/feature/mealdetection/usecase"
	"meal_backend/internal/platform/db"
)

// Config is the full service configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Server    ServerConfig   `mapstructure:"server"`
	Detection usecase.Config `mapstructure:"detection"`
	Vision    VisionConfig   `mapstructure:"vision"`
	Gemini    GeminiConfig   `mapstructure:"gemini"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Budget    BudgetConfig   `mapstructure:"budget"`
	Database  DatabaseConfig `mapstructure:"database"`
	Auth      AuthConfig     `mapstructure:"auth"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// VisionConfig configures the primary detector.
type VisionConfig struct {
	MaxResults int `mapstructure:"max_results"`
}

// GeminiConfig configures the secondary detector.
type GeminiConfig struct {
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig configures the secondary response cache. An empty Host disables it.
type RedisConfig struct {
	Host      string        `mapstructure:"host"`
	Port      string        `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Namespace string        `mapstructure:"namespace"`
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

// BudgetConfig limits secondary detector calls to Limit per Interval.
type BudgetConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Limit    int           `mapstructure:"limit"`
	Interval time.Duration `mapstructure:"interval"`
}

// DatabaseConfig configures the detection-run audit log.
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Driver         string        `mapstructure:"driver"` // postgres or sqlite
	Path           string        `mapstructure:"path"`   // sqlite file
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
	db.Config      `mapstructure:",squash"`
}

// AuthConfig configures bearer-token verification on /v1.
// An empty JWTSecret with Required set makes /v1 answer 500, as the middleware does.
type AuthConfig struct {
	Required  bool   `mapstructure:"required"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Detection: usecase.DefaultConfig(),
		Vision:    VisionConfig{MaxResults: 20},
		Gemini:    GeminiConfig{Model: "gemini-2.5-flash", Timeout: 30 * time.Second},
		Redis: RedisConfig{
			Port:      "6379",
			CacheTTL:  24 * time.Hour,
			Namespace: "meal:secondary",
		},
		Budget: BudgetConfig{Enabled: true, Limit: 60, Interval: time.Minute},
		Database: DatabaseConfig{
			Driver:         "postgres",
			Path:           "mealscan.db",
			ConnectTimeout: 60 * time.Second,
			AutoMigrate:    true,
			Config:         db.Config{Port: "5432", SSLMode: "disable"},
		},
		Auth: AuthConfig{Required: true},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log_format %q", c.LogFormat))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server.port %d", c.Server.Port))
	}
	if err := c.Detection.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Vision.MaxResults <= 0 {
		errs = append(errs, errors.New("vision.max_results must be positive"))
	}
	if c.Gemini.Model == "" {
		errs = append(errs, errors.New("gemini.model must not be empty"))
	}
	if c.Budget.Enabled && (c.Budget.Limit <= 0 || c.Budget.Interval <= 0) {
		errs = append(errs, errors.New("budget.limit and budget.interval must be positive"))
	}
	if c.Database.Enabled && c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("invalid database.driver %q", c.Database.Driver))
	}
	return errors.Join(errs...)
}
