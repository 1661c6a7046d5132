package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "mealscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "MEALSCAN"
)

// legacyEnv maps configuration keys to the unprefixed environment variables
// the deployment already sets (DB_*, REDIS_*, JWT_SECRET).
var legacyEnv = map[string]string{
	"database.user":          "DB_USER",
	"database.password":      "DB_PASSWORD",
	"database.name":          "DB_NAME",
	"database.host":          "DB_HOST",
	"database.port":          "DB_PORT",
	"database.instance_name": "INSTANCE_CONNECTION_NAME",
	"database.auto_migrate":  "RUN_MIGRATIONS",
	"redis.host":             "REDIS_HOST",
	"redis.port":             "REDIS_PORT",
	"redis.password":         "REDIS_PASSWORD",
	"auth.jwt_secret":        "JWT_SECRET",
}

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader backed by its own viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Viper returns the underlying viper instance so commands can bind flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads configFile if given, otherwise searches the standard paths.
// A missing config file is not an error; defaults and env vars still apply.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	if err := l.setupEnvironmentVariables(); err != nil {
		return nil, err
	}
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, ConfigFileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", ConfigFileName))
	}

	l.v.AddConfigPath("/etc/" + ConfigFileName)
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() error {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	for key, env := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := l.v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("log_format", d.LogFormat)

	l.v.SetDefault("server.port", d.Server.Port)
	l.v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	l.v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	l.v.SetDefault("detection.ensemble_enabled", d.Detection.EnsembleEnabled)
	l.v.SetDefault("detection.secondary_first", d.Detection.SecondaryFirst)
	l.v.SetDefault("detection.secondary_timeout", d.Detection.SecondaryTimeout)
	l.v.SetDefault("detection.similarity_threshold", d.Detection.SimilarityThreshold)
	l.v.SetDefault("detection.fusion_cap", d.Detection.FusionCap)
	l.v.SetDefault("detection.gate_min_items", d.Detection.GateMinItems)
	l.v.SetDefault("detection.gate_confidence", d.Detection.GateConfidence)
	l.v.SetDefault("detection.secondary_min_confidence", d.Detection.SecondaryMinConfidence)
	l.v.SetDefault("detection.max_image_size", d.Detection.MaxImageSize)

	l.v.SetDefault("vision.max_results", d.Vision.MaxResults)

	l.v.SetDefault("gemini.model", d.Gemini.Model)
	l.v.SetDefault("gemini.timeout", d.Gemini.Timeout)

	l.v.SetDefault("redis.host", d.Redis.Host)
	l.v.SetDefault("redis.port", d.Redis.Port)
	l.v.SetDefault("redis.password", d.Redis.Password)
	l.v.SetDefault("redis.db", d.Redis.DB)
	l.v.SetDefault("redis.cache_ttl", d.Redis.CacheTTL)
	l.v.SetDefault("redis.namespace", d.Redis.Namespace)

	l.v.SetDefault("budget.enabled", d.Budget.Enabled)
	l.v.SetDefault("budget.limit", d.Budget.Limit)
	l.v.SetDefault("budget.interval", d.Budget.Interval)

	l.v.SetDefault("database.enabled", d.Database.Enabled)
	l.v.SetDefault("database.driver", d.Database.Driver)
	l.v.SetDefault("database.path", d.Database.Path)
	l.v.SetDefault("database.connect_timeout", d.Database.ConnectTimeout)
	l.v.SetDefault("database.auto_migrate", d.Database.AutoMigrate)
	l.v.SetDefault("database.user", d.Database.User)
	l.v.SetDefault("database.password", d.Database.Password)
	l.v.SetDefault("database.name", d.Database.Name)
	l.v.SetDefault("database.host", d.Database.Host)
	l.v.SetDefault("database.port", d.Database.Port)
	l.v.SetDefault("database.instance_name", d.Database.InstanceName)
	l.v.SetDefault("database.ssl_mode", d.Database.SSLMode)

	l.v.SetDefault("auth.required", d.Auth.Required)
	l.v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
}
