package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so no stray mealscan.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", dir)
	// 空の環境変数は viper では未設定として扱われる
	for _, env := range legacyEnv {
		t.Setenv(env, "")
	}
	return dir
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()

	require.NotNil(t, loader)
	assert.NotNil(t, loader.Viper())
}

func TestLoad_NoConfigFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdirTemp(t)

	yamlContent := `
log_level: debug
server:
  port: 9090
  cors_origins: ["https://app.example.com"]
detection:
  secondary_first: true
  secondary_timeout: 5s
  fusion_cap: 6
redis:
  host: cache
  cache_ttl: 1h
budget:
  limit: 10
  interval: 1m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mealscan.yaml"), []byte(yamlContent), 0o600))

	loader := NewLoader()
	cfg, err := loader.Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Detection.SecondaryFirst)
	assert.Equal(t, 5*time.Second, cfg.Detection.SecondaryTimeout)
	assert.Equal(t, 6, cfg.Detection.FusionCap)
	assert.InDelta(t, 0.85, cfg.Detection.SimilarityThreshold, 1e-9)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, time.Hour, cfg.Redis.CacheTTL)
	assert.Equal(t, 10, cfg.Budget.Limit)
	assert.Contains(t, loader.ConfigFileUsed(), "mealscan.yaml")
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini:\n  model: gemini-2.5-pro\n"), 0o600))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)

	_, err := NewLoader().Load("/does/not/exist.yaml")
	assert.ErrorContains(t, err, "does not exist")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("MEALSCAN_LOG_LEVEL", "warn")
	t.Setenv("MEALSCAN_DETECTION_ENSEMBLE_ENABLED", "false")
	t.Setenv("MEALSCAN_DETECTION_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("MEALSCAN_DATABASE_ENABLED", "true")
	t.Setenv("MEALSCAN_DATABASE_DRIVER", "sqlite")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Detection.EnsembleEnabled)
	assert.InDelta(t, 0.9, cfg.Detection.SimilarityThreshold, 1e-9)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_USER", "legacy-user")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("JWT_SECRET", "legacy-secret")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-user", cfg.Database.User)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "legacy-secret", cfg.Auth.JWTSecret)
}

func TestLoad_PrefixedEnvironmentWinsOverLegacy(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("MEALSCAN_AUTH_JWT_SECRET", "prefixed-secret")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "prefixed-secret", cfg.Auth.JWTSecret)
}

func TestLoad_InvalidValue(t *testing.T) {
	chdirTemp(t)
	t.Setenv("MEALSCAN_DETECTION_FUSION_CAP", "0")

	_, err := NewLoader().Load("")
	assert.ErrorContains(t, err, "configuration validation failed")
}
