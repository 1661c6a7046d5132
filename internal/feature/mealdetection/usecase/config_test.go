package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal_backend/internal/feature/mealdetection/domain/entity"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8*time.Second, cfg.SecondaryTimeout)
	assert.InDelta(t, 0.85, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 8, cfg.FusionCap)
	assert.Equal(t, 2, cfg.GateMinItems)
	assert.InDelta(t, 0.6, cfg.GateConfidence, 1e-6)
	assert.Equal(t, entity.ModePrimaryFirst, cfg.DefaultMode())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.SecondaryTimeout = 0 }},
		{"threshold above one", func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{"zero threshold", func(c *Config) { c.SimilarityThreshold = 0 }},
		{"zero cap", func(c *Config) { c.FusionCap = 0 }},
		{"negative gate items", func(c *Config) { c.GateMinItems = -1 }},
		{"gate confidence above one", func(c *Config) { c.GateConfidence = 2 }},
		{"negative secondary confidence", func(c *Config) { c.SecondaryMinConfidence = -0.1 }},
		{"zero image size", func(c *Config) { c.MaxImageSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfig_DefaultMode(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SecondaryFirst = true

	assert.Equal(t, entity.ModeSecondaryFirst, cfg.DefaultMode())
}
