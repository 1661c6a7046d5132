package usecase

import (
	"fmt"
	"time"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/domain/fusion"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// DefaultSecondaryTimeout はセカンダリ検出器の呼び出しタイムアウトです。
	DefaultSecondaryTimeout = 8 * time.Second
	// DefaultGateMinItems を下回るプライマリ件数ではセカンダリを呼びます。
	DefaultGateMinItems = 2
	// DefaultGateConfidence を全件が下回る場合もセカンダリを呼びます。
	DefaultGateConfidence = 0.6
	// DefaultSecondaryMinConfidence を下回る自己申告信頼度は低信頼として扱います。
	DefaultSecondaryMinConfidence = 0.5
)

// Config はオーケストレーターの動作設定です。
type Config struct {
	// EnsembleEnabled は primary-first モードでセカンダリ呼び出しを許可します。
	EnsembleEnabled bool `mapstructure:"ensemble_enabled"`
	// SecondaryFirst が true の場合、既定のモードを secondary-first にします。
	SecondaryFirst bool `mapstructure:"secondary_first"`

	SecondaryTimeout       time.Duration `mapstructure:"secondary_timeout"`
	SimilarityThreshold    float64       `mapstructure:"similarity_threshold"`
	FusionCap              int           `mapstructure:"fusion_cap"`
	GateMinItems           int           `mapstructure:"gate_min_items"`
	GateConfidence         float32       `mapstructure:"gate_confidence"`
	SecondaryMinConfidence float32       `mapstructure:"secondary_min_confidence"`
	MaxImageSize           int           `mapstructure:"max_image_size"`
}

// DefaultConfig は既定値で埋めた Config を返します。
func DefaultConfig() Config {
	return Config{
		EnsembleEnabled:        true,
		SecondaryFirst:         false,
		SecondaryTimeout:       DefaultSecondaryTimeout,
		SimilarityThreshold:    fusion.DefaultThreshold,
		FusionCap:              fusion.DefaultCap,
		GateMinItems:           DefaultGateMinItems,
		GateConfidence:         DefaultGateConfidence,
		SecondaryMinConfidence: DefaultSecondaryMinConfidence,
		MaxImageSize:           MaxImageSize,
	}
}

// Validate は範囲外の設定値を検出します。
func (c Config) Validate() error {
	switch {
	case c.SecondaryTimeout <= 0:
		return fmt.Errorf("%w: secondary_timeout must be positive, got %v", ErrInvalidConfig, c.SecondaryTimeout)
	case c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1:
		return fmt.Errorf("%w: similarity_threshold must be in (0, 1], got %v", ErrInvalidConfig, c.SimilarityThreshold)
	case c.FusionCap <= 0:
		return fmt.Errorf("%w: fusion_cap must be positive, got %d", ErrInvalidConfig, c.FusionCap)
	case c.GateMinItems < 0:
		return fmt.Errorf("%w: gate_min_items must not be negative, got %d", ErrInvalidConfig, c.GateMinItems)
	case c.GateConfidence < 0 || c.GateConfidence > 1:
		return fmt.Errorf("%w: gate_confidence must be in [0, 1], got %v", ErrInvalidConfig, c.GateConfidence)
	case c.SecondaryMinConfidence < 0 || c.SecondaryMinConfidence > 1:
		return fmt.Errorf("%w: secondary_min_confidence must be in [0, 1], got %v", ErrInvalidConfig, c.SecondaryMinConfidence)
	case c.MaxImageSize <= 0:
		return fmt.Errorf("%w: max_image_size must be positive, got %d", ErrInvalidConfig, c.MaxImageSize)
	}
	return nil
}

// DefaultMode は設定から既定のモードを返します。
func (c Config) DefaultMode() entity.Mode {
	if c.SecondaryFirst {
		return entity.ModeSecondaryFirst
	}
	return entity.ModePrimaryFirst
}

func (c Config) fusionOptions() fusion.Options {
	return fusion.Options{Threshold: c.SimilarityThreshold, Cap: c.FusionCap}
}
