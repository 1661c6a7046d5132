// Package budget limits how often the costly secondary detector may be called.
package budget

import (
	"context"
	"log/slog"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
	"meal_backend/internal/shared/ratelimiter"
)

// BudgetedSecondaryDetector decorates a SecondaryDetector with a call budget.
// When the budget is spent it fails fast with usecase.ErrSecondaryBudgetExhausted
// instead of waiting, so the orchestrator can fall back right away.
type BudgetedSecondaryDetector struct {
	inner   usecase.SecondaryDetector
	limiter ratelimiter.Limiter
}

var _ usecase.SecondaryDetector = (*BudgetedSecondaryDetector)(nil)

// NewBudgetedSecondaryDetector wraps inner. A nil limiter disables the budget.
func NewBudgetedSecondaryDetector(inner usecase.SecondaryDetector, limiter ratelimiter.Limiter) *BudgetedSecondaryDetector {
	return &BudgetedSecondaryDetector{inner: inner, limiter: limiter}
}

// DetectSecondary calls the wrapped detector if the budget allows it.
func (b *BudgetedSecondaryDetector) DetectSecondary(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error) {
	if b.limiter != nil && !b.limiter.Allow() {
		slog.WarnContext(ctx, "secondary detection budget exhausted")
		return nil, usecase.ErrSecondaryBudgetExhausted
	}
	return b.inner.DetectSecondary(ctx, imageData)
}
