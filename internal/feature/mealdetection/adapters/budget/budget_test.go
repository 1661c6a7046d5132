package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
	"meal_backend/internal/shared/ratelimiter"
)

type mockSecondaryDetector struct {
	detectFn func(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error)
	calls    int
}

func (m *mockSecondaryDetector) DetectSecondary(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error) {
	m.calls++
	return m.detectFn(ctx, imageData)
}

func TestBudgetedSecondaryDetector(t *testing.T) {
	t.Parallel()

	want := &entity.SecondaryDetection{Items: []entity.SecondaryItem{{Name: "rice"}}}
	inner := &mockSecondaryDetector{
		detectFn: func(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error) {
			return want, nil
		},
	}
	d := NewBudgetedSecondaryDetector(inner, ratelimiter.NewRateLimiter(2, time.Hour))

	for i := 0; i < 2; i++ {
		got, err := d.DetectSecondary(context.Background(), []byte("img"))
		require.NoError(t, err)
		assert.Same(t, want, got)
	}

	got, err := d.DetectSecondary(context.Background(), []byte("img"))
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, usecase.ErrSecondaryBudgetExhausted))
	assert.Equal(t, 2, inner.calls)
}

func TestBudgetedSecondaryDetector_NilLimiter(t *testing.T) {
	t.Parallel()

	inner := &mockSecondaryDetector{
		detectFn: func(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error) {
			return &entity.SecondaryDetection{}, nil
		},
	}
	d := NewBudgetedSecondaryDetector(inner, nil)

	for i := 0; i < 5; i++ {
		_, err := d.DetectSecondary(context.Background(), nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, inner.calls)
}
