// Package store persists detection-run audit records.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

const (
	// DefaultListLimit is used when ListRecent receives a non-positive limit.
	DefaultListLimit = 20
	// MaxListLimit caps ListRecent.
	MaxListLimit = 100
)

// DetectionRunRepository is a GORM implementation of the detection-run audit log.
// It works against both PostgreSQL and SQLite.
type DetectionRunRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure DetectionRunRepository implements Recorder.
var _ usecase.Recorder = (*DetectionRunRepository)(nil)

// NewDetectionRunRepository creates a new instance of DetectionRunRepository.
func NewDetectionRunRepository(db *gorm.DB) *DetectionRunRepository {
	return &DetectionRunRepository{db: db, now: time.Now}
}

// Create persists a run, assigning an ID and timestamp when missing.
func (r *DetectionRunRepository) Create(ctx context.Context, run *entity.DetectionRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(DetectionRunModelFromEntity(run)).Error; err != nil {
		return fmt.Errorf("create detection run: %w", err)
	}
	return nil
}

// Record implements usecase.Recorder. Failures are logged and never reach the caller.
func (r *DetectionRunRepository) Record(ctx context.Context, res *entity.DetectionResult) {
	if res == nil {
		return
	}
	// リクエストのキャンセルに巻き込まれないよう、値だけ引き継ぐ
	if err := r.Create(context.WithoutCancel(ctx), entity.NewDetectionRun(res)); err != nil {
		slog.WarnContext(ctx, "failed to record detection run", "error", err)
	}
}

// ListRecent returns the most recent runs, newest first.
func (r *DetectionRunRepository) ListRecent(ctx context.Context, limit int) ([]*entity.DetectionRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	var models []DetectionRunModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list detection runs: %w", err)
	}

	runs := make([]*entity.DetectionRun, len(models))
	for i, m := range models {
		runs[i] = m.ToEntity()
	}
	return runs, nil
}
