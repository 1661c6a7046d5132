// Package telemetry turns detection results into logs and Prometheus metrics.
package telemetry

import (
	"context"
	"log/slog"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

// SlogRecorder logs one structured line per detection run.
type SlogRecorder struct {
	logger *slog.Logger
}

var _ usecase.Recorder = (*SlogRecorder)(nil)

// NewSlogRecorder creates a SlogRecorder. A nil logger uses slog.Default().
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogRecorder{logger: logger}
}

// Record logs the path taken and the diagnostics of res.
func (r *SlogRecorder) Record(ctx context.Context, res *entity.DetectionResult) {
	if res == nil {
		return
	}
	d := res.Diagnostics
	attrs := []any{
		"mode", d.Mode,
		"path", res.Path,
		"items", len(res.Items),
		"secondary_called", d.SecondaryCalled,
		"elapsed", d.Elapsed,
	}
	if d.Gate != "" {
		attrs = append(attrs, "gate", d.Gate, "primary_count", d.PrimaryCount, "secondary_count", d.SecondaryCount)
	}
	if d.SecondaryOutcome != "" {
		attrs = append(attrs, "secondary_outcome", d.SecondaryOutcome)
	}
	if d.FallbackCalled {
		attrs = append(attrs,
			"fallback_error", d.FallbackError,
			"pre_filter", d.PreFilterCount,
			"post_filter", d.PostFilterCount,
		)
	}
	if d.SecondaryError != "" {
		attrs = append(attrs, "secondary_error", d.SecondaryError)
	}
	r.logger.InfoContext(ctx, "meal detection completed", attrs...)
}

// MultiRecorder fans a result out to several recorders in order.
type MultiRecorder []usecase.Recorder

var _ usecase.Recorder = MultiRecorder(nil)

// Record forwards res to every non-nil recorder.
func (m MultiRecorder) Record(ctx context.Context, res *entity.DetectionResult) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, res)
		}
	}
}
