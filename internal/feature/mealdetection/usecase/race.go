package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"meal_backend/internal/feature/mealdetection/domain/entity"
)

type secondaryCall struct {
	det *entity.SecondaryDetection
	err error
}

// raceSecondary runs the secondary detector against the configured timeout.
// Exactly one side settles the race: either the call delivers its result or
// the timer (or the caller's context) wins and the call's result, whenever it
// arrives, is dropped.
func (u *mealDetectionUsecase) raceSecondary(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, entity.SecondaryOutcome, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var settled atomic.Bool
	done := make(chan secondaryCall, 1)

	go func() {
		det, err := u.secondary.DetectSecondary(callCtx, imageData)
		if !settled.CompareAndSwap(false, true) {
			u.logger.Debug("late secondary result discarded", "error", err, "items", itemCount(det))
			return
		}
		done <- secondaryCall{det: det, err: err}
	}()

	timer := time.NewTimer(u.cfg.SecondaryTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return u.classify(r)
	case <-timer.C:
		if settled.CompareAndSwap(false, true) {
			return nil, entity.OutcomeTimeout, fmt.Errorf("%w after %v", ErrSecondaryTimeout, u.cfg.SecondaryTimeout)
		}
	case <-ctx.Done():
		if settled.CompareAndSwap(false, true) {
			return nil, entity.OutcomeError, ctx.Err()
		}
	}
	// the call settled between the timer firing and the guard
	return u.classify(<-done)
}

func (u *mealDetectionUsecase) classify(r secondaryCall) (*entity.SecondaryDetection, entity.SecondaryOutcome, error) {
	switch {
	case errors.Is(r.err, context.DeadlineExceeded):
		return r.det, entity.OutcomeTimeout, r.err
	case r.err != nil:
		return r.det, entity.OutcomeError, r.err
	case r.det == nil || len(r.det.Items) == 0:
		return r.det, entity.OutcomeEmpty, nil
	case r.det.Confidence > 0 && r.det.Confidence < u.cfg.SecondaryMinConfidence:
		return r.det, entity.OutcomeLowConfidence, nil
	}
	return r.det, entity.OutcomeSuccess, nil
}

func itemCount(det *entity.SecondaryDetection) int {
	if det == nil {
		return 0
	}
	return len(det.Items)
}
