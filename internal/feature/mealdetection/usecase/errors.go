package usecase

import "errors"

var (
	// ErrEmptyImage is returned when the uploaded image has no bytes.
	ErrEmptyImage = errors.New("image data is empty")

	// ErrImageTooLarge is returned when the uploaded image exceeds Config.MaxImageSize.
	ErrImageTooLarge = errors.New("image size exceeds maximum")

	// ErrInvalidMode is returned for a mode override that names no known pipeline.
	ErrInvalidMode = errors.New("invalid detection mode")

	// ErrPrimaryDetection wraps a primary detector failure in primary-first mode.
	// It is the only detector failure that reaches the caller.
	ErrPrimaryDetection = errors.New("primary detection failed")

	// ErrSecondaryTimeout is recorded when the secondary detector loses the race
	// against the configured timeout.
	ErrSecondaryTimeout = errors.New("secondary detection timed out")

	// ErrSecondaryBudgetExhausted is returned by budget-limited secondary
	// detectors when no call budget is left. It degrades like any other
	// secondary failure.
	ErrSecondaryBudgetExhausted = errors.New("secondary detection budget exhausted")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid detection config")
)
