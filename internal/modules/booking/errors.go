package booking

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("booking not found")
	ErrForbidden  = errors.New("forbidden")

	ErrDateUnavailable        = errors.New("service is not available for the selected date")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrNotApproved            = errors.New("booking must be approved before payment")
	ErrAlreadyPaid            = errors.New("advance payment already completed")
	ErrPaymentWindowExpired   = errors.New("payment time has expired")
	ErrNotPendingVerification = errors.New("payment is not pending verification")

	// ErrConcurrentModification means a concurrent transition won; retry
	// from a fresh read.
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	ErrPaymentIntentGeneration = errors.New("payment intent generation failed")

	ErrProviderUnavailable  = errors.New("payment provider is not configured")
	ErrPaymentCaptureFailed = errors.New("payment capture failed")
)
