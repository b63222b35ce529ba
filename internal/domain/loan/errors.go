package loan

import "errors"

var (
	ErrNotFound = errors.New("loan not found")

	// Gating failures. Recoverable by user action, never bypassed silently.
	ErrPlanRequired = errors.New("no active subscription plan")
	ErrPlanExpired  = errors.New("subscription plan expired")

	// The operator was shown a fraud warning and declined to proceed.
	ErrFraudDeclined = errors.New("creation cancelled after fraud warning")

	ErrInvalidTransition = errors.New("invalid loan state transition")

	// Local copy disagrees with server state; caller should refresh the
	// entity instead of retrying blindly.
	ErrStale = errors.New("loan state is stale")
)
