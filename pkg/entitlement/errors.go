package entitlement

import "errors"

var (
	// ErrQuotaExceeded is the entitlement denial: the caller should surface
	// an upgrade prompt, not a retry prompt. Keep it distinguishable from
	// the IO errors below.
	ErrQuotaExceeded = errors.New("entitlement: resource quota exceeded")

	ErrInvalidResource     = errors.New("entitlement: invalid resource type")
	ErrNoCounterRegistered = errors.New("entitlement: no usage counter registered for resource")
	ErrFailedToCountUsage  = errors.New("entitlement: failed to count resource usage")
)
