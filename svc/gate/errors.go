package gate

import (
	"errors"

	"github.com/confeitech/bakekit/pkg/entitlement"
)

var (
	// ErrEntitlementDenied marks a mutation against a blocked record or an
	// exhausted quota. Callers surface an upgrade prompt for it, never a
	// retry prompt.
	ErrEntitlementDenied = errors.New("gate: entitlement denied")

	ErrInvalidResource = errors.New("gate: invalid resource type")
	ErrInvalidTier     = errors.New("gate: invalid target tier")
	ErrRecordNotFound  = errors.New("gate: record not found")
)

// IsEntitlementDenied reports whether err is an entitlement denial rather
// than an IO failure, covering both the gate's own denial and the engine's
// quota error.
func IsEntitlementDenied(err error) bool {
	return errors.Is(err, ErrEntitlementDenied) || errors.Is(err, entitlement.ErrQuotaExceeded)
}
