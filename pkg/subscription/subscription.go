package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
)

// Status represents the stored state of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Record is a tenant's stored subscription. Each tenant has exactly one,
// so TenantID serves as the primary key.
//
// ExpiresAt is nil for non-expiring grants. The stored Plan is never
// rewritten when the subscription lapses; demotion happens at read time
// via EffectiveTier.
type Record struct {
	TenantID  uuid.UUID
	Plan      plan.Tier
	ExpiresAt *time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the subscription has lapsed at the given time.
// Free never expires, and a nil expiry is a permanent grant. The boundary
// is strict: an expiry equal to now is not yet expired.
func (r *Record) Expired(now time.Time) bool {
	if r.Plan == plan.TierFree {
		return false
	}
	if r.ExpiresAt == nil {
		return false
	}
	return r.ExpiresAt.Before(now)
}

// EffectiveTier derives the tier actually in force at the given time.
// A lapsed paid subscription demotes fully to free; nothing is persisted.
// A nil record resolves to free so callers fail closed.
func EffectiveTier(r *Record, now time.Time) plan.Tier {
	if r == nil {
		return plan.TierFree
	}
	if r.Expired(now) {
		return plan.TierFree
	}
	if !r.Plan.Valid() {
		return plan.TierFree
	}
	return r.Plan
}
