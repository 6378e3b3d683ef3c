package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
)

// Engine answers the two entitlement questions every screen asks before a
// write: may this tenant use a feature, and may it create one more record.
//
// The engine is a pure gate: it never writes and never retries. Counts are
// queried live through the registered counter funcs; the caller owns the
// (accepted) race between the check and the subsequent insert.
type Engine struct {
	catalog  *plan.Catalog
	counters Registry
}

// NewEngine creates an Engine. Panics if catalog is nil to fail fast during
// initialization. A nil registry is replaced with an empty one.
func NewEngine(catalog *plan.Catalog, counters Registry) *Engine {
	if catalog == nil {
		panic("entitlement: plan catalog is required")
	}
	if counters == nil {
		counters = NewRegistry()
	}
	return &Engine{catalog: catalog, counters: counters}
}

// CanUseFeature reports whether a feature is available on the given tier.
//
// Premium short-circuits to true without consulting the catalog, so a
// catalog typo can never lock a paying tenant out. For resource keys passed
// as features (a defensive path some callers use) the answer is whether the
// quota is non-zero.
func (e *Engine) CanUseFeature(tier plan.Tier, feature plan.Feature) bool {
	if tier == plan.TierPremium {
		return true
	}

	limits := e.catalog.LimitsFor(tier)

	if q, ok := limits.QuotaFor(plan.Resource(feature)); ok {
		return !q.IsZero()
	}

	return limits.FeatureEnabled(feature)
}

// CanCreateMore checks whether the tenant may create one more record of the
// given resource type. Returns nil when allowed, ErrQuotaExceeded when the
// quota is used up, or a joined error when the live count fails.
//
// The check is strict: with a limit of N the N-th record is allowed and the
// N+1-th is denied. For sales the registered counter is expected to be
// day-scoped; for every other resource it is the all-time count.
func (e *Engine) CanCreateMore(ctx context.Context, tier plan.Tier, tenantID uuid.UUID, res plan.Resource) error {
	if tier == plan.TierPremium {
		return nil
	}

	q, ok := e.catalog.LimitsFor(tier).QuotaFor(res)
	if !ok {
		return ErrInvalidResource
	}
	if q.IsUnlimited() {
		return nil
	}

	counter, ok := e.counters[res]
	if !ok {
		return ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID)
	if err != nil {
		return errors.Join(ErrFailedToCountUsage, err)
	}

	if !q.Allows(current) {
		return ErrQuotaExceeded
	}

	return nil
}

// Usage returns the current count and quota for a resource.
func (e *Engine) Usage(ctx context.Context, tier plan.Tier, tenantID uuid.UUID, res plan.Resource) (used int64, quota plan.Quota, err error) {
	q, ok := e.catalog.LimitsFor(tier).QuotaFor(res)
	if !ok {
		return 0, plan.Quota{}, ErrInvalidResource
	}

	counter, ok := e.counters[res]
	if !ok {
		return 0, plan.Quota{}, ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID)
	if err != nil {
		return 0, plan.Quota{}, errors.Join(ErrFailedToCountUsage, err)
	}

	return current, q, nil
}
