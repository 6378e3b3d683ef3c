package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/subscription"
)

// Resolver builds a tenant Context from the subscription store and the
// plan catalog.
type Resolver struct {
	subs    subscription.Store
	catalog *plan.Catalog
	now     func() time.Time
}

// NewResolver creates a Resolver. Panics if either dependency is nil to
// fail fast during initialization.
func NewResolver(subs subscription.Store, catalog *plan.Catalog) *Resolver {
	if subs == nil {
		panic("tenant: subscription store is required")
	}
	if catalog == nil {
		panic("tenant: plan catalog is required")
	}
	return &Resolver{subs: subs, catalog: catalog, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	if now != nil {
		r.now = now
	}
	return r
}

// Resolve derives the tenant's effective context at the current time.
//
// A missing subscription record is normal (tenants start on free) and
// resolves to the free context. Any other store failure also fails closed
// to free but is reported to the caller alongside the usable context.
func (r *Resolver) Resolve(ctx context.Context, tenantID uuid.UUID) (Context, error) {
	record, err := r.subs.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return Free(tenantID, r.catalog), nil
		}
		return Free(tenantID, r.catalog), err
	}

	tier := subscription.EffectiveTier(record, r.now().UTC())
	return Context{
		TenantID: tenantID,
		Tier:     tier,
		Limits:   r.catalog.LimitsFor(tier),
	}, nil
}
