package tenant

import (
	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
)

// Context carries everything a request handler needs to make entitlement
// decisions for one tenant: who they are, the tier actually in force after
// expiry demotion, and that tier's limits.
//
// It is threaded explicitly through calls instead of living in ambient
// global state, so the entitlement functions stay testable in isolation.
type Context struct {
	TenantID uuid.UUID
	Tier     plan.Tier
	Limits   plan.Limits
}

// Free returns the most restrictive context for a tenant, used when the
// subscription record cannot be resolved (fail closed, never open).
func Free(tenantID uuid.UUID, catalog *plan.Catalog) Context {
	return Context{
		TenantID: tenantID,
		Tier:     plan.TierFree,
		Limits:   catalog.LimitsFor(plan.TierFree),
	}
}
