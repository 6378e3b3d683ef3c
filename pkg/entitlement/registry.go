package entitlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
)

// CounterFunc returns the current usage for a tenant resource.
// Should be fast: cache or aggregate at repository level. The counter for
// sales must count the current calendar day only; all others count all-time.
type CounterFunc func(ctx context.Context, tenantID uuid.UUID) (int64, error)

// Registry maps a resource type to its CounterFunc.
// Not thread-safe: register all counters at startup only.
type Registry map[plan.Resource]CounterFunc

// NewRegistry returns a new, empty Registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Register sets or replaces the CounterFunc for the given resource. Panics if fn is nil.
func (r Registry) Register(res plan.Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("entitlement: CounterFunc for resource %q cannot be nil", res))
	}
	r[res] = fn
}
