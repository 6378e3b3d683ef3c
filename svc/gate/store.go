package gate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/plan"
)

// Record is the minimal projection of a tenant resource the gate needs:
// identity plus the timestamps that drive ordering and the daily sales
// split. The full row stays with the owning CRUD module.
type Record struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	CreatedAt  time.Time
	OccurredAt time.Time // sale date for sales; equals CreatedAt otherwise
}

// DataStore is the gate's read-side view of the tenant's resource
// collections.
//
// FetchRecords must return records in the documented per-resource order;
// the partitioner trusts it, and changing it silently changes which
// records become blocked:
//
//   - recipes:         created_at descending
//   - products:        created_at descending
//   - inventory_items: name ascending
//   - sales:           sale date descending
type DataStore interface {
	// CountRecords returns how many records of a type the tenant has.
	// A non-nil since restricts the count to records occurring at or
	// after that instant (used for the daily sales quota).
	CountRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource, since *time.Time) (int64, error)

	// FetchRecords returns the tenant's full record list in the
	// per-resource order above.
	FetchRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource) ([]Record, error)
}

// Invalidator is optionally implemented by DataStore decorators that cache
// counts; the service calls it when a change notification goes out.
type Invalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID, res plan.Resource)
}
