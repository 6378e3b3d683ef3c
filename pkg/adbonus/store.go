package adbonus

import (
	"context"

	"github.com/google/uuid"
)

// Store defines ad-bonus ledger persistence. One row per tenant.
type Store interface {
	// GetOrCreate returns the tenant's ledger, creating a zeroed row on
	// first read. Implementations must treat creation as an upsert so
	// concurrent first reads cannot fail on a duplicate key.
	GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*Ledger, error)

	// Save persists the ledger, keyed by TenantID.
	Save(ctx context.Context, ledger *Ledger) error

	// ResetDailyCounts zeroes WatchedToday for every tenant. Invoked by the
	// external once-per-day scheduler job, not by anything in this module.
	ResetDailyCounts(ctx context.Context) error
}
