package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for subscription persistence.
type Store interface {
	// Get retrieves a subscription by tenant ID.
	// Returns ErrNotFound if no subscription exists.
	Get(ctx context.Context, tenantID uuid.UUID) (*Record, error)

	// Save creates or updates a subscription, keyed by TenantID.
	Save(ctx context.Context, record *Record) error
}
