package gate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/adbonus"
	"github.com/confeitech/bakekit/pkg/entitlement"
	"github.com/confeitech/bakekit/pkg/partition"
	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/realtime"
	"github.com/confeitech/bakekit/pkg/subscription"
	"github.com/confeitech/bakekit/pkg/tenant"
)

// Service is the entitlement surface the CRUD screens consume: feature
// gates, create-time quota checks, display partitioning, mutation
// authorization, ad unlocks and plan upgrades.
//
// Every decision starts from the tenant's effective tier, resolved fresh
// per call and failing closed to free when the subscription record cannot
// be read.
type Service struct {
	catalog  *plan.Catalog
	engine   *entitlement.Engine
	resolver *tenant.Resolver
	subs     subscription.Store
	ledgers  adbonus.Store
	data     DataStore
	hub      *realtime.Hub
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHub sets the realtime hub used for change notifications.
func WithHub(hub *realtime.Hub) Option {
	return func(s *Service) {
		if hub != nil {
			s.hub = hub
		}
	}
}

// NewService creates a Service. Panics if any required dependency is nil
// to fail fast during initialization.
func NewService(catalog *plan.Catalog, subs subscription.Store, ledgers adbonus.Store, data DataStore, opts ...Option) *Service {
	if catalog == nil {
		panic("gate: plan catalog is required")
	}
	if subs == nil {
		panic("gate: subscription store is required")
	}
	if ledgers == nil {
		panic("gate: ad-bonus ledger store is required")
	}
	if data == nil {
		panic("gate: data store is required")
	}

	s := &Service{
		catalog:  catalog,
		resolver: tenant.NewResolver(subs, catalog),
		subs:     subs,
		ledgers:  ledgers,
		data:     data,
		hub:      realtime.NewHub(16),
		log:      slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.resolver.WithClock(s.now)

	counters := entitlement.NewRegistry()
	for _, res := range plan.Resources() {
		counters.Register(res, s.counterFor(res))
	}
	s.engine = entitlement.NewEngine(catalog, counters)

	return s
}

// counterFor builds the live usage counter for a resource. Sales count the
// current UTC calendar day only; everything else counts all-time.
func (s *Service) counterFor(res plan.Resource) entitlement.CounterFunc {
	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		var since *time.Time
		if res == plan.ResourceSales {
			dayStart := utcDayStart(s.now())
			since = &dayStart
		}
		return s.data.CountRecords(ctx, tenantID, res, since)
	}
}

func utcDayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// resolve derives the tenant context, failing closed to free on store
// errors. The error is logged, not propagated: a broken subscription fetch
// must restrict the tenant, never take the whole screen down.
func (s *Service) resolve(ctx context.Context, tenantID uuid.UUID) tenant.Context {
	tc, err := s.resolver.Resolve(ctx, tenantID)
	if err != nil {
		s.log.WarnContext(ctx, "subscription lookup failed, treating tenant as free",
			"tenant_id", tenantID, "error", err)
	}
	return tc
}

// EffectiveTier returns the tier currently in force for the tenant.
func (s *Service) EffectiveTier(ctx context.Context, tenantID uuid.UUID) plan.Tier {
	return s.resolve(ctx, tenantID).Tier
}

// CanUseFeature reports whether the tenant may use a feature right now,
// through either the plan or an active ad-unlock window for the feature's
// category. Any failure on the bonus path counts as locked.
func (s *Service) CanUseFeature(ctx context.Context, tenantID uuid.UUID, feature plan.Feature) bool {
	tc := s.resolve(ctx, tenantID)

	if s.engine.CanUseFeature(tc.Tier, feature) {
		return true
	}

	category, ok := featureCategory(feature)
	if !ok {
		return false
	}

	ledger, err := s.ledgers.GetOrCreate(ctx, tenantID)
	if err != nil {
		s.log.WarnContext(ctx, "ad ledger unavailable, treating category as locked",
			"tenant_id", tenantID, "category", category, "error", err)
		return false
	}

	return ledger.Unlocked(category, s.now().UTC())
}

// featureCategory maps a feature gate to its ad-unlock category.
func featureCategory(feature plan.Feature) (adbonus.Category, bool) {
	if feature == plan.FeatureReports {
		return adbonus.CategoryReports, true
	}
	return "", false
}

// CanCreateMore checks whether the tenant may create one more record of the
// resource type. Returns nil when allowed; entitlement denials satisfy
// IsEntitlementDenied, IO failures do not.
func (s *Service) CanCreateMore(ctx context.Context, tenantID uuid.UUID, res plan.Resource) error {
	tc := s.resolve(ctx, tenantID)
	return s.engine.CanCreateMore(ctx, tc.Tier, tenantID, res)
}

// Partition splits an already-fetched record list into the allowed prefix
// and the blocked remainder under the tenant's current limits. The caller
// supplies records in the store's documented order; the partition trusts it.
func (s *Service) Partition(ctx context.Context, tenantID uuid.UUID, res plan.Resource, records []Record) (partition.Result[Record], error) {
	tc := s.resolve(ctx, tenantID)
	return partitionRecords(records, tc.Limits, res, s.now())
}

func partitionRecords(records []Record, limits plan.Limits, res plan.Resource, now time.Time) (partition.Result[Record], error) {
	if res == plan.ResourceSales {
		return partition.SplitSales(records, func(r Record) time.Time { return r.OccurredAt }, limits, now), nil
	}

	q, ok := limits.QuotaFor(res)
	if !ok {
		return partition.Result[Record]{}, ErrInvalidResource
	}
	return partition.Split(records, q), nil
}

// PartitionView fetches the tenant's records from the data store and
// partitions them under the current limits. This is what list screens
// render from.
func (s *Service) PartitionView(ctx context.Context, tenantID uuid.UUID, res plan.Resource) (partition.Result[Record], error) {
	records, err := s.data.FetchRecords(ctx, tenantID, res)
	if err != nil {
		return partition.Result[Record]{}, err
	}

	tc := s.resolve(ctx, tenantID)
	return partitionRecords(records, tc.Limits, res, s.now())
}

// AuthorizeMutation decides whether an edit or delete may touch a specific
// record. The partition is re-derived from a fresh fetch so the decision
// reflects the current quota, not whatever the screen last rendered.
// Blocked records are rejected with ErrEntitlementDenied.
func (s *Service) AuthorizeMutation(ctx context.Context, tenantID uuid.UUID, res plan.Resource, recordID uuid.UUID) error {
	result, err := s.PartitionView(ctx, tenantID, res)
	if err != nil {
		return err
	}

	if result.IsBlocked(func(r Record) bool { return r.ID == recordID }) {
		return ErrEntitlementDenied
	}

	found := false
	for _, r := range result.Allowed {
		if r.ID == recordID {
			found = true
			break
		}
	}
	if !found {
		return ErrRecordNotFound
	}

	return nil
}

// WatchAd records an ad watch: the category unlocks for 24 hours from now
// (resetting, not stacking) and the historical counters increment.
func (s *Service) WatchAd(ctx context.Context, tenantID uuid.UUID, category adbonus.Category) error {
	if !category.Valid() {
		return adbonus.ErrUnknownCategory
	}

	ledger, err := s.ledgers.GetOrCreate(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := ledger.Watch(category, s.now().UTC()); err != nil {
		return err
	}

	return s.ledgers.Save(ctx, ledger)
}

// Upgrade moves the tenant onto a paid tier with a one-month expiry from
// now and an active status. The previous record, if any, is overwritten.
func (s *Service) Upgrade(ctx context.Context, tenantID uuid.UUID, target plan.Tier) error {
	if !target.Valid() || target == plan.TierFree {
		return ErrInvalidTier
	}

	now := s.now().UTC()
	expiresAt := now.AddDate(0, 1, 0)

	record, err := s.subs.Get(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, subscription.ErrNotFound) {
			return err
		}
		record = &subscription.Record{TenantID: tenantID, CreatedAt: now}
	}

	record.Plan = target
	record.ExpiresAt = &expiresAt
	record.Status = subscription.StatusActive
	record.UpdatedAt = now

	return s.subs.Save(ctx, record)
}

// ResetDailyAdCounts zeroes every tenant's watched-today counter. This is
// the entry point for the external once-per-day scheduler job; nothing in
// the service calls it on its own.
func (s *Service) ResetDailyAdCounts(ctx context.Context) error {
	return s.ledgers.ResetDailyCounts(ctx)
}

// Subscribe registers a change callback for one tenant's resource type.
func (s *Service) Subscribe(ctx context.Context, tenantID uuid.UUID, res plan.Resource, fn realtime.ChangeFunc) realtime.Unsubscribe {
	return s.hub.Subscribe(ctx, tenantID, res, fn)
}

// NotifyChanged publishes a change notification after a mutation, telling
// subscribed screens to re-fetch and cached counters to drop their entry.
func (s *Service) NotifyChanged(ctx context.Context, tenantID uuid.UUID, res plan.Resource) {
	if inv, ok := s.data.(Invalidator); ok {
		inv.Invalidate(ctx, tenantID, res)
	}
	s.hub.Publish(ctx, realtime.Change{TenantID: tenantID, Resource: res})
}

// Close shuts down the realtime hub.
func (s *Service) Close() {
	s.hub.Close()
}
