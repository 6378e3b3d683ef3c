package gate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/confeitech/bakekit/pkg/adbonus"
	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/subscription"
)

// MemoryStore is an in-memory implementation of DataStore,
// subscription.Store and adbonus.Store for tests and local development.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]map[plan.Resource][]Record
	subs    map[uuid.UUID]subscription.Record
	ledgers map[uuid.UUID]adbonus.Ledger
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]map[plan.Resource][]Record),
		subs:    make(map[uuid.UUID]subscription.Record),
		ledgers: make(map[uuid.UUID]adbonus.Ledger),
	}
}

// AddRecord stores a record for a tenant. A zero OccurredAt defaults to
// CreatedAt, and a zero ID is generated.
func (m *MemoryStore) AddRecord(tenantID uuid.UUID, res plan.Resource, rec Record) Record {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.TenantID = tenantID
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = rec.CreatedAt
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records[tenantID] == nil {
		m.records[tenantID] = make(map[plan.Resource][]Record)
	}
	m.records[tenantID][res] = append(m.records[tenantID][res], rec)
	return rec
}

// CountRecords implements DataStore.
func (m *MemoryStore) CountRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource, since *time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, rec := range m.records[tenantID][res] {
		if since != nil && rec.OccurredAt.Before(*since) {
			continue
		}
		count++
	}
	return count, nil
}

// FetchRecords implements DataStore, applying the documented per-resource
// order: recipes/products by creation descending, inventory by name
// ascending, sales by sale date descending.
func (m *MemoryStore) FetchRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource) ([]Record, error) {
	m.mu.RLock()
	records := append([]Record(nil), m.records[tenantID][res]...)
	m.mu.RUnlock()

	switch res {
	case plan.ResourceInventoryItems:
		sort.SliceStable(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	case plan.ResourceSales:
		sort.SliceStable(records, func(i, j int) bool { return records[i].OccurredAt.After(records[j].OccurredAt) })
	default:
		sort.SliceStable(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	}
	return records, nil
}

// Subscriptions returns the subscription.Store view of the store.
func (m *MemoryStore) Subscriptions() subscription.Store {
	return &memorySubscriptions{m}
}

// Ledgers returns the adbonus.Store view of the store.
func (m *MemoryStore) Ledgers() adbonus.Store {
	return &memoryLedgers{m}
}

type memorySubscriptions struct{ *MemoryStore }

func (m *memorySubscriptions) Get(ctx context.Context, tenantID uuid.UUID) (*subscription.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.subs[tenantID]
	if !ok {
		return nil, subscription.ErrNotFound
	}
	return &rec, nil
}

func (m *memorySubscriptions) Save(ctx context.Context, record *subscription.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[record.TenantID] = *record
	return nil
}

type memoryLedgers struct{ *MemoryStore }

func (m *memoryLedgers) GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*adbonus.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ledger, ok := m.ledgers[tenantID]; ok {
		return &ledger, nil
	}

	ledger := *adbonus.NewLedger(tenantID)
	m.ledgers[tenantID] = ledger
	return &ledger, nil
}

func (m *memoryLedgers) Save(ctx context.Context, ledger *adbonus.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ledgers[ledger.TenantID] = *ledger
	return nil
}

func (m *memoryLedgers) ResetDailyCounts(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ledger := range m.ledgers {
		ledger.WatchedToday = 0
		m.ledgers[id] = ledger
	}
	return nil
}
