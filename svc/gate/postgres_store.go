package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/confeitech/bakekit/pkg/adbonus"
	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/subscription"
)

// resourceTable describes where a resource type lives and how it is
// ordered. The order column is part of the external contract: the
// partitioner blocks the suffix of exactly this ordering.
type resourceTable struct {
	table   string
	timeCol string
	orderBy string
}

var resourceTables = map[plan.Resource]resourceTable{
	plan.ResourceRecipes:        {table: "recipes", timeCol: "created_at", orderBy: "created_at DESC, id"},
	plan.ResourceProducts:       {table: "products", timeCol: "created_at", orderBy: "created_at DESC, id"},
	plan.ResourceInventoryItems: {table: "inventory_items", timeCol: "created_at", orderBy: "name ASC, id"},
	plan.ResourceSales:          {table: "sales", timeCol: "sale_date", orderBy: "sale_date DESC, id"},
}

// PostgresStore implements DataStore against the application schema and
// exposes subscription and ad-ledger store views over the same pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore. Panics if pool is nil.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("gate: pgx pool is required")
	}
	return &PostgresStore{pool: pool}
}

// CountRecords implements DataStore.
func (s *PostgresStore) CountRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource, since *time.Time) (int64, error) {
	rt, ok := resourceTables[res]
	if !ok {
		return 0, ErrInvalidResource
	}

	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE tenant_id = $1`, rt.table)
	args := []any{tenantID}
	if since != nil {
		query += fmt.Sprintf(` AND %s >= $2`, rt.timeCol)
		args = append(args, *since)
	}

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// FetchRecords implements DataStore with the documented per-resource order.
func (s *PostgresStore) FetchRecords(ctx context.Context, tenantID uuid.UUID, res plan.Resource) ([]Record, error) {
	rt, ok := resourceTables[res]
	if !ok {
		return nil, ErrInvalidResource
	}

	query := fmt.Sprintf(
		`SELECT id, tenant_id, name, created_at, %s FROM %s WHERE tenant_id = $1 ORDER BY %s`,
		rt.timeCol, rt.table, rt.orderBy)

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.Name, &rec.CreatedAt, &rec.OccurredAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Subscriptions returns the subscription.Store view of the store.
func (s *PostgresStore) Subscriptions() subscription.Store {
	return &pgSubscriptions{pool: s.pool}
}

// Ledgers returns the adbonus.Store view of the store.
func (s *PostgresStore) Ledgers() adbonus.Store {
	return &pgLedgers{pool: s.pool}
}

type pgSubscriptions struct {
	pool *pgxpool.Pool
}

func (s *pgSubscriptions) Get(ctx context.Context, tenantID uuid.UUID) (*subscription.Record, error) {
	const query = `
		SELECT tenant_id, plan, expires_at, status, created_at, updated_at
		FROM subscriptions WHERE tenant_id = $1`

	var rec subscription.Record
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(
		&rec.TenantID, &rec.Plan, &rec.ExpiresAt, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *pgSubscriptions) Save(ctx context.Context, record *subscription.Record) error {
	const query = `
		INSERT INTO subscriptions (tenant_id, plan, expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			expires_at = EXCLUDED.expires_at,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		record.TenantID, record.Plan, record.ExpiresAt, record.Status, record.CreatedAt, record.UpdatedAt)
	return err
}

type pgLedgers struct {
	pool *pgxpool.Pool
}

const ledgerColumns = `
	tenant_id,
	recipes_bonus, recipes_ads_watched, recipes_unlocked_until,
	products_bonus, products_ads_watched, products_unlocked_until,
	sales_bonus, sales_ads_watched, sales_unlocked_until,
	reports_bonus, reports_ads_watched, reports_unlocked_until,
	watched_today, last_ad_at, updated_at`

func (s *pgLedgers) GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*adbonus.Ledger, error) {
	// Upsert-on-read: the no-op insert makes concurrent first reads safe.
	const insert = `INSERT INTO ad_ledgers (tenant_id) VALUES ($1) ON CONFLICT (tenant_id) DO NOTHING`
	if _, err := s.pool.Exec(ctx, insert, tenantID); err != nil {
		return nil, err
	}

	query := `SELECT ` + ledgerColumns + ` FROM ad_ledgers WHERE tenant_id = $1`

	var l adbonus.Ledger
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(
		&l.TenantID,
		&l.Recipes.Bonus, &l.Recipes.AdsWatched, &l.Recipes.UnlockedUntil,
		&l.Products.Bonus, &l.Products.AdsWatched, &l.Products.UnlockedUntil,
		&l.Sales.Bonus, &l.Sales.AdsWatched, &l.Sales.UnlockedUntil,
		&l.Reports.Bonus, &l.Reports.AdsWatched, &l.Reports.UnlockedUntil,
		&l.WatchedToday, &l.LastAdAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, adbonus.ErrLedgerNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *pgLedgers) Save(ctx context.Context, ledger *adbonus.Ledger) error {
	const query = `
		INSERT INTO ad_ledgers (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (tenant_id) DO UPDATE SET
			recipes_bonus = EXCLUDED.recipes_bonus,
			recipes_ads_watched = EXCLUDED.recipes_ads_watched,
			recipes_unlocked_until = EXCLUDED.recipes_unlocked_until,
			products_bonus = EXCLUDED.products_bonus,
			products_ads_watched = EXCLUDED.products_ads_watched,
			products_unlocked_until = EXCLUDED.products_unlocked_until,
			sales_bonus = EXCLUDED.sales_bonus,
			sales_ads_watched = EXCLUDED.sales_ads_watched,
			sales_unlocked_until = EXCLUDED.sales_unlocked_until,
			reports_bonus = EXCLUDED.reports_bonus,
			reports_ads_watched = EXCLUDED.reports_ads_watched,
			reports_unlocked_until = EXCLUDED.reports_unlocked_until,
			watched_today = EXCLUDED.watched_today,
			last_ad_at = EXCLUDED.last_ad_at,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		ledger.TenantID,
		ledger.Recipes.Bonus, ledger.Recipes.AdsWatched, ledger.Recipes.UnlockedUntil,
		ledger.Products.Bonus, ledger.Products.AdsWatched, ledger.Products.UnlockedUntil,
		ledger.Sales.Bonus, ledger.Sales.AdsWatched, ledger.Sales.UnlockedUntil,
		ledger.Reports.Bonus, ledger.Reports.AdsWatched, ledger.Reports.UnlockedUntil,
		ledger.WatchedToday, ledger.LastAdAt, ledger.UpdatedAt)
	return err
}

func (s *pgLedgers) ResetDailyCounts(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `UPDATE ad_ledgers SET watched_today = 0, updated_at = now()`)
	return err
}
