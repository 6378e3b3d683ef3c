package adbonus

import (
	"time"

	"github.com/google/uuid"
)

// UnlockWindow is how long a single ad watch keeps a category unlocked.
// Watching again restarts the window from the new watch; windows never stack.
const UnlockWindow = 24 * time.Hour

// Category identifies what an ad watch temporarily unlocks.
type Category string

const (
	CategoryRecipes  Category = "recipes"
	CategoryProducts Category = "products"
	CategorySales    Category = "sales"
	CategoryReports  Category = "reports"
)

// Categories returns all unlockable categories.
func Categories() []Category {
	return []Category{CategoryRecipes, CategoryProducts, CategorySales, CategoryReports}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRecipes, CategoryProducts, CategorySales, CategoryReports:
		return true
	default:
		return false
	}
}

// Counter tracks one category's ad-watch history and unlock window.
//
// Bonus and AdsWatched are cumulative historical counters; entitlement math
// reads only UnlockedUntil. Bonus in particular does not add to any numeric
// quota anywhere in the system.
type Counter struct {
	Bonus         int
	AdsWatched    int
	UnlockedUntil *time.Time
}

// Unlocked reports whether the window is active at the given time.
// The boundary is strict: a window ending exactly at now has elapsed.
func (c Counter) Unlocked(now time.Time) bool {
	return c.UnlockedUntil != nil && now.Before(*c.UnlockedUntil)
}

// Ledger is a tenant's single ad-bonus row, created lazily on first read.
type Ledger struct {
	TenantID uuid.UUID

	Recipes  Counter
	Products Counter
	Sales    Counter
	Reports  Counter

	WatchedToday int
	LastAdAt     *time.Time
	UpdatedAt    time.Time
}

// NewLedger returns a zeroed ledger for a tenant, the well-defined default
// the store hands out when no row exists yet.
func NewLedger(tenantID uuid.UUID) *Ledger {
	return &Ledger{TenantID: tenantID}
}

func (l *Ledger) counter(c Category) *Counter {
	switch c {
	case CategoryRecipes:
		return &l.Recipes
	case CategoryProducts:
		return &l.Products
	case CategorySales:
		return &l.Sales
	case CategoryReports:
		return &l.Reports
	default:
		return nil
	}
}

// Watch records an ad watch for a category: the unlock window restarts at
// now+UnlockWindow and the cumulative counters increment. Returns
// ErrUnknownCategory for categories the ledger does not track.
func (l *Ledger) Watch(c Category, now time.Time) error {
	counter := l.counter(c)
	if counter == nil {
		return ErrUnknownCategory
	}

	until := now.Add(UnlockWindow)
	counter.UnlockedUntil = &until
	counter.AdsWatched++
	counter.Bonus++

	l.WatchedToday++
	l.LastAdAt = &now
	l.UpdatedAt = now

	return nil
}

// Unlocked reports whether the category's unlock window is active at now.
// Unknown categories are locked.
func (l *Ledger) Unlocked(c Category, now time.Time) bool {
	counter := l.counter(c)
	if counter == nil {
		return false
	}
	return counter.Unlocked(now)
}
