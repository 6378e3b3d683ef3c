// Package adbonus implements the ad-unlock mechanic: watching an ad grants
// a tenant a 24-hour unlock window for one category (recipes, products,
// sales or reports) on top of the base plan.
//
// Each tenant has exactly one ledger row, created lazily on first read.
// A category is either locked (no active window) or unlocked (within the
// window); re-watching resets the window to 24h from the new watch rather
// than extending it. The per-category bonus counters are historical only
// and never feed into quota math.
//
// The WatchedToday counter is zeroed by an external daily scheduler calling
// Store.ResetDailyCounts; nothing in this package runs on a timer.
package adbonus
