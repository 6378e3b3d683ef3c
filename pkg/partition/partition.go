package partition

import (
	"time"

	"github.com/confeitech/bakekit/pkg/plan"
)

// Result is the outcome of partitioning a record list: the allowed prefix a
// tenant may see and mutate, and the blocked remainder rendered read-only.
// Concatenating Allowed then Blocked reproduces the input order exactly.
type Result[T any] struct {
	Allowed []T
	Blocked []T
}

// IsBlocked reports whether any blocked record matches the predicate.
// Mutation gating recomputes the partition and calls this with an ID match
// before permitting an edit or delete.
func (r Result[T]) IsBlocked(match func(T) bool) bool {
	for _, rec := range r.Blocked {
		if match(rec) {
			return true
		}
	}
	return false
}

// Split partitions records into the quota-sized allowed prefix and the
// blocked remainder. The input order is trusted and preserved: which
// specific records end up blocked depends entirely on the caller's fetch
// order, which is part of the store contract.
func Split[T any](records []T, q plan.Quota) Result[T] {
	n := q.Prefix(len(records))
	return Result[T]{
		Allowed: records[:n:n],
		Blocked: records[n:],
	}
}

// SplitSales partitions a sales list with the layered rules: records are
// first divided into today's and past sales by UTC calendar day, the daily
// quota applies to today's slice, the sales-history quota to the past
// slice, and the two results are concatenated today-first.
//
// occurredAt extracts the sale timestamp. The list is expected newest-first
// (sale date descending), which makes today's sales a natural prefix, but
// the split itself works on any order.
func SplitSales[T any](records []T, occurredAt func(T) time.Time, limits plan.Limits, now time.Time) Result[T] {
	var today, past []T
	for _, rec := range records {
		if SameUTCDay(occurredAt(rec), now) {
			today = append(today, rec)
		} else {
			past = append(past, rec)
		}
	}

	todayPart := Split(today, limits.SalesPerDay)
	pastPart := Split(past, limits.SalesHistory)

	return Result[T]{
		Allowed: concat(todayPart.Allowed, pastPart.Allowed),
		Blocked: concat(todayPart.Blocked, pastPart.Blocked),
	}
}

// SameUTCDay reports whether two instants fall on the same UTC calendar
// day. This mirrors the ISO date-prefix comparison the stores use for the
// daily sales count; near-midnight off-by-one behavior in other timezones
// is a known, deliberate property of this boundary.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func concat[T any](a, b []T) []T {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
