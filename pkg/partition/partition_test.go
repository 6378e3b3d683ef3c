package partition_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confeitech/bakekit/pkg/partition"
	"github.com/confeitech/bakekit/pkg/plan"
)

type sale struct {
	id   string
	date time.Time
}

func makeSales(prefix string, n int, start time.Time, step time.Duration) []sale {
	out := make([]sale, n)
	for i := range out {
		out[i] = sale{
			id:   fmt.Sprintf("%s-%d", prefix, i),
			date: start.Add(time.Duration(i) * step),
		}
	}
	return out
}

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("prefix law", func(t *testing.T) {
		t.Parallel()

		records := []string{"a", "b", "c", "d", "e"}

		for _, q := range []plan.Quota{
			plan.Limited(0), plan.Limited(2), plan.Limited(5), plan.Limited(9), plan.Unlimited(),
		} {
			result := partition.Split(records, q)

			// allowed ++ blocked reconstructs the input, order preserved.
			reassembled := append(append([]string{}, result.Allowed...), result.Blocked...)
			assert.Equal(t, records, reassembled, "quota %s", q)

			want := q.Prefix(len(records))
			assert.Len(t, result.Allowed, want, "quota %s", q)
			assert.Len(t, result.Blocked, len(records)-want, "quota %s", q)
		}
	})

	t.Run("no re-sorting", func(t *testing.T) {
		t.Parallel()

		records := []string{"z", "a", "m"}
		result := partition.Split(records, plan.Limited(2))

		assert.Equal(t, []string{"z", "a"}, result.Allowed)
		assert.Equal(t, []string{"m"}, result.Blocked)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		result := partition.Split([]string{}, plan.Limited(3))
		assert.Empty(t, result.Allowed)
		assert.Empty(t, result.Blocked)
	})
}

func TestSplitSales(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	catalog := plan.NewCatalog()

	t.Run("basic: daily quota on today, history cap on past", func(t *testing.T) {
		t.Parallel()

		// 5 today-sales and 30 past-sales under basic (daily 20, history 20):
		// all 5 today allowed; exactly 20 past allowed, 10 blocked.
		today := makeSales("today", 5, now.Add(-time.Hour), -time.Minute)
		past := makeSales("past", 30, now.Add(-48*time.Hour), -time.Hour)
		records := append(append([]sale{}, today...), past...)

		result := partition.SplitSales(records, func(s sale) time.Time { return s.date },
			catalog.LimitsFor(plan.TierBasic), now)

		require.Len(t, result.Allowed, 25)
		require.Len(t, result.Blocked, 10)

		assert.Equal(t, today, result.Allowed[:5])
		assert.Equal(t, past[:20], result.Allowed[5:])
		assert.Equal(t, past[20:], result.Blocked)
	})

	t.Run("free: one sale today, no history", func(t *testing.T) {
		t.Parallel()

		today := makeSales("today", 3, now.Add(-time.Hour), -time.Minute)
		past := makeSales("past", 4, now.Add(-30*time.Hour), -time.Hour)
		records := append(append([]sale{}, today...), past...)

		result := partition.SplitSales(records, func(s sale) time.Time { return s.date },
			catalog.LimitsFor(plan.TierFree), now)

		require.Len(t, result.Allowed, 1)
		assert.Equal(t, today[0], result.Allowed[0])

		// Two of today's plus all past sales are blocked.
		require.Len(t, result.Blocked, 6)
		assert.Equal(t, today[1:], result.Blocked[:2])
		assert.Equal(t, past, result.Blocked[2:])
	})

	t.Run("premium sees everything", func(t *testing.T) {
		t.Parallel()

		today := makeSales("today", 25, now.Add(-time.Hour), -time.Minute)
		past := makeSales("past", 100, now.Add(-48*time.Hour), -time.Hour)
		records := append(append([]sale{}, today...), past...)

		result := partition.SplitSales(records, func(s sale) time.Time { return s.date },
			catalog.LimitsFor(plan.TierPremium), now)

		assert.Len(t, result.Allowed, 125)
		assert.Empty(t, result.Blocked)
	})

	t.Run("day boundary is the UTC calendar day", func(t *testing.T) {
		t.Parallel()

		midnight := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		justBefore := sale{id: "before", date: midnight.Add(-time.Second)}
		justAfter := sale{id: "after", date: midnight.Add(time.Second)}

		result := partition.SplitSales([]sale{justAfter, justBefore},
			func(s sale) time.Time { return s.date },
			catalog.LimitsFor(plan.TierFree), now)

		// "after" is today's sale (allowed, quota 1); "before" is history (blocked).
		require.Len(t, result.Allowed, 1)
		assert.Equal(t, "after", result.Allowed[0].id)
		require.Len(t, result.Blocked, 1)
		assert.Equal(t, "before", result.Blocked[0].id)
	})
}

func TestSameUTCDay(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)

	assert.True(t, partition.SameUTCDay(base, base.Add(-23*time.Hour)))
	assert.False(t, partition.SameUTCDay(base, base.Add(time.Hour)))

	// Non-UTC instants are compared on their UTC day.
	offset := time.FixedZone("UTC+2", 2*3600)
	local := time.Date(2025, 6, 16, 1, 0, 0, 0, offset) // 23:00 UTC on the 15th
	assert.True(t, partition.SameUTCDay(base, local))
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	records := []string{"a", "b", "c"}
	result := partition.Split(records, plan.Limited(1))

	assert.True(t, result.IsBlocked(func(s string) bool { return s == "c" }))
	assert.False(t, result.IsBlocked(func(s string) bool { return s == "a" }))
}
