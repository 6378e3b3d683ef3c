package adbonus_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confeitech/bakekit/pkg/adbonus"
)

func TestLedgerWatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("watch unlocks for 24 hours", func(t *testing.T) {
		t.Parallel()

		ledger := adbonus.NewLedger(uuid.New())
		require.False(t, ledger.Unlocked(adbonus.CategoryRecipes, now))

		require.NoError(t, ledger.Watch(adbonus.CategoryRecipes, now))

		assert.True(t, ledger.Unlocked(adbonus.CategoryRecipes, now))
		assert.True(t, ledger.Unlocked(adbonus.CategoryRecipes, now.Add(24*time.Hour-time.Second)))
		assert.False(t, ledger.Unlocked(adbonus.CategoryRecipes, now.Add(24*time.Hour)))
	})

	t.Run("re-watching resets the window instead of stacking", func(t *testing.T) {
		t.Parallel()

		ledger := adbonus.NewLedger(uuid.New())
		require.NoError(t, ledger.Watch(adbonus.CategoryRecipes, now))
		require.NoError(t, ledger.Watch(adbonus.CategoryRecipes, now.Add(time.Hour)))

		// 24h from the second watch, not 48h from the first.
		wantUntil := now.Add(time.Hour).Add(24 * time.Hour)
		require.NotNil(t, ledger.Recipes.UnlockedUntil)
		assert.Equal(t, wantUntil, *ledger.Recipes.UnlockedUntil)

		assert.False(t, ledger.Unlocked(adbonus.CategoryRecipes, wantUntil))
		assert.True(t, ledger.Unlocked(adbonus.CategoryRecipes, wantUntil.Add(-time.Second)))
	})

	t.Run("counters accumulate and never decrement", func(t *testing.T) {
		t.Parallel()

		ledger := adbonus.NewLedger(uuid.New())
		require.NoError(t, ledger.Watch(adbonus.CategoryProducts, now))
		require.NoError(t, ledger.Watch(adbonus.CategoryProducts, now.Add(time.Hour)))
		require.NoError(t, ledger.Watch(adbonus.CategorySales, now.Add(2*time.Hour)))

		assert.Equal(t, 2, ledger.Products.AdsWatched)
		assert.Equal(t, 2, ledger.Products.Bonus)
		assert.Equal(t, 1, ledger.Sales.AdsWatched)
		assert.Equal(t, 3, ledger.WatchedToday)

		require.NotNil(t, ledger.LastAdAt)
		assert.Equal(t, now.Add(2*time.Hour), *ledger.LastAdAt)
	})

	t.Run("categories are independent", func(t *testing.T) {
		t.Parallel()

		ledger := adbonus.NewLedger(uuid.New())
		require.NoError(t, ledger.Watch(adbonus.CategoryReports, now))

		assert.True(t, ledger.Unlocked(adbonus.CategoryReports, now))
		assert.False(t, ledger.Unlocked(adbonus.CategoryRecipes, now))
		assert.False(t, ledger.Unlocked(adbonus.CategorySales, now))
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		ledger := adbonus.NewLedger(uuid.New())
		err := ledger.Watch(adbonus.Category("loyalty"), now)
		require.ErrorIs(t, err, adbonus.ErrUnknownCategory)
		assert.Zero(t, ledger.WatchedToday)

		assert.False(t, ledger.Unlocked(adbonus.Category("loyalty"), now))
	})
}
