package entitlement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confeitech/bakekit/pkg/entitlement"
	"github.com/confeitech/bakekit/pkg/plan"
)

func staticCounter(n int64) entitlement.CounterFunc {
	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		return n, nil
	}
}

func failingCounter(err error) entitlement.CounterFunc {
	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		return 0, err
	}
}

func newEngine(t *testing.T, counters entitlement.Registry) *entitlement.Engine {
	t.Helper()
	return entitlement.NewEngine(plan.NewCatalog(), counters)
}

func TestCanUseFeature(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, nil)

	t.Run("premium short-circuits to true for everything", func(t *testing.T) {
		t.Parallel()

		for _, f := range plan.Features() {
			assert.True(t, engine.CanUseFeature(plan.TierPremium, f))
		}
		// Even unknown keys: premium never consults the table.
		assert.True(t, engine.CanUseFeature(plan.TierPremium, plan.Feature("made_up")))
	})

	t.Run("boolean features follow the catalog", func(t *testing.T) {
		t.Parallel()

		assert.False(t, engine.CanUseFeature(plan.TierFree, plan.FeatureReports))
		assert.True(t, engine.CanUseFeature(plan.TierBasic, plan.FeatureReports))
		assert.False(t, engine.CanUseFeature(plan.TierBasic, plan.FeatureLoyaltySystem))
	})

	t.Run("resource keys answer quota non-zero", func(t *testing.T) {
		t.Parallel()

		assert.True(t, engine.CanUseFeature(plan.TierFree, plan.Feature(plan.ResourceRecipes)))
		// Free has a zero sales-history quota but recipes/products are 1.
		assert.True(t, engine.CanUseFeature(plan.TierBasic, plan.Feature(plan.ResourceInventoryItems)))
	})

	t.Run("unknown feature on non-premium is denied", func(t *testing.T) {
		t.Parallel()

		assert.False(t, engine.CanUseFeature(plan.TierBasic, plan.Feature("made_up")))
	})
}

func TestCanCreateMore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("boundary exactness on basic recipes", func(t *testing.T) {
		t.Parallel()

		// Basic allows 20 recipes: the 20th is allowed, the 21st is not.
		counters := entitlement.NewRegistry()
		counters.Register(plan.ResourceRecipes, staticCounter(19))
		engine := newEngine(t, counters)
		require.NoError(t, engine.CanCreateMore(ctx, plan.TierBasic, tenantID, plan.ResourceRecipes))

		counters = entitlement.NewRegistry()
		counters.Register(plan.ResourceRecipes, staticCounter(20))
		engine = newEngine(t, counters)
		err := engine.CanCreateMore(ctx, plan.TierBasic, tenantID, plan.ResourceRecipes)
		require.ErrorIs(t, err, entitlement.ErrQuotaExceeded)
	})

	t.Run("premium never counts", func(t *testing.T) {
		t.Parallel()

		// No counter registered at all: premium must not need one.
		engine := newEngine(t, nil)
		require.NoError(t, engine.CanCreateMore(ctx, plan.TierPremium, tenantID, plan.ResourceSales))
	})

	t.Run("unlimited quota skips the counter", func(t *testing.T) {
		t.Parallel()

		// Basic inventory is unlimited; the (failing) counter must not run.
		counters := entitlement.NewRegistry()
		counters.Register(plan.ResourceInventoryItems, failingCounter(errors.New("boom")))
		engine := newEngine(t, counters)
		require.NoError(t, engine.CanCreateMore(ctx, plan.TierBasic, tenantID, plan.ResourceInventoryItems))
	})

	t.Run("count failure is not a quota denial", func(t *testing.T) {
		t.Parallel()

		ioErr := errors.New("connection refused")
		counters := entitlement.NewRegistry()
		counters.Register(plan.ResourceProducts, failingCounter(ioErr))
		engine := newEngine(t, counters)

		err := engine.CanCreateMore(ctx, plan.TierFree, tenantID, plan.ResourceProducts)
		require.ErrorIs(t, err, entitlement.ErrFailedToCountUsage)
		require.ErrorIs(t, err, ioErr)
		assert.NotErrorIs(t, err, entitlement.ErrQuotaExceeded)
	})

	t.Run("unknown resource", func(t *testing.T) {
		t.Parallel()

		engine := newEngine(t, nil)
		err := engine.CanCreateMore(ctx, plan.TierFree, tenantID, plan.Resource("widgets"))
		require.ErrorIs(t, err, entitlement.ErrInvalidResource)
	})

	t.Run("missing counter", func(t *testing.T) {
		t.Parallel()

		engine := newEngine(t, nil)
		err := engine.CanCreateMore(ctx, plan.TierFree, tenantID, plan.ResourceRecipes)
		require.ErrorIs(t, err, entitlement.ErrNoCounterRegistered)
	})
}

func TestUsage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tenantID := uuid.New()

	counters := entitlement.NewRegistry()
	counters.Register(plan.ResourceRecipes, staticCounter(7))
	engine := newEngine(t, counters)

	used, quota, err := engine.Usage(ctx, plan.TierBasic, tenantID, plan.ResourceRecipes)
	require.NoError(t, err)
	assert.Equal(t, int64(7), used)

	n, finite := quota.Limit()
	require.True(t, finite)
	assert.Equal(t, int64(20), n)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("panics on nil counter", func(t *testing.T) {
		t.Parallel()

		registry := entitlement.NewRegistry()
		assert.Panics(t, func() {
			registry.Register(plan.ResourceRecipes, nil)
		})
	})

	t.Run("panics on nil catalog", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			entitlement.NewEngine(nil, nil)
		})
	})
}
