package subscription_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/confeitech/bakekit/pkg/plan"
	"github.com/confeitech/bakekit/pkg/subscription"
)

func TestEffectiveTier(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(30 * 24 * time.Hour)

	tests := []struct {
		name   string
		record *subscription.Record
		want   plan.Tier
	}{
		{
			name:   "nil record fails closed to free",
			record: nil,
			want:   plan.TierFree,
		},
		{
			name: "free tier ignores past expiry",
			record: &subscription.Record{
				TenantID:  uuid.New(),
				Plan:      plan.TierFree,
				ExpiresAt: &past,
			},
			want: plan.TierFree,
		},
		{
			name: "premium with nil expiry is a permanent grant",
			record: &subscription.Record{
				TenantID: uuid.New(),
				Plan:     plan.TierPremium,
				Status:   subscription.StatusActive,
			},
			want: plan.TierPremium,
		},
		{
			name: "premium expired one second ago demotes fully to free",
			record: &subscription.Record{
				TenantID:  uuid.New(),
				Plan:      plan.TierPremium,
				ExpiresAt: &past,
				Status:    subscription.StatusActive,
			},
			want: plan.TierFree,
		},
		{
			name: "basic with future expiry keeps its tier",
			record: &subscription.Record{
				TenantID:  uuid.New(),
				Plan:      plan.TierBasic,
				ExpiresAt: &future,
				Status:    subscription.StatusActive,
			},
			want: plan.TierBasic,
		},
		{
			name: "expiry exactly at now is not yet expired",
			record: &subscription.Record{
				TenantID:  uuid.New(),
				Plan:      plan.TierBasic,
				ExpiresAt: &now,
				Status:    subscription.StatusActive,
			},
			want: plan.TierBasic,
		},
		{
			name: "unknown stored tier resolves to free",
			record: &subscription.Record{
				TenantID: uuid.New(),
				Plan:     plan.Tier("platinum"),
			},
			want: plan.TierFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, subscription.EffectiveTier(tt.record, now))
		})
	}
}

func TestRecordExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("strict boundary", func(t *testing.T) {
		t.Parallel()

		rec := &subscription.Record{Plan: plan.TierPremium, ExpiresAt: &now}
		assert.False(t, rec.Expired(now))
		assert.True(t, rec.Expired(now.Add(time.Nanosecond)))
	})

	t.Run("derivation is pure", func(t *testing.T) {
		t.Parallel()

		past := now.Add(-time.Hour)
		rec := &subscription.Record{Plan: plan.TierPremium, ExpiresAt: &past, Status: subscription.StatusActive}

		_ = subscription.EffectiveTier(rec, now)

		// The stored record is untouched by the read-time demotion.
		assert.Equal(t, plan.TierPremium, rec.Plan)
		assert.Equal(t, subscription.StatusActive, rec.Status)
	})
}
