package plan

import (
	"context"
	"errors"
	"fmt"
)

// Limits describes every cap and capability a tier grants.
//
// SalesHistory caps how many past-day sales remain visible; it sits in the
// catalog rather than in the partitioning code so it participates in the
// same monotonicity guarantee as every other field.
type Limits struct {
	Recipes        Quota `yaml:"recipes"`
	Products       Quota `yaml:"products"`
	SalesPerDay    Quota `yaml:"sales_per_day"`
	SalesHistory   Quota `yaml:"sales_history"`
	InventoryItems Quota `yaml:"inventory_items"`

	Reports                bool `yaml:"has_reports"`
	ProductionCenter       bool `yaml:"has_production_center"`
	LoyaltySystem          bool `yaml:"has_loyalty_system"`
	MarketplaceIntegration bool `yaml:"has_marketplace_integration"`
}

// QuotaFor returns the quota governing a resource type. The sales resource
// maps to the daily cap.
func (l Limits) QuotaFor(res Resource) (Quota, bool) {
	switch res {
	case ResourceRecipes:
		return l.Recipes, true
	case ResourceProducts:
		return l.Products, true
	case ResourceSales:
		return l.SalesPerDay, true
	case ResourceInventoryItems:
		return l.InventoryItems, true
	default:
		return Quota{}, false
	}
}

// FeatureEnabled reports whether a boolean feature flag is set.
func (l Limits) FeatureEnabled(f Feature) bool {
	switch f {
	case FeatureReports:
		return l.Reports
	case FeatureProductionCenter:
		return l.ProductionCenter
	case FeatureLoyaltySystem:
		return l.LoyaltySystem
	case FeatureMarketplaceIntegration:
		return l.MarketplaceIntegration
	default:
		return false
	}
}

// DefaultLimits returns the built-in catalog table.
func DefaultLimits() map[Tier]Limits {
	return map[Tier]Limits{
		TierFree: {
			Recipes:        Limited(1),
			Products:       Limited(1),
			SalesPerDay:    Limited(1),
			SalesHistory:   Limited(0),
			InventoryItems: Limited(50),
		},
		TierBasic: {
			Recipes:        Limited(20),
			Products:       Limited(20),
			SalesPerDay:    Limited(20),
			SalesHistory:   Limited(20),
			InventoryItems: Unlimited(),
			Reports:        true,
		},
		TierPremium: {
			Recipes:                Unlimited(),
			Products:               Unlimited(),
			SalesPerDay:            Unlimited(),
			SalesHistory:           Unlimited(),
			InventoryItems:         Unlimited(),
			Reports:                true,
			ProductionCenter:       true,
			LoyaltySystem:          true,
			MarketplaceIntegration: true,
		},
	}
}

// Catalog is the static tier -> limits lookup table.
// Immutable after construction, safe for concurrent use.
type Catalog struct {
	limits map[Tier]Limits
}

// NewCatalog builds a catalog with the built-in limits table.
func NewCatalog() *Catalog {
	c, err := NewCatalogFromSource(context.Background(), NewInMemSource(DefaultLimits()))
	if err != nil {
		// The built-in table always validates; reaching this is a programming error.
		panic(err)
	}
	return c
}

// NewCatalogFromSource loads and validates the limits table from a Source.
func NewCatalogFromSource(ctx context.Context, src Source) (*Catalog, error) {
	limits, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	if err := validateLimits(limits); err != nil {
		return nil, err
	}

	return &Catalog{limits: limits}, nil
}

// LimitsFor returns the limits for a tier. The function is total: unknown
// tiers resolve to the free (most restrictive) limits.
func (c *Catalog) LimitsFor(tier Tier) Limits {
	if l, ok := c.limits[tier]; ok {
		return l
	}
	return c.limits[TierFree]
}

// validateLimits checks that all tiers are present and that every field is
// monotonically non-decreasing across the tier order.
func validateLimits(limits map[Tier]Limits) error {
	for _, tier := range Tiers() {
		if _, ok := limits[tier]; !ok {
			return errors.Join(ErrInvalidCatalog, fmt.Errorf("missing tier %q", tier))
		}
	}

	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		lower, higher := limits[tiers[i-1]], limits[tiers[i]]

		quotaChecks := []struct {
			name          string
			lower, higher Quota
		}{
			{"recipes", lower.Recipes, higher.Recipes},
			{"products", lower.Products, higher.Products},
			{"sales_per_day", lower.SalesPerDay, higher.SalesPerDay},
			{"sales_history", lower.SalesHistory, higher.SalesHistory},
			{"inventory_items", lower.InventoryItems, higher.InventoryItems},
		}
		for _, check := range quotaChecks {
			if !check.higher.AtLeast(check.lower) {
				return errors.Join(ErrInvalidCatalog, fmt.Errorf(
					"%s decreases from %s (%s) to %s (%s)",
					check.name, tiers[i-1], check.lower, tiers[i], check.higher))
			}
		}

		for _, f := range Features() {
			if lower.FeatureEnabled(f) && !higher.FeatureEnabled(f) {
				return errors.Join(ErrInvalidCatalog, fmt.Errorf(
					"feature %q enabled on %s but disabled on %s", f, tiers[i-1], tiers[i]))
			}
		}
	}

	return nil
}
