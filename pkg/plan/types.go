package plan

// Tier identifies a subscription plan tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// tierOrder defines the total order free < basic < premium used for
// feature implication and monotonicity checks.
var tierOrder = map[Tier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierOrder[t]
	return ok
}

// AtLeast reports whether t is equal to or above other in the tier order.
// Unknown tiers rank below free.
func (t Tier) AtLeast(other Tier) bool {
	return tierOrder[t] >= tierOrder[other]
}

// Tiers returns all known tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierFree, TierBasic, TierPremium}
}

// Resource represents a countable tenant resource type.
type Resource string

const (
	ResourceRecipes        Resource = "recipes"
	ResourceProducts       Resource = "products"
	ResourceSales          Resource = "sales"
	ResourceInventoryItems Resource = "inventory_items"
)

// Resources returns all countable resource types.
func Resources() []Resource {
	return []Resource{ResourceRecipes, ResourceProducts, ResourceSales, ResourceInventoryItems}
}

// Feature is a plan-specific capability that can be enabled per tier.
type Feature string

const (
	FeatureReports                Feature = "reports"
	FeatureProductionCenter       Feature = "production_center"
	FeatureLoyaltySystem          Feature = "loyalty_system"
	FeatureMarketplaceIntegration Feature = "marketplace_integration"
)

// Features returns all known feature flags.
func Features() []Feature {
	return []Feature{
		FeatureReports,
		FeatureProductionCenter,
		FeatureLoyaltySystem,
		FeatureMarketplaceIntegration,
	}
}
