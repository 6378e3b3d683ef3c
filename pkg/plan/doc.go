// Package plan defines the subscription tiers of the application and the
// static catalog mapping each tier to its resource quotas and feature flags.
//
// The catalog is a pure lookup table: LimitsFor is total and never errors.
// Quotas are a small sum type (finite count or unlimited) so that unlimited
// never participates in arithmetic. The table is validated on load to be
// monotonically non-decreasing across the tier order free < basic < premium:
// a higher tier never grants less than a lower one.
//
// Basic usage:
//
//	catalog := plan.NewCatalog()
//	limits := catalog.LimitsFor(plan.TierBasic)
//	if q, ok := limits.QuotaFor(plan.ResourceRecipes); ok && q.Allows(count) {
//	    // create the recipe
//	}
//
// Deployments can override the built-in table with a YAML file:
//
//	catalog, err := plan.NewCatalogFromSource(ctx, plan.NewYAMLSource("plans.yml"))
package plan
