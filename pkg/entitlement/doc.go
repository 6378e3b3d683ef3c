// Package entitlement implements the feature-gate and quota checks that run
// before every create in the application.
//
// The engine consumes the plan catalog plus live resource counts supplied by
// registered CounterFunc implementations. It is deliberately side-effect
// free: a denied check returns ErrQuotaExceeded rather than panicking or
// writing anything, and IO failures from counters are joined so callers can
// tell "over quota" apart from "store unavailable".
//
//	counters := entitlement.NewRegistry()
//	counters.Register(plan.ResourceRecipes, recipeCounter)
//
//	engine := entitlement.NewEngine(plan.NewCatalog(), counters)
//	if err := engine.CanCreateMore(ctx, tier, tenantID, plan.ResourceRecipes); err != nil {
//	    // errors.Is(err, entitlement.ErrQuotaExceeded) -> show upgrade prompt
//	}
package entitlement
