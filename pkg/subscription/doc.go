// Package subscription models a tenant's stored plan and derives the
// effective tier used for every entitlement decision.
//
// Expiry demotion is a read-time derivation: EffectiveTier never writes
// anything, and no background job rewrites the stored plan. Every caller
// that needs the tenant's tier calls EffectiveTier with the current time,
// which keeps the function pure and trivially testable with fixed clocks.
package subscription
