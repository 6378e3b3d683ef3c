// Package entitlements exposes the plan gate service over HTTP: tier
// lookup, feature checks, create-quota checks, record partitioning,
// mutation authorization, ad unlocks and plan upgrades.
//
// Every route is tenant-scoped. The caller identifies the tenant with
// the X-Tenant-ID header, which the module's middleware validates and
// injects into the request context.
package entitlements
