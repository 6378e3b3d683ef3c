// Package tenant defines the per-request tenant context: tenant identity,
// effective plan tier and the tier's limits, resolved once per request and
// passed explicitly to everything that gates on entitlements.
//
// Resolution fails closed: if the subscription record cannot be read, the
// tenant is treated as free. The resolver never upgrades on doubt.
package tenant
