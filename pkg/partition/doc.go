// Package partition splits a tenant's already-fetched record lists into
// allowed and blocked subsets relative to the tenant's current quotas.
//
// This is a separate enforcement point from the create-time quota check:
// it operates on data the screens have already loaded, so that records
// created under a higher tier become read-only (not deleted) after a
// downgrade or expiry. Blocking is positional, not time-based: the
// allowed set is always a prefix of the caller-supplied order, and the
// partitioner never re-sorts.
package partition
