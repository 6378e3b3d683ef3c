// Package gate composes the plan catalog, subscription state, entitlement
// engine, allocation partitioner and ad-bonus ledger into the single
// service the application's screens talk to.
//
// The contract mirrors how the screens use it: CanCreateMore runs before
// every create, Partition before every list render, AuthorizeMutation
// before every edit or delete, WatchAd and Upgrade on the corresponding
// user actions. Change notifications ride the realtime hub and only ever
// mean "re-fetch this list".
//
// Stores: PostgresStore (pgx) is the production implementation,
// MemoryStore backs tests and local development, and CountCache adds an
// optional Redis layer over the hot count queries.
package gate
