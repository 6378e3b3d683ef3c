// Package realtime provides the subscribe-and-reload change notification
// hub used to keep screens fresh when another session mutates a tenant's
// records.
//
// The contract is intentionally weak: a Change says only "this tenant's
// resource list is stale, re-fetch it". There is no payload, no incremental
// merge and no ordering guarantee beyond "the last full reload wins".
// Unsubscribing stops callback delivery, which is the relevance guard that
// lets consumers discard in-flight results after navigating away.
//
// The Hub is in-process; deployments that need cross-node fan-out can front
// it with any transport that re-publishes into a local hub.
package realtime
