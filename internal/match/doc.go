// Package match decides whether nearest-history lookups are usable for a
// given event.
//
// A Matcher wraps a shared history.Index and applies the caller's acceptance
// threshold: the nearest record is a match only when its time distance is
// strictly below the threshold, so a record exactly at the threshold age is
// already too stale. Misses are ordinary results; only an empty index is an
// error. Batches fan out over a bounded worker pool since the index tolerates
// any number of concurrent readers.
package match
