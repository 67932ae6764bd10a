package match

import "geomatch/internal/history"

// Event is one timestamped item awaiting a location. The ID is opaque here
// and only travels through to the outcome.
type Event struct {
	ID          string
	TimestampMS int64
}

// Result is the verdict for a single event. On a miss, Matched is false and
// Record is zero; DeltaSeconds still reports the distance to the nearest
// candidate.
type Result struct {
	Matched      bool
	Record       history.LocationRecord
	DeltaSeconds int64
}

// Matcher applies an acceptance threshold to nearest-history lookups against
// a shared immutable index.
type Matcher struct {
	index *history.Index
}

// New returns a Matcher querying the given index.
func New(index *history.Index) *Matcher {
	return &Matcher{index: index}
}

// Match locates the history record nearest to eventMS and accepts it when the
// distance is strictly below maxDeltaSeconds. A distance at or above the
// threshold is a miss, not an error; an empty index surfaces
// history.ErrEmptyIndex unchanged.
func (m *Matcher) Match(eventMS, maxDeltaSeconds int64) (Result, error) {
	record, delta, err := m.index.Nearest(eventMS)
	if err != nil {
		return Result{}, err
	}
	if delta >= maxDeltaSeconds {
		return Result{DeltaSeconds: delta}, nil
	}
	return Result{Matched: true, Record: record, DeltaSeconds: delta}, nil
}
