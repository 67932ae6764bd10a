package history

import (
	"fmt"
	"sort"
)

// Index holds location history sorted by timestamp and answers
// nearest-timestamp queries in O(log n). Build it once, then share it freely;
// all methods are read-only.
type Index struct {
	records    []LocationRecord
	timestamps []int64 // parallel to records, ascending
	byTime     map[int64]LocationRecord
}

// Build normalizes, sorts, and indexes raw records. A record without a
// timestamp fails the whole build with ErrMalformedInput; no partial index is
// produced. When several records share a timestamp, the one latest in input
// order is the one exact-timestamp lookups return.
func Build(raw []RawRecord) (*Index, error) {
	records := make([]LocationRecord, 0, len(raw))
	for i, r := range raw {
		if r.TimestampMS == nil {
			return nil, fmt.Errorf("%w: record %d has no timestamp", ErrMalformedInput, i)
		}
		rec := LocationRecord{TimestampMS: *r.TimestampMS}
		if r.LatitudeE7 != nil && r.LongitudeE7 != nil {
			rec.Latitude = float64(*r.LatitudeE7) / e7Scale
			rec.Longitude = float64(*r.LongitudeE7) / e7Scale
			rec.HasCoordinate = true
		}
		records = append(records, rec)
	}

	// Stable so records sharing a timestamp keep input order; the map build
	// below then lets later entries overwrite earlier ones.
	sort.SliceStable(records, func(a, b int) bool {
		return records[a].TimestampMS < records[b].TimestampMS
	})

	timestamps := make([]int64, len(records))
	byTime := make(map[int64]LocationRecord, len(records))
	for i, rec := range records {
		timestamps[i] = rec.TimestampMS
		byTime[rec.TimestampMS] = rec
	}

	return &Index{records: records, timestamps: timestamps, byTime: byTime}, nil
}

// Len reports the number of indexed records.
func (x *Index) Len() int {
	return len(x.records)
}

// Earliest returns the oldest record. ok is false when the index is empty.
func (x *Index) Earliest() (rec LocationRecord, ok bool) {
	if len(x.records) == 0 {
		return LocationRecord{}, false
	}
	return x.records[0], true
}

// Latest returns the newest record. ok is false when the index is empty.
func (x *Index) Latest() (rec LocationRecord, ok bool) {
	if len(x.records) == 0 {
		return LocationRecord{}, false
	}
	return x.records[len(x.records)-1], true
}

// Nearest returns the record whose timestamp is closest to ms, along with the
// absolute distance in whole seconds. The millisecond delta truncates toward
// zero when converted to seconds. An empty index yields ErrEmptyIndex.
func (x *Index) Nearest(ms int64) (LocationRecord, int64, error) {
	if len(x.timestamps) == 0 {
		return LocationRecord{}, 0, ErrEmptyIndex
	}

	// Leftmost insertion point. The nearest timestamp is bracketed by the
	// entries one to each side of it, so a three-wide window suffices.
	i := sort.Search(len(x.timestamps), func(j int) bool {
		return x.timestamps[j] >= ms
	})

	lo := max(i-1, 0)
	hi := min(i+1, len(x.timestamps)-1)

	best := x.timestamps[lo]
	for j := lo + 1; j <= hi; j++ {
		if absDelta(x.timestamps[j], ms) < absDelta(best, ms) {
			best = x.timestamps[j]
		}
	}

	return x.byTime[best], absDelta(best, ms) / 1000, nil
}

func absDelta(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
