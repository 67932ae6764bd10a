package history

import "time"

// e7Scale converts the fixed-point E7 coordinates used by Takeout exports to
// decimal degrees.
const e7Scale = 1e7

// RawRecord is one reference sample as handed over by a decoder, before
// normalization. TimestampMS must be present; the E7 coordinate fields are
// optional and stay nil when the source record lacked a precise fix.
type RawRecord struct {
	TimestampMS *int64
	LatitudeE7  *int64
	LongitudeE7 *int64
}

// LocationRecord is a normalized reference sample. HasCoordinate reports
// whether Latitude and Longitude carry a usable position; records without one
// are still indexed by timestamp.
type LocationRecord struct {
	TimestampMS   int64
	Latitude      float64
	Longitude     float64
	HasCoordinate bool
}

// Time returns the record timestamp as UTC wall time.
func (r LocationRecord) Time() time.Time {
	return time.UnixMilli(r.TimestampMS).UTC()
}
