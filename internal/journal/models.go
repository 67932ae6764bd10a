package journal

import "time"

// Run is one recorded invocation of the matcher batch.
type Run struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      *time.Time
	HistoryFile     string
	ManifestFile    string
	MaxDeltaSeconds int64
	EventsTotal     int
	EventsMatched   int
}

// Match is one positively matched event within a run. HasCoordinate is false
// when the nearest record carried no usable position; latitude and longitude
// are then meaningless.
type Match struct {
	EventID       string
	Latitude      float64
	Longitude     float64
	HasCoordinate bool
	DeltaSeconds  int64
}
