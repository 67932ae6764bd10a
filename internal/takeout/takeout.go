package takeout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"geomatch/internal/history"
)

type location struct {
	TimestampMS string `json:"timestampMs"`
	LatitudeE7  *int64 `json:"latitudeE7"`
	LongitudeE7 *int64 `json:"longitudeE7"`
}

type export struct {
	// Pointer so a present-but-empty array is distinguishable from a JSON
	// document that is not a location history export at all.
	Locations *[]location `json:"locations"`
}

// Decode reads a Takeout location history document and returns its records in
// export order. A document without a locations array, or a record whose
// timestampMs is present but not numeric, fails with history.ErrMalformedInput.
// Records missing timestampMs entirely pass through with a nil timestamp so
// history.Build can reject the batch as a whole.
func Decode(r io.Reader) ([]history.RawRecord, error) {
	var doc export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse location history: %w", err)
	}
	if doc.Locations == nil {
		return nil, fmt.Errorf("%w: no locations array in export", history.ErrMalformedInput)
	}

	records := make([]history.RawRecord, 0, len(*doc.Locations))
	for i, loc := range *doc.Locations {
		raw := history.RawRecord{
			LatitudeE7:  loc.LatitudeE7,
			LongitudeE7: loc.LongitudeE7,
		}
		if s := strings.TrimSpace(loc.TimestampMS); s != "" {
			ms, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: location %d has timestampMs %q", history.ErrMalformedInput, i, loc.TimestampMS)
			}
			raw.TimestampMS = &ms
		}
		records = append(records, raw)
	}
	return records, nil
}

// DecodeFile loads a location history export from disk.
func DecodeFile(path string) ([]history.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open location history: %w", err)
	}
	defer file.Close()
	return Decode(file)
}
