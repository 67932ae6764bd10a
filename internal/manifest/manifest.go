package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"geomatch/internal/match"
)

// ErrMalformedManifest marks a manifest row that cannot be turned into an
// event. Reading is all-or-nothing.
var ErrMalformedManifest = errors.New("malformed event manifest")

// Read parses an event manifest. Rows beyond the first two columns are
// ignored so manifests carrying extra metadata columns still load.
func Read(r io.Reader) ([]match.Event, error) {
	// Strip a UTF-8 BOM if present; spreadsheet exports often prepend one.
	reader := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var events []match.Event
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
		}
		line++

		if line == 1 && isHeaderRow(row) {
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: row %d needs id and taken_at columns", ErrMalformedManifest, line)
		}

		id := strings.TrimSpace(row[0])
		if id == "" {
			return nil, fmt.Errorf("%w: row %d has an empty id", ErrMalformedManifest, line)
		}
		ms, err := parseTimestamp(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedManifest, line, err)
		}
		events = append(events, match.Event{ID: id, TimestampMS: ms})
	}
	return events, nil
}

// ReadFile loads an event manifest from disk.
func ReadFile(path string) ([]match.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event manifest: %w", err)
	}
	defer file.Close()
	return Read(file)
}

func isHeaderRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[0]), "id")
}

func parseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty taken_at")
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("taken_at %q is neither epoch milliseconds nor RFC 3339", value)
	}
	return ts.UnixMilli(), nil
}
