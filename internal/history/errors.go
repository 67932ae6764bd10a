package history

import "errors"

var (
	// ErrMalformedInput marks a raw record that cannot be indexed, most
	// commonly one with a missing or unparseable timestamp. Build fails as a
	// whole; no partial index escapes.
	ErrMalformedInput = errors.New("malformed location record")

	// ErrEmptyIndex is returned by lookups against an index holding no
	// records. Callers must not treat it as "no match".
	ErrEmptyIndex = errors.New("location index is empty")
)
