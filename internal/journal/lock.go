package journal

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another geomatch process holds the journal lock.
var ErrLocked = errors.New("journal is locked by another geomatch run")

// Lock takes the journal write lock so two concurrent runs cannot interleave
// their journal writes. The returned release function is safe to call more
// than once.
func Lock(dir string) (release func(), err error) {
	lock := flock.New(filepath.Join(dir, "journal.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = lock.Unlock() }, nil
}
