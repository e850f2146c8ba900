package sorter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockName is the advisory lock file kept in the journal directory
const LockName = ".dlsort.lock"

// ErrLocked is returned when another run holds the directory lock
var ErrLocked = errors.New("another dlsort run is in progress")

// acquire takes the run lock in dir without waiting. The returned func
// releases it.
func acquire(dir string) (func(), error) {
	path := filepath.Join(dir, LockName)
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}
	slog.Debug("lock acquired", "path", path)

	return func() {
		if err := fl.Unlock(); err != nil {
			slog.Warn("failed to release lock", "path", path, "error", err)
		}
	}, nil
}
