package pipeline

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"asn856/internal/config"
)

// ErrLocked reports that another generate run holds the state directory.
var ErrLocked = errors.New("another asn856 generate run is in progress")

// Lock is the single-writer lock on the state directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the run lock without waiting.
func AcquireLock(cfg *config.Config) (*Lock, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	path := cfg.LockPath()
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks the state directory.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
