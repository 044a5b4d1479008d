// Package lock provides advisory locking of barcode output files so two runs
// never write the same library at once.
package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrAlreadyLocked is returned when another bcgen run holds the lock.
var ErrAlreadyLocked = errors.New("another bcgen run is writing this output")

// Suffix is appended to an output path to form its lock file.
const Suffix = ".lock"

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Lock wraps a Flocker to provide fail-fast advisory locking.
type Lock struct {
	flocker Flocker
	path    string
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// ForOutput creates a Lock guarding the output file at path. The lock file
// sits next to it as path + Suffix and is left in place after Unlock;
// removing it would let a waiting run lock an unlinked inode.
func ForOutput(path string) *Lock {
	return &Lock{flocker: flock.New(path + Suffix), path: path + Suffix}
}

// Path returns the lock file path, or "" for injected Flockers.
func (l *Lock) Path() string {
	return l.path
}

// TryLock attempts a non-blocking lock acquisition. It returns
// ErrAlreadyLocked if the lock is held by another process, or wraps
// any underlying error from the Flocker.
func (l *Lock) TryLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring output lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Unlock releases the advisory lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing output lock: %w", err)
	}
	return nil
}
