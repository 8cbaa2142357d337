// Package lock provides a process-wide advisory file lock on the
// output root, guarding the single shared mutable resource the
// scheduler touches across cycles (spec §4.8 step 1, §5).
package lock

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileLock wraps an advisory flock(2) on an open file descriptor.
type FileLock struct {
	f *os.File
}

// TryAcquire attempts a non-blocking exclusive lock on path, creating
// it if necessary. It returns (nil, false, nil) if the lock is already
// held by another process — the caller's cycle should be skipped, not
// retried, per spec §4.8 step 1.
func TryAcquire(path string) (*FileLock, bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, false, fmt.Errorf("lock: open %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("lock: flock %s: %w", path, err)
	}

	return &FileLock{f: f}, true, nil
}

// Release unlocks and closes the underlying file descriptor. Safe to
// call once; subsequent calls are no-ops.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil
	if err != nil {
		return fmt.Errorf("lock: unlock: %w", err)
	}
	return closeErr
}
