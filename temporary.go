package portalock

import (
	"fmt"
	"os"
)

// TemporaryFileLock is a Lock on a throwaway lock file: the file is truncated
// on acquisition and removed again on release. Contention fails immediately
// with ErrAlreadyLocked instead of retrying, which suits its main use of
// marking a resource busy between processes.
type TemporaryFileLock struct {
	Lock
}

// NewTemporaryFileLock creates a temporary file lock for path.
func NewTemporaryFileLock(path string) *TemporaryFileLock {
	opts := DefaultOptions()
	opts.FailWhenLocked = true
	opts.OpenFlags = os.O_CREATE | os.O_RDWR | os.O_TRUNC
	return &TemporaryFileLock{Lock: *NewWithOptions(path, opts)}
}

// Release unlocks, closes and deletes the lock file. Like Lock, releasing
// when the lock is not held is a no-op.
func (l *TemporaryFileLock) Release() error {
	held := l.fh != nil
	if err := l.Lock.Release(); err != nil {
		return err
	}
	if held {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", l.path, err)
		}
	}
	return nil
}

// With acquires the lock, runs fn with the locked handle, and releases,
// removing the lock file, on every return path.
func (l *TemporaryFileLock) With(fn func(fh *os.File) error) (err error) {
	fh, err := l.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		if rerr := l.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(fh)
}
