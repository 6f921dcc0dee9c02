package portalock

import (
	"errors"
	"fmt"
	"os"
)

// Failure kinds. Every error returned by this package wraps exactly one of
// them, so callers match with errors.Is.
var (
	// ErrLockFailed covers generic acquisition failures, including an
	// exhausted timeout and terminal primitive errors.
	ErrLockFailed = errors.New("failed to acquire lock")
	// ErrAlreadyLocked is returned when the file is held elsewhere and
	// the caller asked to fail instead of waiting.
	ErrAlreadyLocked = errors.New("file is already locked")
	// ErrFileTooLarge is returned when the OS refuses to lock the file,
	// typically because it exceeds the platform's lockable range.
	ErrFileTooLarge = errors.New("file is too large to lock")
)

// errReleaseUnacquired marks an RLock release without a matching acquire.
var errReleaseUnacquired = errors.New("cannot release a lock that has not been acquired")

// LockError is the failure type for all lock operations in this package.
// Match the family with errors.As and the specific kind with errors.Is.
//
// Fh, when non-nil, is a back-reference to the offending file handle. The
// error never owns the handle: it neither closes it nor keeps it open.
type LockError struct {
	Fh  *os.File
	Err error
}

func (e *LockError) Error() string {
	if e.Fh != nil {
		return fmt.Sprintf("%s: %s", e.Fh.Name(), e.Err)
	}
	return e.Err.Error()
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// newLockError builds a LockError of the given kind around fh, chaining the
// underlying cause when there is one.
func newLockError(fh *os.File, kind, cause error) *LockError {
	if cause != nil {
		return &LockError{Fh: fh, Err: fmt.Errorf("%w: %w", kind, cause)}
	}
	return &LockError{Fh: fh, Err: kind}
}
