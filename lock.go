package portalock

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Lock owns one open file handle and guards it with a whole-file advisory
// lock. A Lock belongs to a single logical owner; it is not meant to be
// shared between goroutines.
type Lock struct {
	path string
	opts Options
	fh   *os.File
}

// New creates a lock for path with DefaultOptions.
func New(path string) *Lock {
	return NewWithOptions(path, DefaultOptions())
}

// NewWithOptions creates a lock for path with the given options. Zero option
// fields whose zero value has no meaning of its own fall back to defaults.
func NewWithOptions(path string, opts Options) *Lock {
	opts.normalize()
	return &Lock{path: path, opts: opts}
}

// Path returns the path of the lock file.
func (l *Lock) Path() string {
	return l.path
}

// Fh returns the locked file handle, or nil when the lock is not held.
func (l *Lock) Fh() *os.File {
	return l.fh
}

// Acquire opens the lock file and obtains the lock, retrying a non-blocking
// primitive attempt every CheckInterval until it succeeds, the timeout
// lapses, or the primitive fails terminally. Acquiring a Lock this owner
// already holds is a no-op and returns the existing handle.
//
// The engine never calls the primitive in blocking mode: an OS-level blocking
// call can neither be bounded nor interrupted, so timeout semantics are
// implemented here by polling. When the caller combined a timeout with a
// blocking mode, a warning is logged and NonBlocking is forced into the
// effective flags before proceeding.
func (l *Lock) Acquire() (*os.File, error) {
	if l.fh != nil {
		return l.fh, nil
	}
	if err := l.opts.Validate(); err != nil {
		return nil, err
	}

	flags := l.opts.Flags
	if !flags.Has(NonBlocking) {
		if l.opts.Timeout != NoTimeout {
			l.opts.logger().Warn(
				"blocking lock mode cannot honor a timeout, forcing non-blocking polling",
				"path", l.path,
				"timeout", l.opts.Timeout,
			)
		}
		flags |= NonBlocking
	}

	// Truncation must wait until the lock is held; a contended file keeps
	// its contents when the acquisition fails.
	fh, err := os.OpenFile(l.path, l.opts.OpenFlags&^os.O_TRUNC, l.opts.FileMode)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", l.path, err)
	}

	tryLock := l.opts.locker()
	start := time.Now()
	for {
		err = tryLock(fh, flags)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrLockFailed) {
			// Terminal primitive failure, never retried.
			_ = fh.Close()
			var lerr *LockError
			if errors.As(err, &lerr) {
				return nil, err
			}
			return nil, newLockError(fh, ErrLockFailed, err)
		}
		if l.opts.FailWhenLocked {
			_ = fh.Close()
			return nil, newLockError(fh, ErrAlreadyLocked, nil)
		}
		if l.opts.Timeout != NoTimeout {
			remaining := l.opts.Timeout - time.Since(start)
			if remaining <= 0 {
				_ = fh.Close()
				return nil, newLockError(fh, ErrLockFailed,
					fmt.Errorf("timeout of %v exceeded", l.opts.Timeout))
			}
			time.Sleep(min(l.opts.CheckInterval, remaining))
		} else {
			time.Sleep(l.opts.CheckInterval)
		}
	}

	if l.opts.OpenFlags&os.O_TRUNC != 0 {
		if err := fh.Truncate(0); err != nil {
			_ = UnlockFile(fh)
			_ = fh.Close()
			return nil, fmt.Errorf("truncating %s: %w", l.path, err)
		}
	}

	l.opts.logger().Debug("lock acquired", "path", l.path)
	l.fh = fh
	return fh, nil
}

// Release unlocks and closes the handle. Releasing a Lock that is not held is
// a no-op, so deferred and explicit releases can coexist.
func (l *Lock) Release() error {
	if l.fh == nil {
		return nil
	}
	fh := l.fh
	l.fh = nil

	if err := UnlockFile(fh); err != nil {
		_ = fh.Close()
		return fmt.Errorf("unlocking %s: %w", l.path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", l.path, err)
	}
	l.opts.logger().Debug("lock released", "path", l.path)
	return nil
}

// With acquires the lock, runs fn with the locked handle, and releases on
// every return path.
func (l *Lock) With(fn func(fh *os.File) error) (err error) {
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
