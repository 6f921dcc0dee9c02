package portalock

import "os"

// RLock is a reentrant variant of Lock. The same logical owner may nest
// Acquire calls; only the transition from depth 0 to 1 touches the OS lock,
// and only the matching final Release unlocks and closes the handle.
//
// Unlike Lock, releasing an RLock that is not held is an error rather than a
// no-op: an unbalanced acquire/release pair is a programming mistake and must
// not pass silently.
type RLock struct {
	Lock
	depth int
}

// NewRLock creates a reentrant lock for path with DefaultOptions.
func NewRLock(path string) *RLock {
	return &RLock{Lock: *New(path)}
}

// NewRLockWithOptions creates a reentrant lock for path with the given
// options.
func NewRLockWithOptions(path string, opts Options) *RLock {
	return &RLock{Lock: *NewWithOptions(path, opts)}
}

// Depth returns how many Acquire calls are waiting for a matching Release.
func (l *RLock) Depth() int {
	return l.depth
}

// Acquire takes the underlying lock on the first call and afterwards only
// counts.
func (l *RLock) Acquire() (*os.File, error) {
	if l.depth == 0 {
		if _, err := l.Lock.Acquire(); err != nil {
			return nil, err
		}
	}
	l.depth++
	return l.fh, nil
}

// Release undoes one Acquire. The handle stays open and locked until the
// count returns to zero. Releasing at depth zero returns a LockError.
func (l *RLock) Release() error {
	if l.depth == 0 {
		return newLockError(nil, ErrLockFailed, errReleaseUnacquired)
	}
	l.depth--
	if l.depth == 0 {
		return l.Lock.Release()
	}
	return nil
}

// With acquires the lock, runs fn with the locked handle, and releases on
// every return path. Nesting With calls on the same RLock is fine; the inner
// ones only move the counter.
func (l *RLock) With(fn func(fh *os.File) error) (err error) {
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
