// Package portalock provides cross-platform advisory file locking with a
// retrying, timeout-bounded acquisition layer on top of the raw OS
// primitives (flock on Unix, LockFileEx on Windows).
//
// The locks are advisory: they only coordinate processes that use compatible
// locking calls on the same file. Readers and writers that bypass the lock
// API are not stopped. Locks always cover the whole file, never byte ranges.
//
// Usage:
//
//	lock := portalock.New("queue.lock")
//	fh, err := lock.Acquire()
//	if err != nil {
//	    // lock is held elsewhere, or the timeout lapsed
//	}
//	defer lock.Release()
//	fmt.Fprintln(fh, "mine now")
//
// Or scoped, with the release guaranteed on every return path:
//
//	err := lock.With(func(fh *os.File) error {
//	    _, err := fh.Write(payload)
//	    return err
//	})
//
// RLock adds reentrancy for a single logical owner, TemporaryFileLock marks a
// resource busy with a throwaway lock file, and BoundedSemaphore lets up to N
// holders coordinate through a set of candidate lock files.
package portalock
