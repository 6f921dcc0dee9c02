package portalock

import "os"

// Locker is the signature of the platform lock primitive. A different Locker
// can be injected through Options, which is mainly useful for tests that need
// to simulate primitive failures without touching the OS.
type Locker func(f *os.File, flags LockFlags) error

// LockFile makes a single attempt to place a whole-file advisory lock on f in
// the requested mode. With NonBlocking set it fails immediately when the file
// is held elsewhere; without it the call may block indefinitely.
//
// Contention is reported as a *LockError wrapping ErrLockFailed. Any other
// error is terminal and retrying it cannot help.
func LockFile(f *os.File, flags LockFlags) error {
	return lockFile(f, flags)
}

// UnlockFile removes the advisory lock placed on f by this process. Unlocking
// a handle that holds no lock is a no-op at this layer; the lock types above
// enforce their own stricter release semantics.
func UnlockFile(f *os.File) error {
	return unlockFile(f)
}
