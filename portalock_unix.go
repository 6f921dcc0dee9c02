//go:build !windows

package portalock

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile attempts one flock(2) call on the whole file.
func lockFile(f *os.File, flags LockFlags) error {
	how := unix.LOCK_EX
	if flags.Has(Shared) {
		how = unix.LOCK_SH
	}
	if flags.Has(NonBlocking) {
		how |= unix.LOCK_NB
	}

	switch err := unix.Flock(int(f.Fd()), how); err {
	case nil:
		return nil
	case unix.EWOULDBLOCK, unix.EACCES:
		// The file is locked by someone else.
		return newLockError(f, ErrLockFailed, err)
	case unix.EFBIG, unix.ENOLCK:
		return newLockError(f, ErrFileTooLarge, err)
	default:
		return err
	}
}

// unlockFile releases the lock. LOCK_UN on an unlocked descriptor succeeds,
// so a repeated release is harmless at this layer.
func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
