//go:build windows

package portalock

import (
	"os"

	"golang.org/x/sys/windows"
)

// LockFileEx has no whole-file notion, so the maximum possible byte range is
// locked instead, the conventional way to lock an entire file on Windows.
const lockRange = ^uint32(0)

// lockFile attempts one LockFileEx call covering the whole file.
func lockFile(f *os.File, flags LockFlags) error {
	var how uint32
	if !flags.Has(Shared) {
		how |= windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	if flags.Has(NonBlocking) {
		how |= windows.LOCKFILE_FAIL_IMMEDIATELY
	}

	err := windows.LockFileEx(windows.Handle(f.Fd()), how, 0, lockRange, lockRange, &windows.Overlapped{})
	switch err {
	case nil:
		return nil
	case windows.ERROR_LOCK_VIOLATION:
		// The file is locked by someone else.
		return newLockError(f, ErrLockFailed, err)
	default:
		return err
	}
}

// unlockFile releases the range locked by lockFile. ERROR_NOT_LOCKED is
// treated as success so a repeated release is harmless at this layer.
func unlockFile(f *os.File) error {
	err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRange, lockRange, &windows.Overlapped{})
	if err == windows.ERROR_NOT_LOCKED {
		return nil
	}
	return err
}
