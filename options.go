package portalock

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// NoTimeout makes Acquire retry forever at CheckInterval instead of giving up.
const NoTimeout = time.Duration(-1)

// Defaults applied by DefaultOptions.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultCheckInterval = 250 * time.Millisecond
	DefaultFileMode      = os.FileMode(0o644)
)

// Options holds all configurable values for a Lock.
type Options struct {
	// Flags selects the lock mode. When neither Shared nor Exclusive is
	// set, Exclusive is assumed. The acquisition engine always talks to
	// the primitive in non-blocking mode, see Lock.Acquire.
	Flags LockFlags

	// Timeout bounds the whole acquisition. Zero means exactly one
	// attempt with no sleep; NoTimeout means retry until the lock is
	// obtained, however long that takes.
	Timeout time.Duration

	// CheckInterval is the sleep between attempts. It is clamped so the
	// engine never sleeps past the remaining timeout. Zero picks
	// DefaultCheckInterval.
	CheckInterval time.Duration

	// FailWhenLocked turns the first contended attempt into an immediate
	// ErrAlreadyLocked failure instead of retrying.
	FailWhenLocked bool

	// OpenFlags are passed to os.OpenFile when the lock file is opened.
	// Zero picks os.O_CREATE|os.O_RDWR. os.O_TRUNC is honored only after
	// the lock has been obtained, so a failed acquisition never destroys
	// the contents of a contended file.
	OpenFlags int

	// FileMode is used when OpenFlags creates the file. Zero picks
	// DefaultFileMode.
	FileMode os.FileMode

	// Locker overrides the platform primitive for lock attempts. Nil
	// means LockFile. Releases always go through UnlockFile.
	Locker Locker

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options New applies: an exclusive non-blocking
// lock with a 5 second timeout polled every 250 milliseconds.
func DefaultOptions() Options {
	return Options{
		Flags:         Exclusive | NonBlocking,
		Timeout:       DefaultTimeout,
		CheckInterval: DefaultCheckInterval,
		OpenFlags:     os.O_CREATE | os.O_RDWR,
		FileMode:      DefaultFileMode,
	}
}

// Validate checks if the option values are consistent.
func (o *Options) Validate() error {
	if o.Flags.Has(Shared) && o.Flags.Has(Exclusive) {
		return fmt.Errorf("flags must request shared or exclusive mode, not both")
	}
	if o.Timeout < NoTimeout {
		return fmt.Errorf("timeout must be NoTimeout, zero or positive, got %v", o.Timeout)
	}
	if o.CheckInterval < 0 {
		return fmt.Errorf("check interval must not be negative, got %v", o.CheckInterval)
	}
	return nil
}

// normalize fills zero values that have non-zero defaults. Timeout is left
// alone: zero is the meaningful single-attempt setting.
func (o *Options) normalize() {
	if o.CheckInterval == 0 {
		o.CheckInterval = DefaultCheckInterval
	}
	if o.OpenFlags == 0 {
		o.OpenFlags = os.O_CREATE | os.O_RDWR
	}
	if o.FileMode == 0 {
		o.FileMode = DefaultFileMode
	}
}

func (o *Options) locker() Locker {
	if o.Locker != nil {
		return o.Locker
	}
	return LockFile
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
