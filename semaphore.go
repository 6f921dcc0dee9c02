package portalock

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// BoundedSemaphore lets up to a maximum number of holders, across processes,
// coordinate through a set of candidate lock files in a shared directory.
// Each holder owns one exclusively locked file named "<name>.<index>.lock";
// when every candidate is taken the semaphore is full.
type BoundedSemaphore struct {
	maximum   int
	name      string
	directory string
	opts      Options
	lock      *Lock
}

// NewBoundedSemaphore creates a semaphore of the given capacity whose lock
// files live in directory, with DefaultOptions.
func NewBoundedSemaphore(maximum int, name, directory string) *BoundedSemaphore {
	return NewBoundedSemaphoreWithOptions(maximum, name, directory, DefaultOptions())
}

// NewBoundedSemaphoreWithOptions creates a semaphore with the given options.
// Timeout and CheckInterval bound the whole candidate scan; FailWhenLocked
// and OpenFlags are owned by the semaphore itself and ignored.
func NewBoundedSemaphoreWithOptions(maximum int, name, directory string, opts Options) *BoundedSemaphore {
	opts.normalize()
	return &BoundedSemaphore{
		maximum:   maximum,
		name:      name,
		directory: directory,
		opts:      opts,
	}
}

// Lock returns the held candidate lock, or nil when the semaphore is not
// held.
func (s *BoundedSemaphore) Lock() *Lock {
	return s.lock
}

// candidatePaths returns the lock file paths in randomized order so that
// concurrent waiters do not all hammer the same slot.
func (s *BoundedSemaphore) candidatePaths() []string {
	paths := make([]string, s.maximum)
	for i := range paths {
		paths[i] = filepath.Join(s.directory, fmt.Sprintf("%s.%d.lock", s.name, i))
	}
	rand.Shuffle(len(paths), func(i, j int) {
		paths[i], paths[j] = paths[j], paths[i]
	})
	return paths
}

// Acquire claims a free candidate slot, polling every CheckInterval until one
// is obtained or the timeout lapses. When the semaphore stays full past the
// timeout it returns an ErrAlreadyLocked LockError. Acquiring a semaphore
// this owner already holds is a no-op.
func (s *BoundedSemaphore) Acquire() (*Lock, error) {
	if s.lock != nil {
		return s.lock, nil
	}
	if s.maximum < 1 {
		return nil, fmt.Errorf("semaphore capacity must be at least 1, got %d", s.maximum)
	}
	if s.name == "" {
		return nil, fmt.Errorf("semaphore name is required")
	}
	if err := checkDirectoryWritable(s.directory); err != nil {
		return nil, err
	}

	start := time.Now()
	for {
		lock, err := s.tryCandidates()
		if err != nil {
			return nil, err
		}
		if lock != nil {
			s.lock = lock
			return lock, nil
		}
		if s.opts.Timeout != NoTimeout {
			remaining := s.opts.Timeout - time.Since(start)
			if remaining <= 0 {
				return nil, newLockError(nil, ErrAlreadyLocked,
					fmt.Errorf("all %d slots of semaphore %q are taken", s.maximum, s.name))
			}
			time.Sleep(min(s.opts.CheckInterval, remaining))
		} else {
			time.Sleep(s.opts.CheckInterval)
		}
	}
}

// tryCandidates makes one fail-fast pass over the candidate files. A nil,
// nil return means every slot was contended; any failure other than
// contention is terminal.
func (s *BoundedSemaphore) tryCandidates() (*Lock, error) {
	for _, path := range s.candidatePaths() {
		opts := s.opts
		opts.Timeout = 0
		opts.FailWhenLocked = true
		opts.OpenFlags = os.O_CREATE | os.O_RDWR
		lock := NewWithOptions(path, opts)
		if _, err := lock.Acquire(); err == nil {
			return lock, nil
		} else if !errors.Is(err, ErrAlreadyLocked) {
			return nil, err
		}
	}
	return nil, nil
}

// Release frees the held slot. Releasing a semaphore that is not held is a
// no-op, matching the plain Lock.
func (s *BoundedSemaphore) Release() error {
	if s.lock == nil {
		return nil
	}
	lock := s.lock
	s.lock = nil
	return lock.Release()
}

// checkDirectoryWritable verifies the semaphore directory exists and accepts
// new files before any slot is attempted.
func checkDirectoryWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("semaphore directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("semaphore directory %s is not a directory", path)
	}

	probe := filepath.Join(path, fmt.Sprintf(".portalock_probe_%d", time.Now().UnixNano()))
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("semaphore directory %s is not writable: %w", path, err)
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return nil
}
