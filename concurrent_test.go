package portalock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// Competing exclusive owners may interleave in any order, but at most one may
// hold the lock at any instant.
func TestConcurrent_ExclusiveSingleHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contended.lock")
	const workers = 8

	var holders atomic.Int32
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			opts := DefaultOptions()
			opts.Timeout = NoTimeout
			opts.CheckInterval = time.Millisecond
			lock := NewWithOptions(path, opts)

			return lock.With(func(fh *os.File) error {
				if n := holders.Add(1); n != 1 {
					return fmt.Errorf("%d concurrent holders of an exclusive lock", n)
				}
				time.Sleep(2 * time.Millisecond)
				holders.Add(-1)
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// Shared owners must all be able to hold the lock at the same time. Every
// worker acquires and then waits until all of them have, which deadlocks the
// test (and fails it by timeout) if shared locks excluded each other.
func TestConcurrent_SharedHoldersCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.lock")
	const workers = 4

	var ready sync.WaitGroup
	ready.Add(workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			opts := DefaultOptions()
			opts.Flags = Shared | NonBlocking
			opts.Timeout = NoTimeout
			opts.CheckInterval = time.Millisecond
			lock := NewWithOptions(path, opts)

			return lock.With(func(fh *os.File) error {
				ready.Done()
				ready.Wait()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// Capacity-bounded contention: more workers than slots, every worker must get
// a slot eventually and the capacity must never be exceeded.
func TestConcurrent_SemaphoreCapacity(t *testing.T) {
	dir := t.TempDir()
	const capacity = 2
	const workers = 6

	var holders atomic.Int32
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			opts := DefaultOptions()
			opts.Timeout = NoTimeout
			opts.CheckInterval = time.Millisecond
			sem := NewBoundedSemaphoreWithOptions(capacity, "pool", dir, opts)

			if _, err := sem.Acquire(); err != nil {
				return err
			}
			defer sem.Release()

			if n := holders.Add(1); n > capacity {
				return fmt.Errorf("%d holders exceed semaphore capacity %d", n, capacity)
			}
			time.Sleep(2 * time.Millisecond)
			holders.Add(-1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
