package portalock

import (
	"errors"
	"path/filepath"
	"testing"
)

// fastSemaphore builds a semaphore that gives up quickly when full.
func fastSemaphore(t *testing.T, maximum int, dir string) *BoundedSemaphore {
	t.Helper()
	return NewBoundedSemaphoreWithOptions(maximum, "sem", dir, contendedOptions())
}

func TestBoundedSemaphore_CapacityEnforced(t *testing.T) {
	dir := t.TempDir()

	first := fastSemaphore(t, 2, dir)
	second := fastSemaphore(t, 2, dir)
	third := fastSemaphore(t, 2, dir)

	if _, err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if _, err := second.Acquire(); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
	if first.Lock().Path() == second.Lock().Path() {
		t.Errorf("both holders claimed the same slot: %s", first.Lock().Path())
	}

	// Capacity 2 is exhausted, the third waiter must time out.
	if _, err := third.Acquire(); !errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("expected ErrAlreadyLocked when full, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := third.Acquire(); err != nil {
		t.Fatalf("Acquire after a slot was freed failed: %v", err)
	}

	_ = second.Release()
	_ = third.Release()
}

func TestBoundedSemaphore_ReacquireHeldIsNoop(t *testing.T) {
	sem := fastSemaphore(t, 1, t.TempDir())

	lock, err := sem.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	again, err := sem.Acquire()
	if err != nil {
		t.Fatalf("re-acquire of a held semaphore failed: %v", err)
	}
	if again != lock {
		t.Errorf("re-acquire returned a different lock")
	}
	_ = sem.Release()
}

func TestBoundedSemaphore_ReleaseUnheldIsNoop(t *testing.T) {
	sem := fastSemaphore(t, 1, t.TempDir())
	if err := sem.Release(); err != nil {
		t.Errorf("release of unheld semaphore should be a no-op, got %v", err)
	}
}

func TestBoundedSemaphore_CandidateNaming(t *testing.T) {
	dir := t.TempDir()
	sem := fastSemaphore(t, 1, dir)

	lock, err := sem.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer sem.Release()

	want := filepath.Join(dir, "sem.0.lock")
	if lock.Path() != want {
		t.Errorf("expected slot path %s, got %s", want, lock.Path())
	}
}

func TestBoundedSemaphore_InvalidConfiguration(t *testing.T) {
	dir := t.TempDir()

	if _, err := fastSemaphore(t, 0, dir).Acquire(); err == nil {
		t.Errorf("expected an error for zero capacity")
	}
	if _, err := NewBoundedSemaphoreWithOptions(1, "", dir, contendedOptions()).Acquire(); err == nil {
		t.Errorf("expected an error for an empty name")
	}
	missing := filepath.Join(dir, "does-not-exist")
	if _, err := fastSemaphore(t, 1, missing).Acquire(); err == nil {
		t.Errorf("expected an error for a missing directory")
	}
}
