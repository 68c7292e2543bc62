package floorplan

import (
	"sync"
	"testing"
	"time"
)

// commitRecorder collects callback invocations for assertions.
type commitRecorder struct {
	mu    sync.Mutex
	calls []int
}

func (r *commitRecorder) record(v int) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
}

func (r *commitRecorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int{}, r.calls...)
}

func TestBatcher_DebounceCoalesces(t *testing.T) {
	rec := &commitRecorder{}
	b := NewBatcher(20*time.Millisecond, rec.record)

	// Two update/commit pairs inside one window collapse into a single
	// invocation carrying the last value.
	b.UpdateOptimistic(5)
	b.Commit()
	b.UpdateOptimistic(7)
	b.Commit()

	time.Sleep(60 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("Expected exactly one commit, got %d (%v)", len(calls), calls)
	}
	if calls[0] != 7 {
		t.Errorf("Expected last-write-wins value 7, got %d", calls[0])
	}
	if b.Pending() {
		t.Error("Pending flag should clear once the commit fires")
	}
}

func TestBatcher_CommitImmediate(t *testing.T) {
	rec := &commitRecorder{}
	b := NewBatcher(time.Hour, rec.record) // timer must never fire on its own

	b.UpdateOptimistic(3)
	b.Commit() // schedule far in the future
	b.UpdateOptimistic(9)
	b.CommitImmediate()

	calls := rec.snapshot()
	if len(calls) != 1 || calls[0] != 9 {
		t.Fatalf("CommitImmediate should fire synchronously with 9, got %v", calls)
	}

	// The previously scheduled timer was cancelled.
	time.Sleep(30 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 1 {
		t.Errorf("Cancelled timer still fired, calls=%v", calls)
	}
}

func TestBatcher_UpdateAloneDoesNotCommit(t *testing.T) {
	rec := &commitRecorder{}
	b := NewBatcher(5*time.Millisecond, rec.record)

	b.UpdateOptimistic(42)
	time.Sleep(25 * time.Millisecond)

	if calls := rec.snapshot(); len(calls) != 0 {
		t.Errorf("UpdateOptimistic alone must not invoke the callback, got %v", calls)
	}
	if !b.Pending() {
		t.Error("Value should remain pending until a commit")
	}
	if b.Value() != 42 {
		t.Errorf("Expected optimistic value 42, got %d", b.Value())
	}
}

func TestBatcher_ApplyUpdater(t *testing.T) {
	rec := &commitRecorder{}
	b := NewBatcher(5*time.Millisecond, rec.record)

	b.UpdateOptimistic(10)
	b.Apply(func(v int) int { return v + 1 })
	b.Apply(func(v int) int { return v * 2 })
	b.CommitImmediate()

	if calls := rec.snapshot(); len(calls) != 1 || calls[0] != 22 {
		t.Errorf("Expected single commit with 22, got %v", calls)
	}
}

func TestBatcher_TimerRaceDeliversOnce(t *testing.T) {
	// A 1µs window makes the scheduled timer fire concurrently with the
	// synchronous commit. Whichever path claims the pending value first
	// must be the only one that delivers it.
	for i := 0; i < 500; i++ {
		rec := &commitRecorder{}
		b := NewBatcher(time.Microsecond, rec.record)

		b.UpdateOptimistic(1)
		b.Commit()
		b.CommitImmediate()

		time.Sleep(2 * time.Millisecond)
		if calls := rec.snapshot(); len(calls) != 1 {
			t.Fatalf("iteration %d: one logical commit invoked the callback %d times (%v)", i, len(calls), calls)
		}
	}
}

func TestBatcher_FlushRacesTimerDeliversOnce(t *testing.T) {
	// Same race through the shutdown path: a just-fired autosave timer and
	// Flush must not both persist the snapshot.
	for i := 0; i < 500; i++ {
		rec := &commitRecorder{}
		b := NewBatcher(time.Microsecond, rec.record)

		b.UpdateOptimistic(1)
		b.Commit()
		b.Flush()
		b.Stop()

		time.Sleep(2 * time.Millisecond)
		if calls := rec.snapshot(); len(calls) != 1 {
			t.Fatalf("iteration %d: expected exactly one delivery, got %d (%v)", i, len(calls), calls)
		}
	}
}

func TestBatcher_StopCancelsWithoutCommit(t *testing.T) {
	rec := &commitRecorder{}
	b := NewBatcher(10*time.Millisecond, rec.record)

	b.UpdateOptimistic(1)
	b.Commit()
	b.Stop()

	time.Sleep(40 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Errorf("Stop should cancel the scheduled commit, got %v", calls)
	}

	// Flush still delivers the pending value on demand.
	b.Flush()
	if calls := rec.snapshot(); len(calls) != 1 || calls[0] != 1 {
		t.Errorf("Flush should commit the pending value, got %v", calls)
	}

	// Nothing pending anymore, a second flush is silent.
	b.Flush()
	if calls := rec.snapshot(); len(calls) != 1 {
		t.Errorf("Flush with nothing pending should be a no-op, got %v", calls)
	}
}
