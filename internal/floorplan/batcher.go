package floorplan

import (
	"sync"
	"time"
)

// DefaultCommitWindow is the debounce window between the last Commit call
// and the actual commit callback invocation.
const DefaultCommitWindow = 50 * time.Millisecond

// Batcher lets callers apply an edit locally right away while deferring the
// real commit by a short window, coalescing rapid successive edits into a
// single callback invocation. At most one timer is pending per batcher; a
// new Commit call supersedes a previously scheduled one, and one pending
// value is delivered at most once.
//
// The batcher is pure scheduling: the callback's own success or failure is
// the caller's responsibility.
type Batcher[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
	timer   *time.Timer
	gen     uint64
	window  time.Duration
	commit  func(T)
}

// NewBatcher creates a batcher invoking commit with the latest optimistic
// value. A non-positive window falls back to DefaultCommitWindow.
func NewBatcher[T any](window time.Duration, commit func(T)) *Batcher[T] {
	if window <= 0 {
		window = DefaultCommitWindow
	}
	return &Batcher[T]{window: window, commit: commit}
}

// UpdateOptimistic replaces the locally held value and marks it pending. It
// never invokes the commit callback itself.
func (b *Batcher[T]) UpdateOptimistic(value T) {
	b.mu.Lock()
	b.value = value
	b.pending = true
	b.mu.Unlock()
}

// Apply is the updater form of UpdateOptimistic.
func (b *Batcher[T]) Apply(fn func(T) T) {
	b.mu.Lock()
	b.value = fn(b.value)
	b.pending = true
	b.mu.Unlock()
}

// Commit (re)starts the debounce timer. When it fires, the commit callback
// receives the latest optimistic value and the pending flag clears. Calling
// Commit again before the timer fires restarts the window; only the last
// call within the window survives.
//
// Each schedule is stamped with a generation. timer.Stop cannot cancel a
// callback that is already running, so a superseded timer must notice on
// its own that it is stale; the stamp is how it does.
func (b *Batcher[T]) Commit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.timer = time.AfterFunc(b.window, func() { b.fire(gen) })
}

// CommitImmediate cancels any pending timer and invokes the commit callback
// synchronously with the current optimistic value. A commit that already
// fired is not repeated.
func (b *Batcher[T]) CommitImmediate() {
	b.fireNow()
}

// Flush commits synchronously only if an edit is pending. Used on shutdown
// so untouched batchers do not write.
func (b *Batcher[T]) Flush() {
	b.fireNow()
}

// Stop cancels any scheduled commit without invoking the callback.
func (b *Batcher[T]) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Pending reports whether an optimistic value awaits commit.
func (b *Batcher[T]) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Value returns the current optimistic value.
func (b *Batcher[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// fire is the timer path. It delivers only when its generation is still
// current and a value is actually pending, so a stopped or superseded timer
// that was already mid-flight falls through without a second delivery. The
// callback runs outside the lock so it may call back into the batcher.
func (b *Batcher[T]) fire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.pending {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	value := b.value
	b.pending = false
	b.mu.Unlock()
	b.commit(value)
}

// fireNow is the synchronous path. Bumping the generation first invalidates
// any in-flight timer before the pending value is claimed.
func (b *Batcher[T]) fireNow() {
	b.mu.Lock()
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if !b.pending {
		b.mu.Unlock()
		return
	}
	value := b.value
	b.pending = false
	b.mu.Unlock()
	b.commit(value)
}
