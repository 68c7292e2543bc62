package floorplan

import (
	"sync"
	"sync/atomic"
)

// DragResult is the net outcome of a completed drag.
type DragResult struct {
	ItemID string
	Delta  Position
}

// DragTracker follows an in-progress pointer drag. Position samples arrive
// dozens of times per second, so UpdatePosition never notifies anyone:
// consumers poll Delta or CurrentPosition when they need a value (e.g. from
// a frame callback). Only the boolean dragging flag is cheap to observe
// continuously.
//
// States: Idle -> Dragging -> Idle, via EndDrag or CancelDrag. The tracker
// is transient and never persisted.
type DragTracker struct {
	dragging atomic.Bool

	mu      sync.Mutex
	item    interface{}
	itemID  string
	start   Position
	current Position
}

// NewDragTracker returns an idle tracker.
func NewDragTracker() *DragTracker {
	return &DragTracker{}
}

// StartDrag begins tracking. Any previous drag is discarded.
func (d *DragTracker) StartDrag(item interface{}, itemID string, start Position) {
	d.mu.Lock()
	d.item = item
	d.itemID = itemID
	d.start = start
	d.current = start
	d.mu.Unlock()
	d.dragging.Store(true)
}

// UpdatePosition records a new pointer sample. Silent no-op while idle.
func (d *DragTracker) UpdatePosition(pos Position) {
	if !d.dragging.Load() {
		return
	}
	d.mu.Lock()
	d.current = pos
	d.mu.Unlock()
}

// IsDragging reports whether a drag is active.
func (d *DragTracker) IsDragging() bool {
	return d.dragging.Load()
}

// Delta returns current minus start; zero while idle.
func (d *DragTracker) Delta() Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.Sub(d.start)
}

// CurrentPosition returns the latest sample; ok is false while idle.
func (d *DragTracker) CurrentPosition() (Position, bool) {
	if !d.dragging.Load() {
		return Position{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, true
}

// Item returns the payload captured at StartDrag, or nil while idle.
func (d *DragTracker) Item() interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.item
}

// EndDrag completes the drag and returns its net result. Returns nil if no
// drag was active; a second call right after EndDrag therefore returns nil.
func (d *DragTracker) EndDrag() *DragResult {
	if !d.dragging.Swap(false) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	result := &DragResult{
		ItemID: d.itemID,
		Delta:  d.current.Sub(d.start),
	}
	d.reset()
	return result
}

// CancelDrag discards the drag without producing a result. Used when the
// pointer leaves the canvas or escape is pressed.
func (d *DragTracker) CancelDrag() {
	if !d.dragging.Swap(false) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// reset clears tracked values; callers hold d.mu.
func (d *DragTracker) reset() {
	d.item = nil
	d.itemID = ""
	d.start = Position{}
	d.current = Position{}
}
