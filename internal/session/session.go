package session

import (
	"log"
	"sync"
	"time"

	"github.com/voltsite/voltsitego/internal/floorplan"
)

// PersistFunc commits a session snapshot to durable storage. Failures are
// logged and the snapshot stays pending for the next commit attempt.
type PersistFunc func(planID string, state floorplan.FloorPlanState) error

// Session is one open floor-plan editing session. It owns the authoritative
// state store, a transient drag tracker, and an autosave batcher that
// debounces persistence so a burst of edits hits the database once.
//
// A session has a single logical writer (the editing user); the store's own
// locking makes the occasional concurrent reader safe.
type Session struct {
	PlanID string
	Store  *floorplan.Store
	Drag   *floorplan.DragTracker

	autosave *floorplan.Batcher[floorplan.FloorPlanState]

	mu       sync.Mutex
	lastUsed time.Time
}

func newSession(planID string, initial floorplan.FloorPlanState, window time.Duration, persist PersistFunc) *Session {
	s := &Session{
		PlanID:   planID,
		Store:    floorplan.NewStoreFrom(initial),
		Drag:     floorplan.NewDragTracker(),
		lastUsed: time.Now(),
	}
	s.autosave = floorplan.NewBatcher(window, func(state floorplan.FloorPlanState) {
		if err := persist(planID, state); err != nil {
			log.Printf("⚠️  Autosave failed for plan %s: %v", planID, err)
		}
	})
	return s
}

// touch records activity and queues the current snapshot for autosave.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
	s.autosave.UpdateOptimistic(s.Store.State())
	s.autosave.Commit()
}

// LastUsed returns the time of the session's most recent mutation.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Mutate runs fn against the store, queues an autosave and returns the
// resulting snapshot. Used for the per-entity add/update/delete operations.
func (s *Session) Mutate(fn func(*floorplan.Store)) floorplan.FloorPlanState {
	fn(s.Store)
	s.touch()
	return s.Store.State()
}

// ApplyPatch merges a partial update and returns the resulting snapshot.
func (s *Session) ApplyPatch(p floorplan.Patch) floorplan.FloorPlanState {
	state := s.Store.UpdateState(p)
	s.touch()
	return state
}

// Undo steps the document back one history entry.
func (s *Session) Undo() (floorplan.FloorPlanState, bool) {
	ok := s.Store.Undo()
	if ok {
		s.touch()
	}
	return s.Store.State(), ok
}

// Redo steps the document forward one history entry.
func (s *Session) Redo() (floorplan.FloorPlanState, bool) {
	ok := s.Store.Redo()
	if ok {
		s.touch()
	}
	return s.Store.State(), ok
}

// ClearAll resets the document; the reset is undoable.
func (s *Session) ClearAll() floorplan.FloorPlanState {
	s.Store.ClearAll()
	s.touch()
	return s.Store.State()
}

// Select sets or clears the selection. Selection is not undoable and is not
// worth an autosave on its own, so it only refreshes the activity clock.
func (s *Session) Select(itemType, id string) {
	s.Store.SetSelectedItem(itemType, id)
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// EndDrag finishes an active drag by shifting the dragged equipment symbol
// by the drag's net delta. Returns nil only when no drag was active; a drag
// whose item id matches nothing still reports its result, it just leaves
// the document untouched.
func (s *Session) EndDrag() *floorplan.DragResult {
	result := s.Drag.EndDrag()
	if result == nil {
		return nil
	}

	state := s.Store.State()
	for _, item := range state.Equipment {
		if item.ID == result.ItemID {
			item.Position = item.Position.Add(result.Delta)
			s.Store.UpdateEquipment(item)
			s.touch()
			break
		}
	}
	return result
}

// Flush commits any pending autosave synchronously.
func (s *Session) Flush() {
	s.autosave.Flush()
}

// close stops the autosave timer after a final flush.
func (s *Session) close() {
	s.autosave.Flush()
	s.autosave.Stop()
}
