package session

import (
	"sync"
	"testing"
	"time"

	"github.com/voltsite/voltsitego/internal/floorplan"
)

// persistRecorder counts commits per plan.
type persistRecorder struct {
	mu     sync.Mutex
	states map[string][]floorplan.FloorPlanState
}

func newPersistRecorder() *persistRecorder {
	return &persistRecorder{states: make(map[string][]floorplan.FloorPlanState)}
}

func (p *persistRecorder) persist(planID string, state floorplan.FloorPlanState) error {
	p.mu.Lock()
	p.states[planID] = append(p.states[planID], state)
	p.mu.Unlock()
	return nil
}

func (p *persistRecorder) commits(planID string) []floorplan.FloorPlanState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]floorplan.FloorPlanState{}, p.states[planID]...)
}

func TestManager_CheckoutIsIdempotent(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, 10*time.Millisecond, time.Hour)
	defer m.Shutdown()

	a := m.Checkout("plan-1", floorplan.EmptyState())
	b := m.Checkout("plan-1", floorplan.EmptyState())
	if a != b {
		t.Error("Checkout of an open plan should return the existing session")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 open session, got %d", m.Count())
	}

	// A second checkout must not reseed the live document.
	a.Store.AddEquipment(floorplan.EquipmentItem{ID: "db1", Type: "distribution_board"})
	c := m.Checkout("plan-1", floorplan.EmptyState())
	if len(c.Store.State().Equipment) != 1 {
		t.Error("Re-checkout reseeded an open session")
	}
}

func TestSession_EditsCoalesceIntoOneAutosave(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, 15*time.Millisecond, time.Hour)
	defer m.Shutdown()

	s := m.Checkout("plan-1", floorplan.EmptyState())

	// A burst of edits inside the debounce window.
	s.ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "a"}))
	s.ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "a"}, floorplan.EquipmentItem{ID: "b"}))
	s.ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "a"}, floorplan.EquipmentItem{ID: "b"}, floorplan.EquipmentItem{ID: "c"}))

	time.Sleep(60 * time.Millisecond)

	commits := rec.commits("plan-1")
	if len(commits) != 1 {
		t.Fatalf("Expected the burst to coalesce into one autosave, got %d", len(commits))
	}
	if len(commits[0].Equipment) != 3 {
		t.Errorf("Autosave should carry the final state, got %d items", len(commits[0].Equipment))
	}
}

func TestSession_UndoRedoThroughSession(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, 5*time.Millisecond, time.Hour)
	defer m.Shutdown()

	s := m.Checkout("plan-1", floorplan.EmptyState())
	s.ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "a"}))

	state, ok := s.Undo()
	if !ok || len(state.Equipment) != 0 {
		t.Fatalf("Undo should restore the empty document, ok=%v state=%+v", ok, state.Equipment)
	}

	state, ok = s.Redo()
	if !ok || len(state.Equipment) != 1 {
		t.Fatalf("Redo should restore the edit, ok=%v state=%+v", ok, state.Equipment)
	}

	// Undo at the start of history reports a no-op.
	s.Undo()
	if _, ok := s.Undo(); ok {
		t.Error("Second undo should be a no-op at history start")
	}
}

func TestSession_EndDragMovesEquipment(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, 5*time.Millisecond, time.Hour)
	defer m.Shutdown()

	s := m.Checkout("plan-1", floorplan.EmptyState())
	item := floorplan.EquipmentItem{ID: "so1", Type: "socket_outlet", Position: floorplan.Position{X: 10, Y: 10}}
	s.ApplyPatch(equipmentPatch(item))

	s.Drag.StartDrag(item, item.ID, floorplan.Position{X: 10, Y: 10})
	s.Drag.UpdatePosition(floorplan.Position{X: 15, Y: 13})
	result := s.EndDrag()

	if result == nil || result.Delta != (floorplan.Position{X: 5, Y: 3}) {
		t.Fatalf("Expected delta {5 3}, got %+v", result)
	}

	moved := s.Store.State().Equipment[0]
	if moved.Position != (floorplan.Position{X: 15, Y: 13}) {
		t.Errorf("Equipment should move by the net delta, got %+v", moved.Position)
	}

	if s.EndDrag() != nil {
		t.Error("EndDrag with no active drag should return nil")
	}
}

func TestSession_EndDragUnknownItemReportsWithoutEditing(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, 5*time.Millisecond, time.Hour)
	defer m.Shutdown()

	s := m.Checkout("plan-1", floorplan.EmptyState())
	before := s.Store.HistoryLen()

	s.Drag.StartDrag(nil, "ghost", floorplan.Position{X: 0, Y: 0})
	s.Drag.UpdatePosition(floorplan.Position{X: 4, Y: 4})
	result := s.EndDrag()

	if result == nil || result.ItemID != "ghost" {
		t.Fatalf("A completed drag should report its result even for an unknown item, got %+v", result)
	}
	if s.Store.HistoryLen() != before {
		t.Error("A drag over an unknown item must not create a history entry")
	}
}

func TestManager_ReleaseFlushesPendingEdits(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, time.Hour, time.Hour) // window never fires on its own
	defer m.Shutdown()

	s := m.Checkout("plan-1", floorplan.EmptyState())
	s.ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "a"}))

	m.Release("plan-1")

	commits := rec.commits("plan-1")
	if len(commits) != 1 {
		t.Fatalf("Release should flush the pending autosave, got %d commits", len(commits))
	}
	if _, ok := m.Get("plan-1"); ok {
		t.Error("Released session should be gone")
	}
}

func TestManager_ShutdownFlushesAllSessions(t *testing.T) {
	rec := newPersistRecorder()
	m := NewManager(rec.persist, time.Hour, time.Hour)

	m.Checkout("plan-1", floorplan.EmptyState()).ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "a"}))
	m.Checkout("plan-2", floorplan.EmptyState()).ApplyPatch(equipmentPatch(floorplan.EquipmentItem{ID: "b"}))

	m.Shutdown()

	if len(rec.commits("plan-1")) != 1 || len(rec.commits("plan-2")) != 1 {
		t.Error("Shutdown should flush every open session exactly once")
	}
	if m.Count() != 0 {
		t.Errorf("Expected no sessions after shutdown, got %d", m.Count())
	}
}

func equipmentPatch(items ...floorplan.EquipmentItem) floorplan.Patch {
	seq := append([]floorplan.EquipmentItem{}, items...)
	return floorplan.Patch{Equipment: &seq}
}
