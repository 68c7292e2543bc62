package floorplan

import (
	"reflect"
	"testing"
)

func equipmentPatch(items ...EquipmentItem) Patch {
	seq := append([]EquipmentItem{}, items...)
	return Patch{Equipment: &seq}
}

func TestStore_HistoryGrowthAndCapacity(t *testing.T) {
	s := NewStore()

	if s.HistoryLen() != 1 || s.HistoryIndex() != 0 {
		t.Fatalf("Fresh store should have history [initial], got len=%d index=%d", s.HistoryLen(), s.HistoryIndex())
	}

	// Push well past the capacity and check the bound at every step.
	for n := 1; n <= 120; n++ {
		s.UpdateState(equipmentPatch(EquipmentItem{ID: "e", Label: string(rune('a' + n%26))}))

		wantIndex := n
		if wantIndex > HistoryCapacity-1 {
			wantIndex = HistoryCapacity - 1
		}
		wantLen := n + 1
		if wantLen > HistoryCapacity {
			wantLen = HistoryCapacity
		}
		if s.HistoryIndex() != wantIndex {
			t.Fatalf("After %d updates expected index %d, got %d", n, wantIndex, s.HistoryIndex())
		}
		if s.HistoryLen() != wantLen {
			t.Fatalf("After %d updates expected history length %d, got %d", n, wantLen, s.HistoryLen())
		}
	}
}

func TestStore_UndoRedoRoundTrip(t *testing.T) {
	s := NewStore()
	s.AddEquipment(EquipmentItem{ID: "db1", Type: "distribution_board", Position: Position{X: 10, Y: 20}})
	s.AddEquipment(EquipmentItem{ID: "so1", Type: "socket_outlet", Position: Position{X: 30, Y: 40}})

	before := s.State()

	if !s.Undo() {
		t.Fatal("Undo should succeed with two edits in history")
	}
	if !s.CanRedo() {
		t.Fatal("CanRedo should be true right after an undo")
	}
	if !s.Redo() {
		t.Fatal("Redo should succeed")
	}

	after := s.State()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Undo followed by redo should restore the exact state.\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestStore_UndoAtStartIsNoop(t *testing.T) {
	s := NewStore()
	if s.Undo() {
		t.Error("Undo on a fresh store should be a no-op")
	}
	if s.Redo() {
		t.Error("Redo on a fresh store should be a no-op")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("Fresh store should report neither undo nor redo available")
	}
}

func TestStore_LinearTruncation(t *testing.T) {
	s := NewStore()
	s.UpdateState(equipmentPatch(EquipmentItem{ID: "a"}))

	if !s.Undo() {
		t.Fatal("Undo should succeed")
	}
	if !s.CanRedo() {
		t.Fatal("Redo should be available after undo")
	}

	// Writing after an undo discards the forward branch.
	s.UpdateState(equipmentPatch(EquipmentItem{ID: "b"}))
	if s.CanRedo() {
		t.Error("CanRedo should be false immediately after a write following an undo")
	}

	state := s.State()
	if len(state.Equipment) != 1 || state.Equipment[0].ID != "b" {
		t.Errorf("Expected equipment [b], got %+v", state.Equipment)
	}
}

func TestStore_AddDeleteRoundTrip(t *testing.T) {
	s := NewStore()
	s.AddEquipment(EquipmentItem{ID: "keep", Type: "luminaire"})
	before := s.State().Equipment

	item := EquipmentItem{ID: "tmp", Type: "socket_outlet", Position: Position{X: 1, Y: 2}}
	s.AddEquipment(item)
	s.DeleteEquipment(item.ID)

	after := s.State().Equipment
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Add then delete should restore the sequence.\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestStore_UpdateReplacesByID(t *testing.T) {
	s := NewStore()
	s.AddCable(CableRoute{ID: "c1", From: "DB1", To: "SO1", CableType: "2.5mm T&E"})
	s.AddCable(CableRoute{ID: "c2", From: "DB1", To: "L1", CableType: "1.5mm T&E"})

	s.UpdateCable(CableRoute{ID: "c1", From: "DB1", To: "SO2", CableType: "2.5mm T&E", LengthM: 14.5})

	state := s.State()
	if len(state.Cables) != 2 {
		t.Fatalf("Expected 2 cables, got %d", len(state.Cables))
	}
	if state.Cables[0].To != "SO2" || state.Cables[0].LengthM != 14.5 {
		t.Errorf("Cable c1 should be replaced in place, got %+v", state.Cables[0])
	}
	if state.Cables[1].ID != "c2" {
		t.Errorf("Cable order should be preserved, got %+v", state.Cables)
	}
}

func TestStore_ClearAllIsUndoable(t *testing.T) {
	s := NewStore()
	s.AddZone(Zone{ID: "z1", Name: "Plant Room"})
	s.AddTask(PlanTask{ID: "t1", Text: "check earthing"})

	s.ClearAll()
	state := s.State()
	if len(state.Zones) != 0 || len(state.Tasks) != 0 {
		t.Fatalf("ClearAll should empty the document, got %+v", state)
	}

	if !s.Undo() {
		t.Fatal("ClearAll should be undoable")
	}
	state = s.State()
	if len(state.Zones) != 1 || len(state.Tasks) != 1 {
		t.Errorf("Undo after ClearAll should restore entities, got %+v", state)
	}
}

func TestStore_SelectionBypassesHistory(t *testing.T) {
	s := NewStore()
	s.AddEquipment(EquipmentItem{ID: "e1", Type: "luminaire"})
	lenBefore := s.HistoryLen()

	s.SetSelectedItem("equipment", "e1")
	if s.HistoryLen() != lenBefore {
		t.Error("SetSelectedItem should not record a history entry")
	}
	sel := s.State().SelectedItem
	if sel == nil || sel.Type != "equipment" || sel.ID != "e1" {
		t.Errorf("Expected selection equipment/e1, got %+v", sel)
	}

	s.SetSelectedItem("", "")
	if s.State().SelectedItem != nil {
		t.Error("Empty type and id should clear the selection")
	}
	if s.HistoryLen() != lenBefore {
		t.Error("Clearing selection should not record a history entry")
	}
}

func TestStore_HistoryEntriesDoNotAlias(t *testing.T) {
	s := NewStore()
	s.AddPVRoof(PVRoof{ID: "r1", PitchDegrees: 30, Points: []Position{{X: 0, Y: 0}, {X: 100, Y: 0}}})

	// Mutating a returned snapshot must not leak into the history.
	snap := s.State()
	snap.PVRoofs[0].Points[0] = Position{X: 999, Y: 999}

	state := s.State()
	if state.PVRoofs[0].Points[0] != (Position{X: 0, Y: 0}) {
		t.Error("Snapshot mutation leaked into the store")
	}

	s.AddPVArray(PVArray{ID: "a1", RoofID: "r1", Rows: 4, Cols: 10, PanelWatts: 450})
	if !s.Undo() {
		t.Fatal("Undo should succeed")
	}
	if !s.Redo() {
		t.Fatal("Redo should succeed")
	}
	state = s.State()
	if len(state.PVArrays) != 1 || state.PVArrays[0].PanelWatts != 450 {
		t.Errorf("History entry corrupted, got %+v", state.PVArrays)
	}
}

func TestStore_SeededFromPersistedState(t *testing.T) {
	scale := 0.025
	seed := EmptyState()
	seed.Equipment = []EquipmentItem{{ID: "db1", Type: "distribution_board"}}
	seed.ScaleMetersPerPixel = &scale

	s := NewStoreFrom(seed)
	if s.HistoryLen() != 1 || s.CanUndo() {
		t.Fatal("Seeded store should start with exactly the seed entry")
	}
	state := s.State()
	if state.ScaleMetersPerPixel == nil || *state.ScaleMetersPerPixel != scale {
		t.Errorf("Scale should survive seeding, got %+v", state.ScaleMetersPerPixel)
	}

	// The seed must not alias the caller's slices.
	seed.Equipment[0].Type = "mutated"
	if s.State().Equipment[0].Type != "distribution_board" {
		t.Error("Seed mutation leaked into the store")
	}
}
