package floorplan

import "testing"

func TestDragTracker_FullDrag(t *testing.T) {
	d := NewDragTracker()

	item := EquipmentItem{ID: "id1", Type: "socket_outlet"}
	d.StartDrag(item, "id1", Position{X: 0, Y: 0})

	if !d.IsDragging() {
		t.Fatal("Tracker should report dragging after StartDrag")
	}

	d.UpdatePosition(Position{X: 2, Y: 1})
	d.UpdatePosition(Position{X: 5, Y: 3})

	if delta := d.Delta(); delta != (Position{X: 5, Y: 3}) {
		t.Errorf("Expected delta {5 3}, got %+v", delta)
	}
	if pos, ok := d.CurrentPosition(); !ok || pos != (Position{X: 5, Y: 3}) {
		t.Errorf("Expected current position {5 3}, got %+v ok=%v", pos, ok)
	}

	result := d.EndDrag()
	if result == nil {
		t.Fatal("EndDrag should return a result for an active drag")
	}
	if result.ItemID != "id1" || result.Delta != (Position{X: 5, Y: 3}) {
		t.Errorf("Expected {delta:{5 3} itemId:id1}, got %+v", result)
	}

	// Tracker is reset; a second EndDrag has nothing to report.
	if d.EndDrag() != nil {
		t.Error("Second EndDrag should return nil")
	}
	if d.IsDragging() {
		t.Error("Tracker should be idle after EndDrag")
	}
}

func TestDragTracker_CancelDiscardsResult(t *testing.T) {
	d := NewDragTracker()
	d.StartDrag(EquipmentItem{ID: "id2"}, "id2", Position{X: 10, Y: 10})
	d.UpdatePosition(Position{X: 40, Y: 25})

	d.CancelDrag()

	if d.IsDragging() {
		t.Error("Tracker should be idle after CancelDrag")
	}
	if d.EndDrag() != nil {
		t.Error("EndDrag after CancelDrag should return nil")
	}
	if delta := d.Delta(); delta != (Position{}) {
		t.Errorf("Delta should be zero after cancel, got %+v", delta)
	}
}

func TestDragTracker_UpdateWhileIdleIsNoop(t *testing.T) {
	d := NewDragTracker()

	d.UpdatePosition(Position{X: 100, Y: 100})

	if d.IsDragging() {
		t.Error("UpdatePosition must not start a drag")
	}
	if _, ok := d.CurrentPosition(); ok {
		t.Error("CurrentPosition should report not-ok while idle")
	}
	if d.Item() != nil {
		t.Error("Item should be nil while idle")
	}
}

func TestDragTracker_RestartOverwritesPreviousDrag(t *testing.T) {
	d := NewDragTracker()
	d.StartDrag(nil, "old", Position{X: 1, Y: 1})
	d.UpdatePosition(Position{X: 9, Y: 9})

	d.StartDrag(nil, "new", Position{X: 4, Y: 4})

	if delta := d.Delta(); delta != (Position{}) {
		t.Errorf("Restart should reset the delta to zero, got %+v", delta)
	}
	result := d.EndDrag()
	if result == nil || result.ItemID != "new" {
		t.Errorf("Result should belong to the new drag, got %+v", result)
	}
}
