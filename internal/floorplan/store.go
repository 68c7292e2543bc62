package floorplan

import "sync"

// HistoryCapacity bounds the undo history, counting the initial state. When
// the bound is exceeded the oldest snapshot is evicted silently.
const HistoryCapacity = 50

// Store holds the authoritative in-memory markup document and a bounded
// linear undo/redo history of full snapshots. Undo and redo only move the
// index; history entries are never mutated. Pushing a new state truncates
// any forward entries (no branching redo trees).
type Store struct {
	mu      sync.RWMutex
	current FloorPlanState
	history []FloorPlanState
	index   int
}

// NewStore creates a store seeded with an empty document. The empty document
// is history entry zero.
func NewStore() *Store {
	return NewStoreFrom(EmptyState())
}

// NewStoreFrom creates a store seeded with an existing document, e.g. one
// loaded from persistence.
func NewStoreFrom(state FloorPlanState) *Store {
	s := &Store{current: state.Clone()}
	s.history = []FloorPlanState{s.current.Clone()}
	return s
}

// State returns a snapshot of the current document.
func (s *Store) State() FloorPlanState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// UpdateState merges a partial patch into the current document and records
// the result as a new history entry.
func (s *Store) UpdateState(p Patch) FloorPlanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Equipment != nil {
		s.current.Equipment = append([]EquipmentItem{}, *p.Equipment...)
	}
	if p.Cables != nil {
		s.current.Cables = append([]CableRoute{}, *p.Cables...)
	}
	if p.Containment != nil {
		s.current.Containment = append([]ContainmentRun{}, *p.Containment...)
	}
	if p.Zones != nil {
		s.current.Zones = append([]Zone{}, *p.Zones...)
	}
	if p.PVRoofs != nil {
		s.current.PVRoofs = append([]PVRoof{}, *p.PVRoofs...)
	}
	if p.PVArrays != nil {
		s.current.PVArrays = append([]PVArray{}, *p.PVArrays...)
	}
	if p.Tasks != nil {
		s.current.Tasks = append([]PlanTask{}, *p.Tasks...)
	}
	if p.ScaleMetersPerPixel != nil {
		v := *p.ScaleMetersPerPixel
		s.current.ScaleMetersPerPixel = &v
	}
	s.push()
	return s.current.Clone()
}

// push snapshots the current document onto the history, truncating any redo
// entries. The index and the slice always move together under the lock, so
// there is no window where they disagree.
func (s *Store) push() {
	s.history = append(s.history[:s.index+1:s.index+1], s.current.Clone())
	if len(s.history) > HistoryCapacity {
		s.history = s.history[1:]
	}
	s.index = len(s.history) - 1
}

// Undo steps back one history entry. Returns false (no-op) at entry zero.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == 0 {
		return false
	}
	s.index--
	s.current = s.history[s.index].Clone()
	return true
}

// Redo steps forward one history entry. Returns false (no-op) at the end.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.history)-1 {
		return false
	}
	s.index++
	s.current = s.history[s.index].Clone()
	return true
}

// CanUndo reports whether Undo would change the document.
func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index > 0
}

// CanRedo reports whether Redo would change the document.
func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index < len(s.history)-1
}

// ClearAll resets the document to empty. The reset itself is a history entry
// and can be undone.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = EmptyState()
	s.push()
}

// SetSelectedItem sets or clears the weak selection reference. Selection
// changes are deliberately not undoable and bypass the history.
func (s *Store) SetSelectedItem(itemType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if itemType == "" || id == "" {
		s.current.SelectedItem = nil
		return
	}
	s.current.SelectedItem = &SelectionRef{Type: itemType, ID: id}
}

// HistoryLen returns the number of stored snapshots.
func (s *Store) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// HistoryIndex returns the position of the current document in the history.
func (s *Store) HistoryIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// AddEquipment appends a symbol and records a history entry.
func (s *Store) AddEquipment(item EquipmentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Equipment = append(append([]EquipmentItem{}, s.current.Equipment...), item)
	s.push()
}

// UpdateEquipment replaces the symbol with the same ID. Unknown IDs leave
// the sequence unchanged but still record a history entry.
func (s *Store) UpdateEquipment(item EquipmentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]EquipmentItem{}, s.current.Equipment...)
	for i := range next {
		if next[i].ID == item.ID {
			next[i] = item
		}
	}
	s.current.Equipment = next
	s.push()
}

// DeleteEquipment removes the symbol with the given ID.
func (s *Store) DeleteEquipment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]EquipmentItem, 0, len(s.current.Equipment))
	for _, it := range s.current.Equipment {
		if it.ID != id {
			next = append(next, it)
		}
	}
	s.current.Equipment = next
	s.push()
}

// AddCable appends a cable route and records a history entry.
func (s *Store) AddCable(c CableRoute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Cables = append(append([]CableRoute{}, s.current.Cables...), c)
	s.push()
}

// UpdateCable replaces the route with the same ID.
func (s *Store) UpdateCable(c CableRoute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]CableRoute{}, s.current.Cables...)
	for i := range next {
		if next[i].ID == c.ID {
			next[i] = c
		}
	}
	s.current.Cables = next
	s.push()
}

// DeleteCable removes the route with the given ID.
func (s *Store) DeleteCable(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]CableRoute, 0, len(s.current.Cables))
	for _, c := range s.current.Cables {
		if c.ID != id {
			next = append(next, c)
		}
	}
	s.current.Cables = next
	s.push()
}

// AddContainment appends a containment run.
func (s *Store) AddContainment(c ContainmentRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Containment = append(append([]ContainmentRun{}, s.current.Containment...), c)
	s.push()
}

// UpdateContainment replaces the run with the same ID.
func (s *Store) UpdateContainment(c ContainmentRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]ContainmentRun{}, s.current.Containment...)
	for i := range next {
		if next[i].ID == c.ID {
			next[i] = c
		}
	}
	s.current.Containment = next
	s.push()
}

// DeleteContainment removes the run with the given ID.
func (s *Store) DeleteContainment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]ContainmentRun, 0, len(s.current.Containment))
	for _, c := range s.current.Containment {
		if c.ID != id {
			next = append(next, c)
		}
	}
	s.current.Containment = next
	s.push()
}

// AddZone appends a zone overlay.
func (s *Store) AddZone(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Zones = append(append([]Zone{}, s.current.Zones...), z)
	s.push()
}

// UpdateZone replaces the zone with the same ID.
func (s *Store) UpdateZone(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]Zone{}, s.current.Zones...)
	for i := range next {
		if next[i].ID == z.ID {
			next[i] = z
		}
	}
	s.current.Zones = next
	s.push()
}

// DeleteZone removes the zone with the given ID.
func (s *Store) DeleteZone(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Zone, 0, len(s.current.Zones))
	for _, z := range s.current.Zones {
		if z.ID != id {
			next = append(next, z)
		}
	}
	s.current.Zones = next
	s.push()
}

// AddPVRoof appends a roof surface.
func (s *Store) AddPVRoof(r PVRoof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.PVRoofs = append(append([]PVRoof{}, s.current.PVRoofs...), r)
	s.push()
}

// UpdatePVRoof replaces the roof with the same ID.
func (s *Store) UpdatePVRoof(r PVRoof) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]PVRoof{}, s.current.PVRoofs...)
	for i := range next {
		if next[i].ID == r.ID {
			next[i] = r
		}
	}
	s.current.PVRoofs = next
	s.push()
}

// DeletePVRoof removes the roof with the given ID.
func (s *Store) DeletePVRoof(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]PVRoof, 0, len(s.current.PVRoofs))
	for _, r := range s.current.PVRoofs {
		if r.ID != id {
			next = append(next, r)
		}
	}
	s.current.PVRoofs = next
	s.push()
}

// AddPVArray appends a panel grid.
func (s *Store) AddPVArray(a PVArray) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.PVArrays = append(append([]PVArray{}, s.current.PVArrays...), a)
	s.push()
}

// UpdatePVArray replaces the array with the same ID.
func (s *Store) UpdatePVArray(a PVArray) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]PVArray{}, s.current.PVArrays...)
	for i := range next {
		if next[i].ID == a.ID {
			next[i] = a
		}
	}
	s.current.PVArrays = next
	s.push()
}

// DeletePVArray removes the array with the given ID.
func (s *Store) DeletePVArray(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]PVArray, 0, len(s.current.PVArrays))
	for _, a := range s.current.PVArrays {
		if a.ID != id {
			next = append(next, a)
		}
	}
	s.current.PVArrays = next
	s.push()
}

// AddTask appends a task pin.
func (s *Store) AddTask(t PlanTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Tasks = append(append([]PlanTask{}, s.current.Tasks...), t)
	s.push()
}

// UpdateTask replaces the task with the same ID.
func (s *Store) UpdateTask(t PlanTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]PlanTask{}, s.current.Tasks...)
	for i := range next {
		if next[i].ID == t.ID {
			next[i] = t
		}
	}
	s.current.Tasks = next
	s.push()
}

// DeleteTask removes the task with the given ID.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]PlanTask, 0, len(s.current.Tasks))
	for _, t := range s.current.Tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.current.Tasks = next
	s.push()
}
