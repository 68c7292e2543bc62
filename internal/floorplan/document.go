package floorplan

// Position is a point on the markup canvas, in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by delta.
func (p Position) Add(delta Position) Position {
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Sub returns the vector from other to p.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// EquipmentItem is a placed equipment symbol (DB, socket outlet, luminaire, ...).
type EquipmentItem struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Label    string   `json:"label,omitempty"`
}

// CableRoute is a drawn cable run. From/To are free-text labels; nothing in
// this layer enforces that they name an existing equipment item.
type CableRoute struct {
	ID          string     `json:"id"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	CableType   string     `json:"cableType"`
	Points      []Position `json:"points,omitempty"`
	LengthM     float64    `json:"lengthM"`
	Termination string     `json:"termination,omitempty"`
}

// ContainmentRun is a tray, basket or conduit run.
type ContainmentRun struct {
	ID     string     `json:"id"`
	Type   string     `json:"type"` // tray | basket | conduit | trunking
	SizeMM int        `json:"sizeMm"`
	Points []Position `json:"points,omitempty"`
}

// Zone is a named area overlay.
type Zone struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Color  string     `json:"color,omitempty"`
	Points []Position `json:"points,omitempty"`
}

// PVRoof is a roof surface available for PV layout.
type PVRoof struct {
	ID           string     `json:"id"`
	Label        string     `json:"label,omitempty"`
	PitchDegrees float64    `json:"pitchDegrees"`
	Points       []Position `json:"points,omitempty"`
}

// PVArray is a panel grid placed on a roof. RoofID is a weak label reference.
type PVArray struct {
	ID         string   `json:"id"`
	RoofID     string   `json:"roofId,omitempty"`
	Position   Position `json:"position"`
	Rows       int      `json:"rows"`
	Cols       int      `json:"cols"`
	PanelWatts int      `json:"panelWatts"`
}

// PlanTask is a task pin dropped onto the plan.
type PlanTask struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Position Position `json:"position"`
	Done     bool     `json:"done"`
}

// SelectionRef is a weak reference to the currently selected entity. It is
// used only for lookup, never as an ownership edge.
type SelectionRef struct {
	Type string `json:"type"` // equipment | cable | containment | zone | pvRoof | pvArray | task
	ID   string `json:"id"`
}

// FloorPlanState is one full markup document snapshot. Entity IDs are unique
// within their own slice; cross-slice references are by label string only.
type FloorPlanState struct {
	Equipment           []EquipmentItem  `json:"equipment"`
	Cables              []CableRoute     `json:"cables"`
	Containment         []ContainmentRun `json:"containment"`
	Zones               []Zone           `json:"zones"`
	PVRoofs             []PVRoof         `json:"pvRoofs"`
	PVArrays            []PVArray        `json:"pvArrays"`
	Tasks               []PlanTask       `json:"tasks"`
	ScaleMetersPerPixel *float64         `json:"scaleMetersPerPixel,omitempty"`
	SelectedItem        *SelectionRef    `json:"selectedItem,omitempty"`
}

// EmptyState returns a fresh document with all sequences empty.
func EmptyState() FloorPlanState {
	return FloorPlanState{
		Equipment:   []EquipmentItem{},
		Cables:      []CableRoute{},
		Containment: []ContainmentRun{},
		Zones:       []Zone{},
		PVRoofs:     []PVRoof{},
		PVArrays:    []PVArray{},
		Tasks:       []PlanTask{},
	}
}

// Clone returns a deep copy. History entries must never alias the live state.
func (s FloorPlanState) Clone() FloorPlanState {
	out := s
	out.Equipment = append([]EquipmentItem{}, s.Equipment...)
	out.Cables = make([]CableRoute, len(s.Cables))
	for i, c := range s.Cables {
		c.Points = append([]Position{}, c.Points...)
		out.Cables[i] = c
	}
	out.Containment = make([]ContainmentRun, len(s.Containment))
	for i, c := range s.Containment {
		c.Points = append([]Position{}, c.Points...)
		out.Containment[i] = c
	}
	out.Zones = make([]Zone, len(s.Zones))
	for i, z := range s.Zones {
		z.Points = append([]Position{}, z.Points...)
		out.Zones[i] = z
	}
	out.PVRoofs = make([]PVRoof, len(s.PVRoofs))
	for i, r := range s.PVRoofs {
		r.Points = append([]Position{}, r.Points...)
		out.PVRoofs[i] = r
	}
	out.PVArrays = append([]PVArray{}, s.PVArrays...)
	out.Tasks = append([]PlanTask{}, s.Tasks...)
	if s.ScaleMetersPerPixel != nil {
		v := *s.ScaleMetersPerPixel
		out.ScaleMetersPerPixel = &v
	}
	if s.SelectedItem != nil {
		ref := *s.SelectedItem
		out.SelectedItem = &ref
	}
	return out
}

// Patch is a partial document update. A nil field is left untouched; a
// non-nil slice replaces the whole sequence. Callers are responsible for
// supplying internally consistent sequences.
type Patch struct {
	Equipment           *[]EquipmentItem  `json:"equipment,omitempty"`
	Cables              *[]CableRoute     `json:"cables,omitempty"`
	Containment         *[]ContainmentRun `json:"containment,omitempty"`
	Zones               *[]Zone           `json:"zones,omitempty"`
	PVRoofs             *[]PVRoof         `json:"pvRoofs,omitempty"`
	PVArrays            *[]PVArray        `json:"pvArrays,omitempty"`
	Tasks               *[]PlanTask       `json:"tasks,omitempty"`
	ScaleMetersPerPixel *float64          `json:"scaleMetersPerPixel,omitempty"`
}
