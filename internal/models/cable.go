package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TerminationStatus tracks both ends of a cable run
type TerminationStatus string

const (
	TerminationNone TerminationStatus = "none"
	TerminationFrom TerminationStatus = "from_end"
	TerminationTo   TerminationStatus = "to_end"
	TerminationBoth TerminationStatus = "both_ends"
)

// CableEntry is one row of a project's cable schedule. FromRef/ToRef are
// free-text labels matching the markup document's equipment labels; the
// schedule does not enforce that they exist.
type CableEntry struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ProjectID   string            `gorm:"type:uuid;not null;index" json:"projectId"`
	Tag         string            `gorm:"index" json:"tag"` // e.g. C-DB1-014
	FromRef     string            `json:"fromRef"`
	ToRef       string            `json:"toRef"`
	CableType   string            `gorm:"index" json:"cableType"` // e.g. "SWA 4c 16mm"
	Cores       int               `json:"cores"`
	LengthM     float64           `json:"lengthM"`
	Terminated  TerminationStatus `gorm:"default:'none'" json:"terminated"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata    datatypes.JSON    `json:"metadata,omitempty"` // gland sizes, circuit refs, ...
	ImportedVia string            `json:"importedVia,omitempty"` // manual | csv | markup

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for CableEntry model
func (CableEntry) TableName() string {
	return "cable_entries"
}
