package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FloorPlanDocument is the persisted form of a markup document. State holds
// the full JSON snapshot exactly as the editing session produced it; the
// server treats it as opaque apart from unmarshalling into
// floorplan.FloorPlanState when a session opens.
type FloorPlanDocument struct {
	ID                  string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProjectID           string         `gorm:"type:uuid;not null;index" json:"projectId"`
	Name                string         `gorm:"not null" json:"name"`
	DrawingRef          string         `json:"drawingRef,omitempty"` // source drawing number
	State               datatypes.JSON `json:"state"`
	ScaleMetersPerPixel *float64       `json:"scaleMetersPerPixel,omitempty"`
	Revision            int            `gorm:"default:0" json:"revision"` // bumped on every autosave commit
	UpdatedBy           string         `gorm:"type:uuid" json:"updatedBy,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for FloorPlanDocument model
func (FloorPlanDocument) TableName() string {
	return "floor_plan_documents"
}
