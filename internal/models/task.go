package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus defines possible task statuses
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// SiteTask is a project task placed on the Eisenhower matrix via the
// Urgent/Important flags.
type SiteTask struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProjectID  string     `gorm:"type:uuid;not null;index" json:"projectId"`
	Title      string     `gorm:"not null" json:"title"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	Urgent     bool       `gorm:"default:false" json:"urgent"`
	Important  bool       `gorm:"default:false" json:"important"`
	Status     TaskStatus `gorm:"default:'open';index" json:"status"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	AssignedTo *string    `gorm:"type:uuid;index" json:"assignedTo,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *UserAuth `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

// TableName specifies the table name for SiteTask model
func (SiteTask) TableName() string {
	return "site_tasks"
}

// Quadrant returns the Eisenhower quadrant: do, schedule, delegate or drop.
func (t SiteTask) Quadrant() string {
	switch {
	case t.Urgent && t.Important:
		return "do"
	case t.Important:
		return "schedule"
	case t.Urgent:
		return "delegate"
	default:
		return "drop"
	}
}
