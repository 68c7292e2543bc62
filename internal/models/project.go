package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectStatus defines possible project statuses
type ProjectStatus string

const (
	ProjectStatusTender    ProjectStatus = "tender"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project is the tenancy root: every domain row hangs off a project and
// access is granted through ProjectMember rows.
type Project struct {
	ID          string        `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	ProjectCode string        `gorm:"uniqueIndex;not null" json:"projectCode"`
	ClientName  string        `json:"clientName,omitempty"`
	SiteAddress string        `json:"siteAddress,omitempty"`
	Status      ProjectStatus `gorm:"default:'active';index" json:"status"`
	CreatedBy   string        `gorm:"type:uuid;index" json:"createdBy"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

// TableName specifies the table name for Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate generates a project code when none is supplied
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectCode == "" {
		p.ProjectCode = "PRJ" + time.Now().Format("20060102") + "-" + randomString(4)
	}
	return nil
}

// ProjectMember grants a user a role on one project.
type ProjectMember struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;uniqueIndex:idx_project_user" json:"projectId"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_project_user" json:"userId"`
	Role      string `gorm:"default:'viewer'" json:"role"` // viewer | editor | owner

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User *UserAuth `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for ProjectMember model
func (ProjectMember) TableName() string {
	return "project_members"
}

// CanEdit reports whether the membership role allows mutations
func (m ProjectMember) CanEdit() bool {
	return m.Role == "editor" || m.Role == "owner"
}

// randomString generates a random string of given length
func randomString(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	now := time.Now().UnixNano()
	for i := 0; i < length; i++ {
		result[i] = charset[(now+int64(i*7))%int64(len(charset))]
	}
	return string(result)
}
