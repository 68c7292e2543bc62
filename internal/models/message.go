package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is an internal project message.
type Message struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"projectId"`
	SenderID  string `gorm:"type:uuid;not null;index" json:"senderId"`
	Body      string `gorm:"type:text;not null" json:"body"`
	ReplyTo   *uint  `json:"replyTo,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Sender *UserAuth `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}
