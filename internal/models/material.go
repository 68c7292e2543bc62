package models

import "time"

// MaterialPrice is a unit price pulled from the ERP price list, keyed by the
// cable/material type string used in cable schedules and markup documents.
type MaterialPrice struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"uniqueIndex;not null" json:"code"` // matches CableEntry.CableType
	Description  string    `json:"description,omitempty"`
	UnitPrice    float64   `json:"unitPrice"` // per metre for cable, per unit otherwise
	Currency     string    `gorm:"default:'EUR'" json:"currency"`
	Source       string    `gorm:"default:'erp'" json:"source"` // erp | manual
	LastSyncedAt time.Time `json:"lastSyncedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for MaterialPrice model
func (MaterialPrice) TableName() string {
	return "material_prices"
}
