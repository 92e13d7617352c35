package models

import "gorm.io/datatypes"

// DynamicLayout is the current store for visual-editor layout templates.
type DynamicLayout struct {
	BaseModel
	Name       string         `gorm:"not null" json:"name"`
	Definition datatypes.JSON `gorm:"type:jsonb" json:"definition,omitempty"`
	Active     bool           `gorm:"default:true" json:"active"`
}

// Layout is the legacy layout store. Lookups fall back here when the
// dynamic store has no match.
type Layout struct {
	BaseModel
	Name       string         `gorm:"not null" json:"name"`
	Definition datatypes.JSON `gorm:"type:jsonb" json:"definition,omitempty"`
}
