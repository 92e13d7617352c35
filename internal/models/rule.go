package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// CustomizationRule defines what may (or must) be customized on a
// component's item or on an additional. Read-only from the perspective of
// the reconciliation subsystem.
type CustomizationRule struct {
	BaseModel
	ItemID       *string `gorm:"type:uuid;index" json:"item_id,omitempty"`
	AdditionalID *string `gorm:"type:uuid;index" json:"additional_id,omitempty"`

	Type     string `gorm:"not null" json:"type"`
	Name     string `gorm:"not null" json:"name"`
	Required bool   `gorm:"default:false" json:"required"`

	// Options holds the stored option list for choice rules or the layout
	// list for layout rules.
	Options datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`
}

// RuleOption is one entry of a choice rule's stored option list.
type RuleOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OptionList decodes the stored option list. Malformed or empty JSON
// yields an empty list, never an error.
func (r *CustomizationRule) OptionList() []RuleOption {
	if len(r.Options) == 0 {
		return nil
	}
	var opts []RuleOption
	if err := json.Unmarshal(r.Options, &opts); err != nil {
		return nil
	}
	return opts
}
