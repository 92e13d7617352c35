package models

// Product is the catalog entity an order item points at. Components wrap
// catalog items; additionals are optional extras. Both carry their own
// customization rules.
type Product struct {
	BaseModel
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`

	Components  []Component  `gorm:"foreignKey:ProductID" json:"components,omitempty"`
	Additionals []Additional `gorm:"many2many:product_additionals;" json:"additionals,omitempty"`
}

// Component binds a catalog item into a product. Its own id doubles as the
// qualifier suffix in composite "rule:component" identifiers, which is what
// lets the same rule repeat across components of one product.
type Component struct {
	BaseModel
	ProductID string `gorm:"type:uuid;not null;index" json:"product_id"`
	ItemID    string `gorm:"type:uuid;not null;index" json:"item_id"`
	Position  int    `gorm:"default:0" json:"position"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// Item is a reusable catalog entry with its customization rules.
type Item struct {
	BaseModel
	Name string `gorm:"not null" json:"name"`

	Rules []CustomizationRule `gorm:"foreignKey:ItemID" json:"rules,omitempty"`
}

// Additional is an optional extra attachable to products and order items.
type Additional struct {
	BaseModel
	Name  string  `gorm:"not null" json:"name"`
	Price float64 `gorm:"default:0" json:"price"`

	Rules []CustomizationRule `gorm:"foreignKey:AdditionalID" json:"rules,omitempty"`
}
