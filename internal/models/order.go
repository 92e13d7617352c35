package models

// Order is the parent aggregate for line items and their customizations.
// AssetsFinalized together with DriveFolderID is the idempotency guard for
// asset finalization: both are written exactly once, as the last step of a
// successful finalize run.
type Order struct {
	BaseModel
	CustomerName  string `gorm:"column:customer_name" json:"customer_name"`
	CustomerEmail string `gorm:"column:customer_email" json:"customer_email"`
	Status        string `gorm:"not null;default:'draft';index" json:"status"`

	AssetsFinalized bool   `gorm:"column:assets_finalized;default:false" json:"assets_finalized"`
	DriveFolderID   string `gorm:"column:drive_folder_id" json:"drive_folder_id,omitempty"`
	DriveFolderURL  string `gorm:"column:drive_folder_url" json:"drive_folder_url,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one line of an order. Its identity is immutable after
// placement; customizations attach and mutate until finalization.
type OrderItem struct {
	BaseModel
	OrderID   string `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`

	Product        *Product                 `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Additionals    []Additional             `gorm:"many2many:order_item_additionals;" json:"additionals,omitempty"`
	Customizations []OrderItemCustomization `gorm:"foreignKey:OrderItemID" json:"customizations,omitempty"`
}

// OrderItemCustomization holds one personalization slot's filled value.
//
// RuleID is nullable: a submitted identifier may be a composite
// "rule:component" key that cannot be stored as a pure foreign key, in
// which case the rule and component ids live inside the payload instead.
// At most one record may exist per (rule, component) pair per order item.
type OrderItemCustomization struct {
	BaseModel
	OrderItemID string  `gorm:"type:uuid;not null;index" json:"order_item_id"`
	RuleID      *string `gorm:"type:uuid;index" json:"rule_id,omitempty"`

	// Payload is the persisted string form of the customization value.
	// internal/payload owns its shape.
	Payload string `gorm:"type:text" json:"payload"`

	// Populated only after finalization.
	DriveFolderID  string `gorm:"column:drive_folder_id" json:"drive_folder_id,omitempty"`
	DriveFolderURL string `gorm:"column:drive_folder_url" json:"drive_folder_url,omitempty"`
}
