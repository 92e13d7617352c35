package models

// Order lifecycle statuses. OrderStatusDraft is the initial pre-payment
// state; the cleanup sweeper only ever deletes orders still in it.
const (
	OrderStatusDraft          = "draft"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusInProduction   = "in_production"
	OrderStatusShipped        = "shipped"
	OrderStatusCancelled      = "cancelled"
)

// Customization type tags. They appear both on rules and inside saved
// payloads under the customization_type key.
const (
	CustomizationTypeText          = "TEXT"
	CustomizationTypeChoice        = "CHOICE"
	CustomizationTypePhotos        = "PHOTOS"
	CustomizationTypeFixedLayout   = "FIXED_LAYOUT"
	CustomizationTypeDynamicLayout = "DYNAMIC_LAYOUT"
)
