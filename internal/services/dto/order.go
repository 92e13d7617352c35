package dto

// OrderResponse is the fulfillment view of an order: line items with
// their sanitized customizations.
type OrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	CustomerName    string              `json:"customer_name,omitempty"`
	AssetsFinalized bool                `json:"assets_finalized"`
	DriveFolderID   string              `json:"drive_folder_id,omitempty"`
	DriveFolderURL  string              `json:"drive_folder_url,omitempty"`
	Items           []OrderItemResponse `json:"items"`
}

// OrderItemResponse is one line of the order view.
type OrderItemResponse struct {
	ID             string                  `json:"id"`
	ProductID      string                  `json:"product_id"`
	ProductName    string                  `json:"product_name,omitempty"`
	Quantity       int                     `json:"quantity"`
	Customizations []CustomizationResponse `json:"customizations"`
}
