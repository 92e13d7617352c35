package dto

// SaveCustomizationRequest is the body of a customization save. RuleID
// may carry a component qualifier ("rule:component"); Data is the
// type-specific value tree as submitted by the client.
type SaveCustomizationRequest struct {
	RuleID      string                 `json:"rule_id"`
	ComponentID string                 `json:"component_id"`
	Type        string                 `json:"customization_type" validate:"required"`
	Title       string                 `json:"title"`
	LayoutID    string                 `json:"layout_id"`
	Data        map[string]interface{} `json:"data"`
}

// CustomizationResponse is the sanitized view of a stored customization.
type CustomizationResponse struct {
	ID             string                 `json:"id"`
	OrderItemID    string                 `json:"order_item_id"`
	RuleID         *string                `json:"rule_id,omitempty"`
	Payload        map[string]interface{} `json:"payload"`
	DriveFolderID  string                 `json:"drive_folder_id,omitempty"`
	DriveFolderURL string                 `json:"drive_folder_url,omitempty"`
}

// Finalization terminal states.
const (
	FinalizeStatusFinalized        = "finalized"
	FinalizeStatusAlreadyFinalized = "already-finalized"
	FinalizeStatusEmpty            = "empty"
)

// FinalizeResult is the outcome of an order finalization run.
type FinalizeResult struct {
	Status                 string   `json:"status"`
	FolderID               string   `json:"folder_id,omitempty"`
	FolderURL              string   `json:"folder_url,omitempty"`
	UploadedCount          int      `json:"uploaded_count"`
	ResidualBinaryDetected bool     `json:"residual_binary_detected"`
	AffectedIDs            []string `json:"affected_ids,omitempty"`
}

// ValidationIssue itemizes one checkout-validation problem.
type ValidationIssue struct {
	OrderItemID     string `json:"order_item_id"`
	RuleID          string `json:"rule_id,omitempty"`
	ComponentID     string `json:"component_id,omitempty"`
	RuleName        string `json:"rule_name,omitempty"`
	CustomizationID string `json:"customization_id,omitempty"`
	Reason          string `json:"reason"`
}

// CheckoutValidationResult is the structured report returned by checkout
// validation. It is always returned, never raised, for data-quality
// problems.
type CheckoutValidationResult struct {
	Valid           bool              `json:"valid"`
	HasContent      bool              `json:"has_content"`
	FileValidity    map[string]bool   `json:"file_validity"`
	MissingRequired []ValidationIssue `json:"missing_required"`
	InvalidFilled   []ValidationIssue `json:"invalid_filled"`
}

// CleanupResult reports what the sweep removed.
type CleanupResult struct {
	RemovedCustomizations int  `json:"removed_customizations"`
	OrderDeleted          bool `json:"order_deleted"`
}
