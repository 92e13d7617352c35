package services

import (
	"context"
	"time"

	"atelier_backend/internal/algorithms"
	"atelier_backend/internal/logger"
	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/services/dto"
	"atelier_backend/internal/storage"
	"atelier_backend/pkg/apperrors"
)

// CheckoutService cross-references an order's required customization
// rules against its filled customizations and verifies every referenced
// file still resolves. Data-quality problems are reported, never raised.
type CheckoutService interface {
	ValidateCheckout(ctx context.Context, orderID string) (*dto.CheckoutValidationResult, error)
}

type checkoutService struct {
	orders        repositories.OrderRepository
	transientRepo repositories.TransientRepository
	transient     *storage.TransientFiles
	folders       storage.FolderStorage
	now           func() time.Time
}

func NewCheckoutService(
	orders repositories.OrderRepository,
	transientRepo repositories.TransientRepository,
	transient *storage.TransientFiles,
	folders storage.FolderStorage,
) CheckoutService {
	return &checkoutService{
		orders:        orders,
		transientRepo: transientRepo,
		transient:     transient,
		folders:       folders,
		now:           time.Now,
	}
}

// filledRecord is a filled customization plus everything validation needs
// to judge it.
type filledRecord struct {
	identity    algorithms.StoredIdentity
	decoded     *payload.Payload
	structValid bool
	fileValid   bool
	reason      string
}

func (s *checkoutService) ValidateCheckout(ctx context.Context, orderID string) (*dto.CheckoutValidationResult, error) {
	order, err := s.orders.FindGraph(ctx, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("checkout", "order", orderID)
		}
		return nil, apperrors.InternalError(err)
	}

	result := &dto.CheckoutValidationResult{
		FileValidity:    map[string]bool{},
		MissingRequired: []dto.ValidationIssue{},
		InvalidFilled:   []dto.ValidationIssue{},
	}

	for i := range order.Items {
		item := &order.Items[i]
		required := requiredRules(item)
		filled := s.judgeFilled(ctx, item, result)

		for _, req := range required {
			if hasValidMatch(req, filled) {
				continue
			}
			result.MissingRequired = append(result.MissingRequired, dto.ValidationIssue{
				OrderItemID: item.ID,
				RuleID:      req.RuleID,
				ComponentID: req.ComponentID,
				RuleName:    req.Name,
				Reason:      "no valid customization for required rule",
			})
		}
	}

	result.Valid = len(result.MissingRequired) == 0 && len(result.InvalidFilled) == 0
	return result, nil
}

// requiredRules collects every required rule on the item's product
// components and additionals, each decorated with a component id so the
// same rule repeated across components stays distinguishable. Additionals
// get their own id as a synthetic component id.
func requiredRules(item *models.OrderItem) []algorithms.RequiredRule {
	var out []algorithms.RequiredRule
	if item.Product != nil {
		for _, comp := range item.Product.Components {
			if comp.Item == nil {
				continue
			}
			for _, rule := range comp.Item.Rules {
				if rule.Required {
					out = append(out, algorithms.RequiredRule{
						RuleID:      rule.ID,
						ComponentID: comp.ID,
						Name:        rule.Name,
						Type:        rule.Type,
					})
				}
			}
		}
	}
	for _, add := range item.Additionals {
		for _, rule := range add.Rules {
			if rule.Required {
				out = append(out, algorithms.RequiredRule{
					RuleID:      rule.ID,
					ComponentID: add.ID,
					Name:        rule.Name,
					Type:        rule.Type,
				})
			}
		}
	}
	return out
}

// judgeFilled evaluates every filled customization of the item and files
// issues for the invalid ones. Records with no meaningful content are
// ignored; they belong to the cleanup sweeper.
func (s *checkoutService) judgeFilled(ctx context.Context, item *models.OrderItem, result *dto.CheckoutValidationResult) []filledRecord {
	var filled []filledRecord
	for i := range item.Customizations {
		rec := &item.Customizations[i]
		p := payload.Decode(rec.Payload)
		if !p.HasContent() {
			continue
		}

		fr := filledRecord{
			identity: algorithms.IdentityOf(rec),
			decoded:  p,
		}
		fr.structValid, fr.reason = structurallyValid(p)
		if fr.structValid {
			fr.fileValid, fr.reason = s.filesResolve(ctx, p)
		}

		result.FileValidity[rec.ID] = fr.structValid && fr.fileValid
		result.HasContent = true

		if !fr.structValid || !fr.fileValid {
			result.InvalidFilled = append(result.InvalidFilled, dto.ValidationIssue{
				OrderItemID:     item.ID,
				CustomizationID: rec.ID,
				RuleID:          fr.identity.RuleID,
				ComponentID:     fr.identity.ComponentID,
				Reason:          fr.reason,
			})
		}
		filled = append(filled, fr)
	}
	return filled
}

func hasValidMatch(req algorithms.RequiredRule, filled []filledRecord) bool {
	for _, fr := range filled {
		if !fr.structValid || !fr.fileValid {
			continue
		}
		if algorithms.MatchesRequired(req, fr.identity, fr.decoded.Label) {
			return true
		}
	}
	return false
}

// structurallyValid applies the per-type shape rules.
func structurallyValid(p *payload.Payload) (bool, string) {
	switch p.Type {
	case models.CustomizationTypeText:
		if p.Text == "" {
			return false, "free text is empty"
		}
	case models.CustomizationTypeChoice:
		if p.SelectedOptionID == "" && p.Label == "" {
			return false, "no option selected"
		}
	case models.CustomizationTypePhotos:
		if !hasUsablePhoto(p) {
			return false, "no resolvable photo reference"
		}
	case models.CustomizationTypeDynamicLayout:
		if !hasUsableArtwork(p) && len(p.EditorState) == 0 && p.Label == "" {
			return false, "no artwork, editor state or label"
		}
	default:
		if p.Empty() {
			return false, "payload is empty"
		}
	}
	return true, ""
}

func hasUsablePhoto(p *payload.Payload) bool {
	for _, photo := range p.Photos {
		for _, ref := range []string{photo.DriveURL, photo.PreviewURL} {
			if ref != "" && !payload.IsBlobURL(ref) && !payload.IsDataURI(ref) {
				return true
			}
		}
	}
	return false
}

func hasUsableArtwork(p *payload.Payload) bool {
	refs := []string{p.DriveURL, p.ImagePreview}
	if p.FinalArtwork != nil {
		refs = append(refs, p.FinalArtwork.DriveURL, p.FinalArtwork.HighQualityURL, p.FinalArtwork.PreviewURL)
	}
	for _, a := range p.FinalArtworks {
		refs = append(refs, a.DriveURL, a.HighQualityURL, a.PreviewURL)
	}
	for _, ref := range refs {
		if ref != "" && !payload.IsBlobURL(ref) && !payload.IsDataURI(ref) {
			return true
		}
	}
	return false
}

// filesResolve verifies that every URL reachable anywhere in the payload
// tree points at an existing file. Browser-local and embedded-encoding
// references are rejected outright; transient references must exist and
// be unexpired; durable references are confirmed against the store's own
// bookkeeping. Foreign URLs (external hosts) are left alone.
func (s *checkoutService) filesResolve(ctx context.Context, p *payload.Payload) (bool, string) {
	for _, ref := range payload.CollectURLs(p.ToMap()) {
		switch {
		case payload.IsDataURI(ref):
			return false, "payload still carries an embedded-encoding reference"
		case payload.IsBlobURL(ref):
			return false, "payload references a browser-local file"
		case storage.IsTransientURL(ref):
			name := storage.FileNameFromURL(ref)
			asset, err := s.transientRepo.FindByFileName(ctx, name)
			if err != nil || asset.Expired(s.now()) || !s.transient.Exists(name) {
				return false, "transient file is missing or expired"
			}
		case s.folders.Owns(ref):
			exists, err := s.folders.FileExists(ctx, ref)
			if err != nil {
				logger.Warn("durable file check failed", "url", ref, "error", err)
				return false, "durable file check failed"
			}
			if !exists {
				return false, "durable file is missing"
			}
		}
	}
	return true, ""
}
