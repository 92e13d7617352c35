package services

import (
	"context"

	"atelier_backend/internal/algorithms"
	"atelier_backend/internal/logger"
	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/services/dto"
	"atelier_backend/internal/storage"
	"atelier_backend/pkg/apperrors"
)

// CustomizationService reconciles incoming customization saves against
// existing records and produces the sanitized read view.
type CustomizationService interface {
	// Save upserts a customization for an order item, enforcing the
	// one-record-per-(rule, component) invariant.
	Save(ctx context.Context, orderItemID string, req *dto.SaveCustomizationRequest) (*dto.CustomizationResponse, error)

	// ListByOrder returns every customization of the order's items as a
	// binary-free view.
	ListByOrder(ctx context.Context, orderID string) ([]dto.CustomizationResponse, error)
}

type customizationService struct {
	customizations repositories.CustomizationRepository
	orders         repositories.OrderRepository
	transientRepo  repositories.TransientRepository
	labels         *LabelResolver
	transient      *storage.TransientFiles
}

func NewCustomizationService(
	customizations repositories.CustomizationRepository,
	orders repositories.OrderRepository,
	transientRepo repositories.TransientRepository,
	labels *LabelResolver,
	transient *storage.TransientFiles,
) CustomizationService {
	return &customizationService{
		customizations: customizations,
		orders:         orders,
		transientRepo:  transientRepo,
		labels:         labels,
		transient:      transient,
	}
}

func (s *customizationService) Save(ctx context.Context, orderItemID string, req *dto.SaveCustomizationRequest) (*dto.CustomizationResponse, error) {
	if _, err := s.customizations.FindOrderItem(ctx, orderItemID); err != nil {
		if apperrors.Is(err, repositories.ErrOrderItemNotFound) {
			return nil, apperrors.NewNotFoundError("customization", "order item", orderItemID)
		}
		return nil, apperrors.InternalError(err)
	}

	p := buildPayload(req)
	if err := s.labels.Apply(ctx, p); err != nil {
		return nil, apperrors.InternalError(err)
	}

	existing, err := s.customizations.FindByOrderItem(ctx, orderItemID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	match, tier := algorithms.ResolveExisting(req.RuleID, req.ComponentID, req.Title, existing)

	bareRule, qualifier := algorithms.SplitRuleID(req.RuleID)
	var fk *string
	if bareRule != "" && qualifier == "" {
		// Composite "rule:component" keys cannot be stored as a pure
		// foreign key; they live only inside the payload.
		fk = &bareRule
	}

	encoded := payload.Encode(p)

	if match == nil {
		record := &models.OrderItemCustomization{
			OrderItemID: orderItemID,
			RuleID:      fk,
			Payload:     encoded,
		}
		if err := s.customizations.Create(ctx, record); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return s.toResponse(record), nil
	}

	if tier == algorithms.TierTitle {
		// Title equality can misattribute when two rules share a display
		// name; worth a trace when it decides an update.
		logger.Warn("customization matched by title fallback",
			"customization_id", match.ID, "title", req.Title)
	} else {
		logger.Debug("customization save matched existing record",
			"customization_id", match.ID, "tier", int(tier))
	}

	// Transient files referenced by the previous payload but absent from
	// the new one are dead after a successful overwrite.
	orphans := replacedTransientFiles(match.Payload, p)

	match.Payload = encoded
	if match.RuleID == nil {
		match.RuleID = fk
	}
	if err := s.customizations.Update(ctx, match); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if len(orphans) > 0 {
		deleted, failed := s.transient.DeleteFiles(orphans)
		if err := s.transientRepo.DeleteByFileNames(ctx, orphans); err != nil {
			logger.Warn("failed to drop replaced transient rows", "error", err)
		}
		logger.Info("deleted replaced transient files", "deleted", deleted, "failed", failed)
	}

	return s.toResponse(match), nil
}

func (s *customizationService) ListByOrder(ctx context.Context, orderID string) ([]dto.CustomizationResponse, error) {
	order, err := s.orders.FindGraph(ctx, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("customization", "order", orderID)
		}
		return nil, apperrors.InternalError(err)
	}

	var out []dto.CustomizationResponse
	for _, item := range order.Items {
		for i := range item.Customizations {
			out = append(out, *s.toResponse(&item.Customizations[i]))
		}
	}
	return out, nil
}

func (s *customizationService) toResponse(rec *models.OrderItemCustomization) *dto.CustomizationResponse {
	return customizationView(rec)
}

// customizationView renders the binary-free view: the stored payload is
// decoded and scrubbed for display without being persisted.
func customizationView(rec *models.OrderItemCustomization) *dto.CustomizationResponse {
	p := payload.Decode(rec.Payload)
	p.Scrub()
	return &dto.CustomizationResponse{
		ID:             rec.ID,
		OrderItemID:    rec.OrderItemID,
		RuleID:         rec.RuleID,
		Payload:        p.ToMap(),
		DriveFolderID:  rec.DriveFolderID,
		DriveFolderURL: rec.DriveFolderURL,
	}
}

// buildPayload merges the submitted value tree with the envelope fields
// of the request.
func buildPayload(req *dto.SaveCustomizationRequest) *payload.Payload {
	p := payload.FromMap(req.Data)
	p.Type = req.Type
	if req.Title != "" {
		p.Title = req.Title
	}
	if req.LayoutID != "" {
		p.LayoutID = req.LayoutID
	}

	bareRule, qualifier := algorithms.SplitRuleID(req.RuleID)
	if bareRule != "" {
		p.RuleID = bareRule
	}
	if req.ComponentID != "" {
		p.ComponentID = req.ComponentID
	} else if qualifier != "" {
		p.ComponentID = qualifier
	}
	return p
}

// replacedTransientFiles returns the transient file names referenced by
// the old payload but no longer by the new one.
func replacedTransientFiles(oldRaw string, newPayload *payload.Payload) []string {
	oldRefs := payload.CollectURLs(payload.Decode(oldRaw).ToMap())
	newRefs := map[string]bool{}
	for _, ref := range payload.CollectURLs(newPayload.ToMap()) {
		newRefs[ref] = true
	}

	var orphans []string
	seen := map[string]bool{}
	for _, ref := range oldRefs {
		if !storage.IsTransientURL(ref) || newRefs[ref] {
			continue
		}
		name := storage.FileNameFromURL(ref)
		if !seen[name] {
			seen[name] = true
			orphans = append(orphans, name)
		}
	}
	return orphans
}
