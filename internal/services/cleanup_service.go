package services

import (
	"context"

	"atelier_backend/internal/logger"
	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/services/dto"
	"atelier_backend/pkg/apperrors"
)

// CleanupService removes customizations with no meaningful content, and
// the whole order when it turns out to be an abandoned empty draft.
type CleanupService interface {
	SweepOrder(ctx context.Context, orderID string) (*dto.CleanupResult, error)
}

type cleanupService struct {
	orders         repositories.OrderRepository
	customizations repositories.CustomizationRepository
}

func NewCleanupService(orders repositories.OrderRepository, customizations repositories.CustomizationRepository) CleanupService {
	return &cleanupService{orders: orders, customizations: customizations}
}

func (s *cleanupService) SweepOrder(ctx context.Context, orderID string) (*dto.CleanupResult, error) {
	order, err := s.orders.FindGraph(ctx, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("cleanup", "order", orderID)
		}
		return nil, apperrors.InternalError(err)
	}

	result := &dto.CleanupResult{}
	anyContent := false

	for i := range order.Items {
		for j := range order.Items[i].Customizations {
			rec := &order.Items[i].Customizations[j]
			if payload.Decode(rec.Payload).HasContent() {
				anyContent = true
				continue
			}
			if err := s.customizations.Delete(ctx, rec.ID); err != nil {
				return nil, apperrors.InternalError(err)
			}
			result.RemovedCustomizations++
		}
	}

	if !anyContent && order.Status == models.OrderStatusDraft {
		if err := s.orders.Delete(ctx, orderID); err != nil {
			return nil, apperrors.InternalError(err)
		}
		result.OrderDeleted = true
		logger.Info("deleted abandoned empty draft order", "order_id", orderID)
	}

	if result.RemovedCustomizations > 0 {
		logger.Info("swept empty customizations",
			"order_id", orderID, "removed", result.RemovedCustomizations)
	}
	return result, nil
}
