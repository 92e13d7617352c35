package services

import (
	"context"

	"atelier_backend/internal/repositories"
	"atelier_backend/internal/services/dto"
	"atelier_backend/pkg/apperrors"
)

// OrderService exposes the read view of orders for fulfillment staff.
type OrderService interface {
	GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error)
}

type orderService struct {
	orders repositories.OrderRepository
}

func NewOrderService(orders repositories.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orders.FindGraph(ctx, orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order", "order", orderID)
		}
		return nil, apperrors.InternalError(err)
	}

	res := &dto.OrderResponse{
		ID:              order.ID,
		Status:          order.Status,
		CustomerName:    order.CustomerName,
		AssetsFinalized: order.AssetsFinalized,
		DriveFolderID:   order.DriveFolderID,
		DriveFolderURL:  order.DriveFolderURL,
		Items:           []dto.OrderItemResponse{},
	}
	for i := range order.Items {
		item := &order.Items[i]
		out := dto.OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			Customizations: []dto.CustomizationResponse{},
		}
		if item.Product != nil {
			out.ProductName = item.Product.Name
		}
		for j := range item.Customizations {
			out.Customizations = append(out.Customizations, *customizationView(&item.Customizations[j]))
		}
		res.Items = append(res.Items, out)
	}
	return res, nil
}
