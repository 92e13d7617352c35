package repositories

import (
	"context"
	"errors"

	"atelier_backend/internal/models"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)

	// FindGraph loads the order with items, their customizations, the
	// product graph (components with item names and rules) and
	// additionals. Finalization and checkout validation both read this
	// shape.
	FindGraph(ctx context.Context, id string) (*models.Order, error)

	Update(ctx context.Context, order *models.Order) error

	// SetFolder persists the durable main-folder linkage and flips the
	// finalization idempotency flag in one write.
	SetFolder(ctx context.Context, orderID, folderID, folderURL string) error

	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindGraph(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Customizations").
		Preload("Items.Product").
		Preload("Items.Product.Components").
		Preload("Items.Product.Components.Item").
		Preload("Items.Product.Components.Item.Rules").
		Preload("Items.Additionals").
		Preload("Items.Additionals.Rules").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) SetFolder(ctx context.Context, orderID, folderID, folderURL string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"drive_folder_id":  folderID,
			"drive_folder_url": folderURL,
			"assets_finalized": true,
		}).Error
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Select("Items").
		Delete(&models.Order{BaseModel: models.BaseModel{ID: id}}).Error
}
