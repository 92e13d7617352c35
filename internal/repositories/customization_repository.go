package repositories

import (
	"context"
	"errors"

	"atelier_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderItemNotFound     = errors.New("order item not found")
	ErrCustomizationNotFound = errors.New("customization not found")
)

type CustomizationRepository interface {
	FindOrderItem(ctx context.Context, id string) (*models.OrderItem, error)
	FindByID(ctx context.Context, id string) (*models.OrderItemCustomization, error)
	FindByOrderItem(ctx context.Context, orderItemID string) ([]models.OrderItemCustomization, error)
	Create(ctx context.Context, c *models.OrderItemCustomization) error
	Update(ctx context.Context, c *models.OrderItemCustomization) error
	Delete(ctx context.Context, id string) error
}

type customizationRepository struct {
	db *gorm.DB
}

func NewCustomizationRepository(db *gorm.DB) CustomizationRepository {
	return &customizationRepository{db: db}
}

func (r *customizationRepository) FindOrderItem(ctx context.Context, id string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *customizationRepository) FindByID(ctx context.Context, id string) (*models.OrderItemCustomization, error) {
	var c models.OrderItemCustomization
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customizationRepository) FindByOrderItem(ctx context.Context, orderItemID string) ([]models.OrderItemCustomization, error) {
	var list []models.OrderItemCustomization
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *customizationRepository) Create(ctx context.Context, c *models.OrderItemCustomization) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customizationRepository) Update(ctx context.Context, c *models.OrderItemCustomization) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customizationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.OrderItemCustomization{}, "id = ?", id).Error
}
