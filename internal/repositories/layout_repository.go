package repositories

import (
	"context"
	"errors"

	"atelier_backend/internal/models"

	"gorm.io/gorm"
)

type LayoutRepository interface {
	// FindDynamicByID looks up the current layout store.
	FindDynamicByID(ctx context.Context, id string) (*models.DynamicLayout, error)

	// FindLegacyByID looks up the legacy layout store.
	FindLegacyByID(ctx context.Context, id string) (*models.Layout, error)
}

type layoutRepository struct {
	db *gorm.DB
}

func NewLayoutRepository(db *gorm.DB) LayoutRepository {
	return &layoutRepository{db: db}
}

func (r *layoutRepository) FindDynamicByID(ctx context.Context, id string) (*models.DynamicLayout, error) {
	var layout models.DynamicLayout
	err := r.db.WithContext(ctx).First(&layout, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *layoutRepository) FindLegacyByID(ctx context.Context, id string) (*models.Layout, error) {
	var layout models.Layout
	err := r.db.WithContext(ctx).First(&layout, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &layout, nil
}
