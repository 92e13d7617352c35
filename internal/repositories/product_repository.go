package repositories

import (
	"context"
	"errors"

	"atelier_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRuleNotFound = errors.New("customization rule not found")

type ProductRepository interface {
	FindRuleByID(ctx context.Context, id string) (*models.CustomizationRule, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindRuleByID(ctx context.Context, id string) (*models.CustomizationRule, error) {
	var rule models.CustomizationRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
