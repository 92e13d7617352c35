package repositories

import (
	"context"
	"errors"
	"time"

	"atelier_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTransientAssetNotFound = errors.New("transient asset not found")

type TransientRepository interface {
	Create(ctx context.Context, asset *models.TransientAsset) error
	FindByFileName(ctx context.Context, fileName string) (*models.TransientAsset, error)
	FindExpired(ctx context.Context, now time.Time) ([]models.TransientAsset, error)
	DeleteByFileNames(ctx context.Context, fileNames []string) error
}

type transientRepository struct {
	db *gorm.DB
}

func NewTransientRepository(db *gorm.DB) TransientRepository {
	return &transientRepository{db: db}
}

func (r *transientRepository) Create(ctx context.Context, asset *models.TransientAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *transientRepository) FindByFileName(ctx context.Context, fileName string) (*models.TransientAsset, error) {
	var asset models.TransientAsset
	err := r.db.WithContext(ctx).First(&asset, "file_name = ?", fileName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransientAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *transientRepository) FindExpired(ctx context.Context, now time.Time) ([]models.TransientAsset, error) {
	var expired []models.TransientAsset
	err := r.db.WithContext(ctx).Where("expires_at < ?", now).Find(&expired).Error
	return expired, err
}

func (r *transientRepository) DeleteByFileNames(ctx context.Context, fileNames []string) error {
	if len(fileNames) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("file_name IN ?", fileNames).
		Delete(&models.TransientAsset{}).Error
}
