package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"atelier_backend/internal/logger"
	"atelier_backend/internal/models"
	"atelier_backend/internal/repositories"
	"atelier_backend/internal/services/dto"
	"atelier_backend/internal/storage"
	"atelier_backend/pkg/apperrors"
)

// UploadService handles pre-checkout uploads into the transient store
// and the TTL sweep that reclaims the ones never attached to an order.
type UploadService interface {
	SaveTransient(ctx context.Context, file *multipart.FileHeader) (*dto.TransientUploadResponse, error)
	SweepExpired(ctx context.Context) (int, error)
}

// UploadLimits are the intake constraints from configuration.
type UploadLimits struct {
	MaxSize      int64
	AllowedTypes []string
	TTL          time.Duration
}

type uploadService struct {
	transientRepo repositories.TransientRepository
	transient     *storage.TransientFiles
	limits        UploadLimits
}

func NewUploadService(transientRepo repositories.TransientRepository, transient *storage.TransientFiles, limits UploadLimits) UploadService {
	if limits.TTL <= 0 {
		limits.TTL = 48 * time.Hour
	}
	return &uploadService{
		transientRepo: transientRepo,
		transient:     transient,
		limits:        limits,
	}
}

func (s *uploadService) SaveTransient(ctx context.Context, file *multipart.FileHeader) (*dto.TransientUploadResponse, error) {
	if s.limits.MaxSize > 0 && file.Size > s.limits.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	mimeType := file.Header.Get("Content-Type")
	if len(s.limits.AllowedTypes) > 0 && !typeAllowed(mimeType, s.limits.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "upload", "failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "upload", "failed to read uploaded file")
	}

	ext := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%s%s", uuid.NewString(), ext)

	stored, err := s.transient.Write(fileName, data)
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "upload", "failed to store uploaded file")
	}

	asset := &models.TransientAsset{
		FileName:  stored,
		Path:      stored,
		MimeType:  mimeType,
		Size:      file.Size,
		ExpiresAt: time.Now().Add(s.limits.TTL),
	}
	if err := s.transientRepo.Create(ctx, asset); err != nil {
		s.transient.DeleteFiles([]string{stored})
		return nil, apperrors.InternalError(err)
	}

	return &dto.TransientUploadResponse{
		FileName:  stored,
		URL:       storage.TransientURLPrefix + stored,
		MimeType:  mimeType,
		Size:      file.Size,
		ExpiresAt: asset.ExpiresAt,
	}, nil
}

// SweepExpired deletes every transient asset past its TTL, files first,
// then rows. Returns the number of rows removed.
func (s *uploadService) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.transientRepo.FindExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	names := make([]string, 0, len(expired))
	for _, asset := range expired {
		names = append(names, asset.FileName)
	}

	deleted, failed := s.transient.DeleteFiles(names)
	if err := s.transientRepo.DeleteByFileNames(ctx, names); err != nil {
		return deleted, err
	}
	logger.Info("swept expired transient assets", "deleted", deleted, "failed", failed)
	return len(names), nil
}

func typeAllowed(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(t, mimeType) {
			return true
		}
	}
	return false
}
