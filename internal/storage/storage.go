package storage

import (
	"context"
	"fmt"
)

// StoredFile is the result of a durable upload: an opaque id plus a
// publicly resolvable URL. Never mutated once created.
type StoredFile struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// FolderStorage is the durable object/folder store customization assets
// are migrated into at finalization.
type FolderStorage interface {
	// CreateFolder creates (or returns) a folder under the given parent.
	// parentID may be empty for a top-level folder.
	CreateFolder(ctx context.Context, name, parentID string) (string, error)

	// MakeFolderPublic marks a folder world-readable.
	MakeFolderPublic(ctx context.Context, folderID string) error

	// UploadBuffer stores raw bytes as a file inside a folder.
	UploadBuffer(ctx context.Context, data []byte, filename, folderID, mimeType string) (*StoredFile, error)

	// GetFolderURL returns the public URL of a folder.
	GetFolderURL(ctx context.Context, folderID string) (string, error)

	// Owns reports whether a URL was issued by this store. References to
	// other hosts are outside its bookkeeping.
	Owns(url string) bool

	// FileExists verifies that a previously issued file URL still resolves
	// to stored bytes, accounting for legacy path layouts.
	FileExists(ctx context.Context, url string) (bool, error)
}

// Config holds storage configuration.
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	PublicRead bool   // Make folders public by default
}

// NewFolderStorage creates a durable store based on configuration.
func NewFolderStorage(cfg Config) (FolderStorage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalFolderStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3FolderStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
