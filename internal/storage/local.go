package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalFolderStorage implements FolderStorage on the local filesystem.
// Folder ids are paths relative to the base directory.
type LocalFolderStorage struct {
	basePath string
	baseURL  string
}

// NewLocalFolderStorage creates a local durable store.
func NewLocalFolderStorage(cfg Config) (*LocalFolderStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./uploads/drive"
	}

	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalFolderStorage{
		basePath: cfg.BasePath,
		baseURL:  cfg.BaseURL,
	}, nil
}

func (s *LocalFolderStorage) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	rel := sanitizeSegment(name)
	if parentID != "" {
		rel = filepath.Join(parentID, rel)
	}

	if err := os.MkdirAll(filepath.Join(s.basePath, rel), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", rel, err)
	}
	return rel, nil
}

// MakeFolderPublic is a no-op: local files are served by the file handler.
func (s *LocalFolderStorage) MakeFolderPublic(ctx context.Context, folderID string) error {
	return nil
}

func (s *LocalFolderStorage) UploadBuffer(ctx context.Context, data []byte, filename, folderID, mimeType string) (*StoredFile, error) {
	rel := filepath.Join(folderID, sanitizeSegment(filename))
	fullPath := filepath.Join(s.basePath, rel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &StoredFile{
		ID:  rel,
		URL: s.urlFor(rel),
	}, nil
}

func (s *LocalFolderStorage) GetFolderURL(ctx context.Context, folderID string) (string, error) {
	return s.urlFor(folderID), nil
}

func (s *LocalFolderStorage) Owns(url string) bool {
	_, ok := s.relFromURL(url)
	return ok
}

// FileExists resolves a URL issued by this store back to a path and
// stats it. Older runs wrote files flat into the base directory and into
// a files/ subdirectory, so those layouts are checked as well.
func (s *LocalFolderStorage) FileExists(ctx context.Context, url string) (bool, error) {
	rel, ok := s.relFromURL(url)
	if !ok {
		return false, nil
	}

	candidates := []string{
		rel,
		filepath.Base(rel),
		filepath.Join("files", filepath.Base(rel)),
	}
	for _, candidate := range candidates {
		full := filepath.Join(s.basePath, candidate)
		if !strings.HasPrefix(full, filepath.Clean(s.basePath)+string(os.PathSeparator)) {
			continue
		}
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return true, nil
		}
	}
	return false, nil
}

func (s *LocalFolderStorage) urlFor(rel string) string {
	rel = filepath.ToSlash(rel)
	if s.baseURL == "" {
		return "/files/" + rel
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + rel
}

func (s *LocalFolderStorage) relFromURL(url string) (string, bool) {
	base := s.baseURL
	if base == "" {
		base = "/files"
	}
	base = strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	return filepath.FromSlash(strings.TrimPrefix(url, base)), true
}

// sanitizeSegment keeps folder and file names safe as single path
// segments.
func sanitizeSegment(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(os.PathSeparator) || name == "" {
		return "unnamed"
	}
	return name
}
