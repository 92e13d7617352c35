package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atelier_backend/internal/logger"
)

// TransientURLPrefix is the public path under which pre-checkout uploads
// are served. Asset references carrying this prefix are the ones
// finalization migrates to durable storage.
const TransientURLPrefix = "/uploads/temp/"

// TransientFiles is the filesystem side of the transient store. Row-level
// bookkeeping (expiry, mime, size) lives in the transient repository.
type TransientFiles struct {
	basePath  string
	backupDir string
}

// NewTransientFiles creates the transient file store rooted at basePath.
func NewTransientFiles(basePath, backupDir string) (*TransientFiles, error) {
	if basePath == "" {
		basePath = "./uploads/temp"
	}
	if backupDir == "" {
		backupDir = "./uploads/backup"
	}
	for _, dir := range []string{basePath, backupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create transient directory %s: %w", dir, err)
		}
	}
	return &TransientFiles{basePath: basePath, backupDir: backupDir}, nil
}

// IsTransientURL reports whether a reference points into this store.
func IsTransientURL(url string) bool {
	return strings.HasPrefix(url, TransientURLPrefix)
}

// FileNameFromURL strips the public prefix from a transient URL.
func FileNameFromURL(url string) string {
	return strings.TrimPrefix(url, TransientURLPrefix)
}

// resolve maps a file name to an absolute path, rejecting anything that
// escapes the storage root.
func (t *TransientFiles) resolve(fileName string) (string, error) {
	full := filepath.Join(t.basePath, filepath.FromSlash(fileName))
	root := filepath.Clean(t.basePath) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(full), root) {
		return "", fmt.Errorf("path %q escapes transient storage", fileName)
	}
	return full, nil
}

// Write stores uploaded bytes and returns the file name to reference
// them by.
func (t *TransientFiles) Write(fileName string, data []byte) (string, error) {
	fileName = sanitizeSegment(fileName)
	full, err := t.resolve(fileName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write transient file: %w", err)
	}
	return fileName, nil
}

// Read returns the bytes of a transient file. Missing files are an error:
// by the time finalization reads a reference the upload must still exist.
func (t *TransientFiles) Read(fileName string) ([]byte, error) {
	full, err := t.resolve(fileName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Exists reports whether the file is present on disk.
func (t *TransientFiles) Exists(fileName string) bool {
	full, err := t.resolve(fileName)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// Backup copies a file into the backup directory. Finalization backs
// every referenced file up before deleting it.
func (t *TransientFiles) Backup(fileName string) error {
	full, err := t.resolve(fileName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	target := filepath.Join(t.backupDir, sanitizeSegment(fileName))
	return os.WriteFile(target, data, 0o644)
}

// DeleteFiles removes the named files, returning deleted and failed
// counts. Missing files count as deleted.
func (t *TransientFiles) DeleteFiles(fileNames []string) (deleted, failed int) {
	for _, name := range fileNames {
		full, err := t.resolve(name)
		if err != nil {
			failed++
			continue
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to delete transient file", "file", name, "error", err)
			failed++
			continue
		}
		deleted++
	}
	return deleted, failed
}
