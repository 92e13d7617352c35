package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"atelier_backend/internal/logger"
	"atelier_backend/internal/payload"
	"atelier_backend/internal/storage"
	"atelier_backend/pkg/apperrors"
)

// AssetUploader resolves one extracted candidate to raw bytes and pushes
// it into a durable folder. Resolution order: transient local path,
// remote HTTP(S) URL, inline data URI. Anything else is rejected.
type AssetUploader struct {
	folders   storage.FolderStorage
	transient *storage.TransientFiles
	client    *http.Client
}

func NewAssetUploader(folders storage.FolderStorage, transient *storage.TransientFiles, fetchTimeout time.Duration) *AssetUploader {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &AssetUploader{
		folders:   folders,
		transient: transient,
		client:    &http.Client{Timeout: fetchTimeout},
	}
}

// Upload resolves the candidate and stores it in folderID. The owning
// customization id seeds the generated fallback filename.
func (u *AssetUploader) Upload(ctx context.Context, cand AssetCandidate, folderID, customizationID string) (*UploadedAsset, error) {
	data, err := u.resolve(ctx, cand)
	if err != nil {
		return nil, err
	}

	filename := cand.FileName
	if filename == "" {
		filename = generatedFileName(customizationID, cand.MimeType)
	}

	stored, err := u.folders.UploadBuffer(ctx, data, filename, folderID, cand.MimeType)
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "finalize", fmt.Sprintf("upload of %s failed", filename))
	}

	return &UploadedAsset{
		ID:       stored.ID,
		URL:      stored.URL,
		FileName: filename,
		MimeType: cand.MimeType,
	}, nil
}

func (u *AssetUploader) resolve(ctx context.Context, cand AssetCandidate) ([]byte, error) {
	ref := cand.URL
	switch {
	case storage.IsTransientURL(ref):
		data, err := u.transient.Read(storage.FileNameFromURL(ref))
		if err != nil {
			return nil, apperrors.ErrIOFailure(err, "finalize", fmt.Sprintf("transient file %s is unreadable", ref))
		}
		return data, nil

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return u.fetch(ctx, ref)

	case payload.IsDataURI(ref):
		// Assets should be externalized before finalization; decoding
		// inline is a defensive path for legacy payloads.
		logger.Warn("decoding inline data URI during finalization", "mime", cand.MimeType)
		return decodeDataURI(ref)

	default:
		return nil, apperrors.ErrUnsupportedAssetScheme.WithDetails(map[string]string{"url": ref})
	}
}

func (u *AssetUploader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "finalize", "invalid remote asset URL")
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, apperrors.ErrIOFailure(err, "finalize", fmt.Sprintf("fetch of %s failed", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrIOFailure(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			"finalize", fmt.Sprintf("fetch of %s failed", url))
	}
	return io.ReadAll(resp.Body)
}

func decodeDataURI(ref string) ([]byte, error) {
	idx := strings.IndexByte(ref, ',')
	if idx < 0 {
		return nil, apperrors.NewBadRequestError("malformed data URI")
	}
	data, err := base64.StdEncoding.DecodeString(ref[idx+1:])
	if err != nil {
		return nil, apperrors.NewBadRequestError("malformed data URI payload")
	}
	return data, nil
}

// generatedFileName combines the owning customization id with a random
// suffix and a mime-derived extension.
func generatedFileName(customizationID, mimeType string) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		suffix = []byte{0, 0, 0, 0}
	}
	prefix := customizationID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("%s_%s%s", prefix, hex.EncodeToString(suffix), extFromMime(mimeType, ".bin"))
}
