package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"atelier_backend/internal/models"
	"atelier_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/uploads/temp", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func newUploadFixture(t *testing.T, limits UploadLimits) (UploadService, *fakeTransientRepo, *storage.TransientFiles) {
	t.Helper()
	transient, err := storage.NewTransientFiles(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	trRepo := newFakeTransientRepo()
	return NewUploadService(trRepo, transient, limits), trRepo, transient
}

func TestSaveTransientStoresFileAndRow(t *testing.T) {
	svc, trRepo, transient := newUploadFixture(t, UploadLimits{
		MaxSize:      1024,
		AllowedTypes: []string{"image/png"},
		TTL:          time.Hour,
	})

	res, err := svc.SaveTransient(context.Background(), multipartFile(t, "pic.png", "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, storage.IsTransientURL(res.URL))
	assert.Equal(t, "image/png", res.MimeType)
	assert.True(t, transient.Exists(res.FileName))

	asset, err := trRepo.FindByFileName(context.Background(), res.FileName)
	require.NoError(t, err)
	assert.Equal(t, int64(len("png-bytes")), asset.Size)
	assert.WithinDuration(t, time.Now().Add(time.Hour), asset.ExpiresAt, time.Minute)
}

func TestSaveTransientRejectsOversizedFile(t *testing.T) {
	svc, _, _ := newUploadFixture(t, UploadLimits{MaxSize: 4, AllowedTypes: []string{"image/png"}})

	_, err := svc.SaveTransient(context.Background(), multipartFile(t, "big.png", "image/png", []byte("too large")))
	assert.Error(t, err)
}

func TestSaveTransientRejectsDisallowedType(t *testing.T) {
	svc, _, _ := newUploadFixture(t, UploadLimits{MaxSize: 1024, AllowedTypes: []string{"image/png"}})

	_, err := svc.SaveTransient(context.Background(), multipartFile(t, "doc.pdf", "application/pdf", []byte("%PDF")))
	assert.Error(t, err)
}

func TestSweepExpiredRemovesOnlyStaleAssets(t *testing.T) {
	svc, trRepo, transient := newUploadFixture(t, UploadLimits{TTL: time.Hour})
	ctx := context.Background()

	for name, expires := range map[string]time.Time{
		"stale.png": time.Now().Add(-time.Minute),
		"fresh.png": time.Now().Add(time.Hour),
	} {
		_, err := transient.Write(name, []byte("bytes"))
		require.NoError(t, err)
		require.NoError(t, trRepo.Create(ctx, &models.TransientAsset{
			FileName: name, Path: name, ExpiresAt: expires,
		}))
	}

	removed, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, transient.Exists("stale.png"))
	assert.True(t, transient.Exists("fresh.png"))
	_, err = trRepo.FindByFileName(ctx, "fresh.png")
	assert.NoError(t, err)
}

func TestSweepExpiredNothingToDo(t *testing.T) {
	svc, _, _ := newUploadFixture(t, UploadLimits{TTL: time.Hour})
	removed, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
