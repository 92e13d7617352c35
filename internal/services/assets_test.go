package services

import (
	"testing"

	"atelier_backend/internal/payload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLayoutAssetPrefersHighQuality(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"final_artwork": {
			"preview_url": "/uploads/temp/preview.png",
			"high_quality_url": "/uploads/temp/hq.png"
		},
		"image_preview": "/uploads/temp/fallback.png"
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 1)
	assert.Equal(t, "/uploads/temp/hq.png", candidates[0].URL)
	assert.Equal(t, SourceArtwork, candidates[0].Source)
	assert.Equal(t, "artwork.png", candidates[0].FileName)
}

func TestExtractLayoutAssetSkipsBlobAndDataURIs(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"final_artwork": {
			"preview_url": "blob:https://app/1",
			"high_quality_url": "data:image/png;base64,aGk="
		},
		"image_preview": "/uploads/temp/fallback.png"
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 1)
	assert.Equal(t, "/uploads/temp/fallback.png", candidates[0].URL)

	nothing := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"final_artwork": {"preview_url": "blob:https://app/1"}
	}`)
	assert.Empty(t, ExtractAssets(nothing))
}

func TestExtractLayoutAssetFallsBackToTextField(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"text": "/uploads/temp/abc.png"
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 1)
	assert.Equal(t, "/uploads/temp/abc.png", candidates[0].URL)
	assert.Equal(t, SourceText, candidates[0].Source)

	preview := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"image_preview": "/uploads/temp/preview.png"
	}`)
	candidates = ExtractAssets(preview)
	require.Len(t, candidates, 1)
	assert.Equal(t, SourceImagePreview, candidates[0].Source)

	list := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"final_artworks": [{"high_quality_url": "/uploads/temp/hq.png"}]
	}`)
	candidates = ExtractAssets(list)
	require.Len(t, candidates, 1)
	assert.Equal(t, SourceArtworkList, candidates[0].Source)
}

func TestExtractPhotoAssetsFallsBackToInlineData(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "PHOTOS",
		"photos": [
			{"preview_url": "/uploads/temp/a.jpg", "filename": "a.jpg"},
			{"base64": "data:image/png;base64,aGk="},
			{"preview_url": "blob:https://app/1"}
		]
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 2)

	assert.Equal(t, "/uploads/temp/a.jpg", candidates[0].URL)
	assert.Equal(t, "a.jpg", candidates[0].FileName)
	assert.Equal(t, 0, candidates[0].Index)

	// Inline data is still uploadable; browser-local blobs never are.
	assert.Equal(t, "data:image/png;base64,aGk=", candidates[1].URL)
	assert.Equal(t, "photo_2.png", candidates[1].FileName)
	assert.Equal(t, "image/png", candidates[1].MimeType)
	assert.Equal(t, 1, candidates[1].Index)
}

func TestExtractImageAssetsForFixedLayout(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "FIXED_LAYOUT",
		"images": [
			{"url": "/uploads/temp/slot1.jpg", "name": "slot1.jpg"},
			{"url": ""}
		]
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 1)
	assert.Equal(t, SourceImage, candidates[0].Source)
	assert.Equal(t, "/uploads/temp/slot1.jpg", candidates[0].URL)
}

func TestApplyUploadsRewritesArtwork(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"final_artwork": {"preview_url": "/uploads/temp/hq.png"},
		"editor_state": {"background": "data:image/png;base64,aGk="}
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 1)

	removed := ApplyUploads(p, candidates, []UploadedAsset{{
		ID:  "order_1/Frame/artwork.png",
		URL: "/files/order_1/Frame/artwork.png",
	}})
	assert.Equal(t, 1, removed)
	assert.Equal(t, "/files/order_1/Frame/artwork.png", p.DriveURL)
	assert.Equal(t, "order_1/Frame/artwork.png", p.DriveFileID)
	assert.Nil(t, p.FinalArtwork)
	assert.Empty(t, p.EditorState)
}

func TestApplyUploadsRewritesOriginatingLayoutField(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"text": "/uploads/temp/abc.png"
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 1)

	ApplyUploads(p, candidates, []UploadedAsset{{
		ID:  "order/abc.png",
		URL: "/files/order/abc.png",
	}})
	assert.Equal(t, "/files/order/abc.png", p.Text)
	assert.NotContains(t, payload.Encode(p), "/uploads/temp/")

	preview := payload.Decode(`{
		"customization_type": "DYNAMIC_LAYOUT",
		"image_preview": "/uploads/temp/preview.png",
		"final_artworks": [{"preview_url": "blob:https://app/1"}]
	}`)
	candidates = ExtractAssets(preview)
	require.Len(t, candidates, 1)

	ApplyUploads(preview, candidates, []UploadedAsset{{
		ID:  "order/artwork.png",
		URL: "/files/order/artwork.png",
	}})
	assert.Empty(t, preview.ImagePreview)
	assert.Empty(t, preview.FinalArtworks)
	assert.Equal(t, "/files/order/artwork.png", preview.DriveURL)
	assert.NotContains(t, payload.Encode(preview), "/uploads/temp/")
}

func TestApplyUploadsRewritesPhotoListInPlace(t *testing.T) {
	p := payload.Decode(`{
		"customization_type": "PHOTOS",
		"photos": [
			{"preview_url": "/uploads/temp/a.jpg", "filename": "a.jpg"},
			{"base64": "data:image/png;base64,aGk="}
		]
	}`)
	candidates := ExtractAssets(p)
	require.Len(t, candidates, 2)

	ApplyUploads(p, candidates, []UploadedAsset{
		{ID: "f/a.jpg", URL: "/files/f/a.jpg"},
		{ID: "f/photo_2.png", URL: "/files/f/photo_2.png"},
	})
	require.Len(t, p.Photos, 2)
	assert.Equal(t, "/files/f/a.jpg", p.Photos[0].PreviewURL)
	assert.Equal(t, "/files/f/a.jpg", p.Photos[0].DriveURL)
	assert.Equal(t, "/files/f/photo_2.png", p.Photos[1].PreviewURL)
	assert.Empty(t, p.Photos[1].Base64)
}

func TestExtFromRefHandlesQueriesAndMime(t *testing.T) {
	assert.Equal(t, ".png", extFromRef("/uploads/temp/a.png?sig=abc", ".jpg"))
	assert.Equal(t, ".jpg", extFromRef("/uploads/temp/noext", ".jpg"))
	assert.Equal(t, ".webp", extFromRef("data:image/webp;base64,aGk=", ".jpg"))
	assert.Equal(t, "image/png", mimeFromRef("/files/x/a.png"))
	assert.Equal(t, "image/jpeg", mimeFromRef("/files/x/unknown"))
}
