package services

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"atelier_backend/internal/models"
	"atelier_backend/internal/payload"
)

// AssetSource names the payload location a candidate was extracted from,
// so the sanitizer can write the durable reference back to the same spot.
type AssetSource int

const (
	SourceArtwork AssetSource = iota
	SourceArtworkList
	SourceImagePreview
	SourceText
	SourcePhoto
	SourceImage
)

// AssetCandidate is one media reference found in a payload.
type AssetCandidate struct {
	URL      string
	FileName string
	MimeType string
	Source   AssetSource
	// Index is the position in the payload's photo/image list for
	// SourcePhoto and SourceImage candidates.
	Index int
}

// UploadedAsset is the durable counterpart of a candidate after upload.
type UploadedAsset struct {
	ID       string
	URL      string
	FileName string
	MimeType string
}

// ExtractAssets walks a payload by its declared type and returns the
// ordered candidate list. Browser-local blob: handles are always
// excluded; inline data URIs are kept only where no plain reference is
// available, since the uploader can still decode them.
func ExtractAssets(p *payload.Payload) []AssetCandidate {
	switch p.Type {
	case models.CustomizationTypeDynamicLayout:
		return extractLayoutAsset(p)
	case models.CustomizationTypePhotos:
		return extractPhotoAssets(p)
	default:
		return extractImageAssets(p)
	}
}

// extractLayoutAsset yields at most one candidate for a layout-editor
// customization, preferring the highest-fidelity artwork available. The
// candidate remembers which field it came from so the sanitizer rewrites
// that exact field.
func extractLayoutAsset(p *payload.Payload) []AssetCandidate {
	type layoutRef struct {
		url    string
		source AssetSource
	}
	var refs []layoutRef
	if p.FinalArtwork != nil {
		refs = append(refs,
			layoutRef{p.FinalArtwork.HighQualityURL, SourceArtwork},
			layoutRef{p.FinalArtwork.PreviewURL, SourceArtwork})
	}
	if len(p.FinalArtworks) > 0 {
		refs = append(refs,
			layoutRef{p.FinalArtworks[0].HighQualityURL, SourceArtworkList},
			layoutRef{p.FinalArtworks[0].PreviewURL, SourceArtworkList})
	}
	refs = append(refs, layoutRef{p.ImagePreview, SourceImagePreview})
	if payload.LooksLikeURL(p.Text) {
		refs = append(refs, layoutRef{p.Text, SourceText})
	}

	for _, ref := range refs {
		if ref.url == "" || payload.IsBlobURL(ref.url) || payload.IsDataURI(ref.url) {
			continue
		}
		return []AssetCandidate{{
			URL:      ref.url,
			FileName: artworkFileName(ref.url),
			MimeType: mimeFromRef(ref.url),
			Source:   ref.source,
		}}
	}
	return nil
}

func extractPhotoAssets(p *payload.Payload) []AssetCandidate {
	var out []AssetCandidate
	for i, photo := range p.Photos {
		ref := photo.PreviewURL
		if ref == "" || payload.IsBlobURL(ref) {
			if payload.IsDataURI(photo.Base64) {
				ref = photo.Base64
			} else {
				continue
			}
		}
		name := photo.FileName
		if name == "" {
			name = fmt.Sprintf("photo_%d%s", i+1, extFromRef(ref, ".jpg"))
		}
		out = append(out, AssetCandidate{
			URL:      ref,
			FileName: name,
			MimeType: mimeFromRef(ref),
			Source:   SourcePhoto,
			Index:    i,
		})
	}
	return out
}

// extractImageAssets handles the generic images list used by slot-based
// (fixed layout) customizations and any legacy type that carries one.
func extractImageAssets(p *payload.Payload) []AssetCandidate {
	var out []AssetCandidate
	for i, img := range p.Images {
		ref := img.URL
		if ref == "" || payload.IsBlobURL(ref) {
			if payload.IsDataURI(img.Base64) {
				ref = img.Base64
			} else {
				continue
			}
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image_%d%s", i+1, extFromRef(ref, ".jpg"))
		}
		out = append(out, AssetCandidate{
			URL:      ref,
			FileName: name,
			MimeType: mimeFromRef(ref),
			Source:   SourceImage,
			Index:    i,
		})
	}
	return out
}

// ApplyUploads rewrites the payload so every extracted reference points
// at its durable upload (index-aligned with the extractor's output), then
// runs the exhaustive recursive scrub. Returns the scrub's removal count.
func ApplyUploads(p *payload.Payload, candidates []AssetCandidate, uploaded []UploadedAsset) int {
	for i, cand := range candidates {
		if i >= len(uploaded) {
			break
		}
		up := uploaded[i]
		switch cand.Source {
		case SourceArtwork, SourceArtworkList, SourceImagePreview, SourceText:
			p.DriveFileID = up.ID
			p.DriveURL = up.URL
			p.FinalArtwork = nil
			p.FinalArtworks = nil
			p.ImagePreview = ""
			if cand.Source == SourceText {
				p.Text = up.URL
			}
		case SourcePhoto:
			if cand.Index < len(p.Photos) {
				p.Photos[cand.Index].PreviewURL = up.URL
				p.Photos[cand.Index].DriveFileID = up.ID
				p.Photos[cand.Index].DriveURL = up.URL
				p.Photos[cand.Index].Base64 = ""
			}
		case SourceImage:
			if cand.Index < len(p.Images) {
				p.Images[cand.Index].URL = up.URL
				p.Images[cand.Index].DriveFileID = up.ID
				p.Images[cand.Index].DriveURL = up.URL
				p.Images[cand.Index].Base64 = ""
			}
		}
	}
	return p.Scrub()
}

func artworkFileName(ref string) string {
	return "artwork" + extFromRef(ref, ".png")
}

// extFromRef derives a file extension from a URL path or data URI.
func extFromRef(ref, fallback string) string {
	if payload.IsDataURI(ref) {
		return extFromMime(dataURIMime(ref), fallback)
	}
	if idx := strings.IndexByte(ref, '?'); idx >= 0 {
		ref = ref[:idx]
	}
	if ext := path.Ext(ref); ext != "" && len(ext) <= 5 {
		return ext
	}
	return fallback
}

func mimeFromRef(ref string) string {
	if payload.IsDataURI(ref) {
		if m := dataURIMime(ref); m != "" {
			return m
		}
		return "application/octet-stream"
	}
	if m := mime.TypeByExtension(extFromRef(ref, "")); m != "" {
		return m
	}
	return "image/jpeg"
}

func dataURIMime(ref string) string {
	rest := strings.TrimPrefix(ref, "data:")
	if idx := strings.IndexAny(rest, ";,"); idx >= 0 {
		return rest[:idx]
	}
	return ""
}

func extFromMime(mimeType, fallback string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return fallback
	}
}
