package payload

import (
	"encoding/json"
	"fmt"
)

// Decode parses the persisted string form. Malformed input never fails:
// anything that is not a JSON object decodes to an empty payload, which
// downstream code treats as "no meaningful content" and "no assets".
func Decode(raw string) *Payload {
	p := &Payload{}
	if raw == "" {
		return p
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return p
	}
	p.fromMap(m)
	return p
}

// Encode serializes the payload back to its persisted string form.
func Encode(p *Payload) string {
	data, err := json.Marshal(p.ToMap())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// FromMap builds a payload from an already-decoded generic tree.
func FromMap(m map[string]interface{}) *Payload {
	p := &Payload{}
	p.fromMap(m)
	return p
}

func (p *Payload) fromMap(m map[string]interface{}) {
	p.Extra = map[string]interface{}{}
	for key, value := range m {
		switch key {
		case KeyTitle:
			p.Title = asString(value)
		case KeyType:
			p.Type = asString(value)
		case KeyText:
			p.Text = asString(value)
		case KeySelectedOptionID:
			p.SelectedOptionID = asString(value)
		case KeyOptions:
			p.Options = decodeOptions(value)
		case KeyLabel:
			p.Label = asString(value)
		case KeyComponentID:
			p.ComponentID = asString(value)
		case KeyRuleID:
			p.RuleID = asString(value)
		case KeyPhotos:
			p.Photos = decodePhotos(value)
		case KeyImages:
			p.Images = decodeImages(value)
		case KeyFinalArtwork:
			p.FinalArtwork = decodeArtwork(value)
		case KeyFinalArtworks:
			p.FinalArtworks = decodeArtworks(value)
		case KeyImagePreview:
			p.ImagePreview = asString(value)
		case KeyEditorState:
			if state, ok := value.(map[string]interface{}); ok {
				p.EditorState = state
			}
		case KeyLayoutID:
			p.LayoutID = asString(value)
		case KeyDriveFileID:
			p.DriveFileID = asString(value)
		case KeyDriveURL:
			p.DriveURL = asString(value)
		default:
			p.Extra[key] = value
		}
	}
	if len(p.Extra) == 0 {
		p.Extra = nil
	}
}

// ToMap renders the payload as a generic tree: known non-empty fields
// first, then the extra bag. The scrub pass operates on this form.
func (p *Payload) ToMap() map[string]interface{} {
	m := map[string]interface{}{}
	for key, value := range p.Extra {
		m[key] = value
	}
	setString(m, KeyTitle, p.Title)
	setString(m, KeyType, p.Type)
	setString(m, KeyText, p.Text)
	setString(m, KeySelectedOptionID, p.SelectedOptionID)
	if len(p.Options) > 0 {
		m[KeyOptions] = encodeOptions(p.Options)
	}
	setString(m, KeyLabel, p.Label)
	setString(m, KeyComponentID, p.ComponentID)
	setString(m, KeyRuleID, p.RuleID)
	if len(p.Photos) > 0 {
		m[KeyPhotos] = encodePhotos(p.Photos)
	}
	if len(p.Images) > 0 {
		m[KeyImages] = encodeImages(p.Images)
	}
	if p.FinalArtwork != nil {
		m[KeyFinalArtwork] = encodeArtwork(*p.FinalArtwork)
	}
	if len(p.FinalArtworks) > 0 {
		arts := make([]interface{}, 0, len(p.FinalArtworks))
		for _, a := range p.FinalArtworks {
			arts = append(arts, encodeArtwork(a))
		}
		m[KeyFinalArtworks] = arts
	}
	setString(m, KeyImagePreview, p.ImagePreview)
	if len(p.EditorState) > 0 {
		m[KeyEditorState] = p.EditorState
	}
	setString(m, KeyLayoutID, p.LayoutID)
	setString(m, KeyDriveFileID, p.DriveFileID)
	setString(m, KeyDriveURL, p.DriveURL)
	return m
}

func setString(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// asString tolerates numeric ids written by older clients.
func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%v", s)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func decodeOptions(v interface{}) []Option {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var opts []Option
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		opts = append(opts, Option{
			ID:    asString(m["id"]),
			Label: asString(m["label"]),
		})
	}
	return opts
}

func encodeOptions(opts []Option) []interface{} {
	out := make([]interface{}, 0, len(opts))
	for _, o := range opts {
		entry := map[string]interface{}{"id": o.ID}
		setString(entry, "label", o.Label)
		out = append(out, entry)
	}
	return out
}

func decodePhotos(v interface{}) []Photo {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var photos []Photo
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		photos = append(photos, Photo{
			PreviewURL:  asString(m["preview_url"]),
			Base64:      asString(m["base64"]),
			FileName:    asString(m["filename"]),
			DriveFileID: asString(m[KeyDriveFileID]),
			DriveURL:    asString(m[KeyDriveURL]),
		})
	}
	return photos
}

func encodePhotos(photos []Photo) []interface{} {
	out := make([]interface{}, 0, len(photos))
	for _, ph := range photos {
		entry := map[string]interface{}{}
		setString(entry, "preview_url", ph.PreviewURL)
		setString(entry, "base64", ph.Base64)
		setString(entry, "filename", ph.FileName)
		setString(entry, KeyDriveFileID, ph.DriveFileID)
		setString(entry, KeyDriveURL, ph.DriveURL)
		out = append(out, entry)
	}
	return out
}

func decodeImages(v interface{}) []ImageRef {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var images []ImageRef
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		images = append(images, ImageRef{
			URL:         asString(m["url"]),
			Base64:      asString(m["base64"]),
			Name:        asString(m["name"]),
			DriveFileID: asString(m[KeyDriveFileID]),
			DriveURL:    asString(m[KeyDriveURL]),
		})
	}
	return images
}

func encodeImages(images []ImageRef) []interface{} {
	out := make([]interface{}, 0, len(images))
	for _, img := range images {
		entry := map[string]interface{}{}
		setString(entry, "url", img.URL)
		setString(entry, "base64", img.Base64)
		setString(entry, "name", img.Name)
		setString(entry, KeyDriveFileID, img.DriveFileID)
		setString(entry, KeyDriveURL, img.DriveURL)
		out = append(out, entry)
	}
	return out
}

func decodeArtwork(v interface{}) *Artwork {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return &Artwork{
		PreviewURL:     asString(m["preview_url"]),
		HighQualityURL: asString(m["high_quality_url"]),
		DriveFileID:    asString(m[KeyDriveFileID]),
		DriveURL:       asString(m[KeyDriveURL]),
	}
}

func decodeArtworks(v interface{}) []Artwork {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var arts []Artwork
	for _, entry := range list {
		if a := decodeArtwork(entry); a != nil {
			arts = append(arts, *a)
		}
	}
	return arts
}

func encodeArtwork(a Artwork) map[string]interface{} {
	entry := map[string]interface{}{}
	setString(entry, "preview_url", a.PreviewURL)
	setString(entry, "high_quality_url", a.HighQualityURL)
	setString(entry, KeyDriveFileID, a.DriveFileID)
	setString(entry, KeyDriveURL, a.DriveURL)
	return entry
}
