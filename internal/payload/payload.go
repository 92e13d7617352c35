// Package payload owns the semi-structured customization value: the tagged
// union of known per-type fields, the tolerant string codec, and the
// recursive binary scrub used by finalization.
package payload

// Keys of the persisted wire format. Unknown keys survive round-trips
// through the Extra bag.
const (
	KeyTitle            = "title"
	KeyType             = "customization_type"
	KeyText             = "text"
	KeySelectedOptionID = "selected_option_id"
	KeyOptions          = "options"
	KeyLabel            = "label"
	KeyComponentID      = "component_id"
	KeyRuleID           = "rule_id"
	KeyPhotos           = "photos"
	KeyImages           = "images"
	KeyFinalArtwork     = "final_artwork"
	KeyFinalArtworks    = "final_artworks"
	KeyImagePreview     = "image_preview"
	KeyEditorState      = "editor_state"
	KeyLayoutID         = "layout_id"
	KeyDriveFileID      = "google_drive_file_id"
	KeyDriveURL         = "google_drive_url"
)

// Field names treated as embedded binary content by the scrub pass.
var binaryFieldNames = map[string]bool{
	"base64":       true,
	"image_base64": true,
	"file_data":    true,
	"raw_image":    true,
}

// Keys searched recursively when a layout id is not stored explicitly.
var layoutIDKeys = []string{"layout_id", "layoutId", "template_id", "templateId", "design_id"}

// Option is one selectable entry embedded in a choice payload.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Photo is one entry of a photo-upload customization.
type Photo struct {
	PreviewURL  string `json:"preview_url,omitempty"`
	Base64      string `json:"base64,omitempty"`
	FileName    string `json:"filename,omitempty"`
	DriveFileID string `json:"google_drive_file_id,omitempty"`
	DriveURL    string `json:"google_drive_url,omitempty"`
}

// ImageRef is one entry of the generic images list used by slot-based
// (fixed layout) customizations.
type ImageRef struct {
	URL         string `json:"url,omitempty"`
	Base64      string `json:"base64,omitempty"`
	Name        string `json:"name,omitempty"`
	DriveFileID string `json:"google_drive_file_id,omitempty"`
	DriveURL    string `json:"google_drive_url,omitempty"`
}

// Artwork is a rendered final-artwork reference produced by the visual
// layout editor.
type Artwork struct {
	PreviewURL     string `json:"preview_url,omitempty"`
	HighQualityURL string `json:"high_quality_url,omitempty"`
	DriveFileID    string `json:"google_drive_file_id,omitempty"`
	DriveURL       string `json:"google_drive_url,omitempty"`
}

// Payload is the decoded customization value. Each customization type uses
// its own subset of fields; Extra preserves anything a legacy client wrote
// that this version does not model.
type Payload struct {
	Title            string
	Type             string
	Text             string
	SelectedOptionID string
	Options          []Option
	Label            string
	ComponentID      string
	RuleID           string
	Photos           []Photo
	Images           []ImageRef
	FinalArtwork     *Artwork
	FinalArtworks    []Artwork
	ImagePreview     string
	EditorState      map[string]interface{}
	LayoutID         string
	DriveFileID      string
	DriveURL         string
	Extra            map[string]interface{}
}

// Empty reports whether the payload carries no fields at all.
func (p *Payload) Empty() bool {
	return p.Title == "" && p.Type == "" && p.Text == "" &&
		p.SelectedOptionID == "" && len(p.Options) == 0 && p.Label == "" &&
		p.ComponentID == "" && p.RuleID == "" && len(p.Photos) == 0 &&
		len(p.Images) == 0 && p.FinalArtwork == nil && len(p.FinalArtworks) == 0 &&
		p.ImagePreview == "" && len(p.EditorState) == 0 && p.LayoutID == "" &&
		p.DriveFileID == "" && p.DriveURL == "" && len(p.Extra) == 0
}

// HasContent reports whether the payload carries anything a human would
// consider a filled-in value. The cleanup sweeper deletes records for
// which this is false.
func (p *Payload) HasContent() bool {
	if p.Title != "" || p.Text != "" || p.SelectedOptionID != "" || p.Label != "" {
		return true
	}
	if len(p.Photos) > 0 || len(p.Images) > 0 {
		return true
	}
	if p.ImagePreview != "" || p.DriveURL != "" {
		return true
	}
	if p.FinalArtwork != nil && (p.FinalArtwork.PreviewURL != "" || p.FinalArtwork.HighQualityURL != "" || p.FinalArtwork.DriveURL != "") {
		return true
	}
	if len(p.FinalArtworks) > 0 || len(p.EditorState) > 0 {
		return true
	}
	return false
}

// FindLayoutID returns the explicit layout id, or the first value found
// under a known layout key anywhere in the editor state or extra bag.
func (p *Payload) FindLayoutID() string {
	if p.LayoutID != "" {
		return p.LayoutID
	}
	if id := searchLayoutID(p.EditorState); id != "" {
		return id
	}
	return searchLayoutID(p.Extra)
}

func searchLayoutID(node interface{}) string {
	switch v := node.(type) {
	case map[string]interface{}:
		for _, key := range layoutIDKeys {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		for _, child := range v {
			if id := searchLayoutID(child); id != "" {
				return id
			}
		}
	case []interface{}:
		for _, child := range v {
			if id := searchLayoutID(child); id != "" {
				return id
			}
		}
	}
	return ""
}
