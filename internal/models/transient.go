package models

import "time"

// TransientAsset is a file uploaded before checkout, waiting to be
// attached to a customization. Finalization migrates it to durable
// storage; the TTL sweeper deletes it once ExpiresAt passes.
type TransientAsset struct {
	BaseModel
	FileName  string    `gorm:"not null;uniqueIndex" json:"file_name"`
	Path      string    `gorm:"not null" json:"path"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// Expired reports whether the asset's TTL has passed.
func (t *TransientAsset) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
