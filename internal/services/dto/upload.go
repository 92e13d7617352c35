package dto

import "time"

// TransientUploadResponse describes a file accepted into transient
// storage. The URL is what clients embed into customization payloads.
type TransientUploadResponse struct {
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}
