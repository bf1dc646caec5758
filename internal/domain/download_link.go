package domain

import "time"

// DownloadLink is a mirror where a resource can be obtained. Links are
// owned by their resource: they are created, replaced, and deleted only
// as part of the resource's own mutations, never shared or patched
// individually.
type DownloadLink struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	Provider   string    `json:"provider"`
	URL        string    `json:"url"`
	Price      string    `json:"price,omitempty"`
	Platform   string    `json:"platform,omitempty"`
	Quality    string    `json:"quality,omitempty"`
	IsActive   bool      `json:"is_active"`
	Metadata   Document  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
