package domain

import "time"

// ResourceStatus is the lifecycle state of a resource.
type ResourceStatus string

// Resource lifecycle states. A resource starts as a draft, becomes
// visible to the public API when published, and drops out of public
// listings when archived. Archived resources can still be deleted.
const (
	StatusDraft     ResourceStatus = "draft"
	StatusPublished ResourceStatus = "published"
	StatusArchived  ResourceStatus = "archived"
)

// IsValid reports whether s is a known lifecycle state.
func (s ResourceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Resource is the aggregate root of the catalog: a shareable digital
// asset with a type, a category, weighted tags, and owned download links.
//
// Slug is globally unique across all statuses. PublishedAt is stamped on
// the first transition into published and never cleared afterwards, even
// when the resource is archived. The view and download counters are only
// ever adjusted by atomic store-level increments.
type Resource struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Description     string         `json:"description"`
	Thumbnail       string         `json:"thumbnail,omitempty"`
	FileSize        string         `json:"file_size,omitempty"`
	Version         string         `json:"version,omitempty"`
	Status          ResourceStatus `json:"status"`
	PublishedAt     *time.Time     `json:"published_at,omitempty"`
	TypeID          string         `json:"type_id"`
	CategoryID      string         `json:"category_id"`
	Metadata        Document       `json:"metadata"`
	Previews        []Document     `json:"previews"`
	MetaTitle       string         `json:"meta_title,omitempty"`
	MetaDescription string         `json:"meta_description,omitempty"`
	Keywords        string         `json:"keywords,omitempty"`
	DownloadCount   int64          `json:"download_count"`
	ViewCount       int64          `json:"view_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relations, populated by the store on reads. Tags are always ordered
	// by weight descending; links are ordered by creation time.
	Type          *ResourceType  `json:"type,omitempty"`
	Category      *Category      `json:"category,omitempty"`
	Tags          []Tag          `json:"tags"`
	DownloadLinks []DownloadLink `json:"download_links"`
}

// IsPublished reports whether the resource is publicly visible.
func (r *Resource) IsPublished() bool {
	return r.Status == StatusPublished
}
