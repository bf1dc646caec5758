package domain

import "time"

// ResourceType classifies resources (unity-assets, software-tools, …) and
// carries the per-type defaults: which file extensions belong to the type
// and the metadata document shape new resources of the type start from.
//
// A type is never deleted while resources reference it; only its
// descriptive fields change after that point.
type ResourceType struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Description     string    `json:"description,omitempty"`
	Icon            string    `json:"icon,omitempty"`
	FileExtensions  []string  `json:"file_extensions"`
	DefaultMetadata Document  `json:"default_metadata"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
