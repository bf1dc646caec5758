package domain

import (
	"slices"
	"time"
)

// Category groups resources for browsing. Categories form an optional tree
// via ParentID; SupportedTypes lists the resource type names a category
// accepts.
type Category struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	SupportedTypes []string  `json:"supported_types"`
	ParentID       string    `json:"parent_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Denormalized for listings; not persisted on the category row.
	Parent        *CategoryRef  `json:"parent,omitempty"`
	Children      []CategoryRef `json:"children,omitempty"`
	ResourceCount int           `json:"resource_count"`
}

// CategoryRef is a shallow reference used when embedding parent/children.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Supports reports whether the category accepts the given resource type name.
// An empty SupportedTypes list means the category accepts everything.
func (c *Category) Supports(typeName string) bool {
	if len(c.SupportedTypes) == 0 {
		return true
	}
	return slices.Contains(c.SupportedTypes, typeName)
}
