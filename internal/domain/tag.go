package domain

import (
	"slices"
	"time"
)

// Tag labels resources. Weight controls display order: wherever a
// resource's tags are listed, higher weight sorts first. ResourceTypes
// restricts which type of resource a tag may be attached to; the
// restriction is enforced by the mutation pipeline, not the store.
type Tag struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color,omitempty"`
	ResourceTypes []string  `json:"resource_types"`
	Weight        int       `json:"weight"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AppliesTo reports whether the tag may be attached to a resource of the
// given type name. An empty ResourceTypes list means the tag is universal.
func (t *Tag) AppliesTo(typeName string) bool {
	if len(t.ResourceTypes) == 0 {
		return true
	}
	return slices.Contains(t.ResourceTypes, typeName)
}
