package domain

// Document is a loosely structured JSON value carried by entities whose
// shape varies per resource type (metadata, previews, link extras).
// The expected keys for a resource's metadata come from its type's
// DefaultMetadata; the store persists documents as JSON text.
type Document map[string]any
