package store

import "github.com/assetbayapp/assetbay-server/internal/domain"

// ResourceSort selects the ordering of a resource listing. Every sort is
// made deterministic by a final ascending ID tie-break, so paging over
// rows with equal sort keys never skips or repeats entries.
type ResourceSort string

const (
	SortLatest   ResourceSort = "latest"  // published_at DESC
	SortPopular  ResourceSort = "popular" // download_count DESC
	SortViews    ResourceSort = "views"   // view_count DESC
	SortTitle    ResourceSort = "title"   // title ASC
	SortCreated  ResourceSort = "created" // created_at DESC
)

// ResourceQuery describes a filtered, sorted, paginated resource listing.
// All filters are combined with AND; zero values mean "no filter".
type ResourceQuery struct {
	Status     domain.ResourceStatus // lifecycle state
	TypeID     string                // resource type ID
	CategoryID string                // category ID
	Tag        string                // tag name (exact match)
	Search     string                // case-insensitive substring over title, description, keywords
	Sort       ResourceSort
	Page       PageRequest
}

// ResourceUpdate carries the relation replacements accompanying a
// resource row update. Nil slices leave the existing relation untouched;
// an empty non-nil slice clears it.
type ResourceUpdate struct {
	TagIDs        []string
	DownloadLinks []domain.DownloadLink
}
