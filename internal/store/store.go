package store

import (
	"context"
	"time"

	"github.com/assetbayapp/assetbay-server/internal/domain"
)

// Store is the persistence interface consumed by the service layer.
// The sqlite package provides the production implementation; tests
// substitute fakes for the slices they exercise.
type Store interface {
	AdminStore
	SessionStore
	TaxonomyStore
	ResourceStore
	ActivityStore

	Close() error
}

// AdminStore persists administrator accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, user *domain.AdminUser) error
	GetAdmin(ctx context.Context, id string) (*domain.AdminUser, error)
	GetAdminByIdentifier(ctx context.Context, identifier string) (*domain.AdminUser, error)
	CountAdmins(ctx context.Context) (int, error)
	RecordAdminLogin(ctx context.Context, id string, at time.Time) error
}

// SessionStore persists administrator login sessions.
type SessionStore interface {
	ReplaceUserSessions(ctx context.Context, session *domain.Session) error
	GetSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// TaxonomyStore persists resource types, categories, and tags.
type TaxonomyStore interface {
	CreateResourceType(ctx context.Context, t *domain.ResourceType) error
	GetResourceType(ctx context.Context, id string) (*domain.ResourceType, error)
	GetResourceTypeByName(ctx context.Context, name string) (*domain.ResourceType, error)
	ListResourceTypes(ctx context.Context) ([]*domain.ResourceType, error)

	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []string) ([]domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	ListResourceTags(ctx context.Context, resourceID string) ([]domain.Tag, error)
}

// ResourceStore persists catalog resources and their counters.
type ResourceStore interface {
	ListResources(ctx context.Context, q ResourceQuery) ([]*domain.Resource, int, error)
	SearchResources(ctx context.Context, term string, limit int) ([]*domain.Resource, int, error)
	GetResource(ctx context.Context, id string) (*domain.Resource, error)
	GetResourceBySlug(ctx context.Context, slug string) (*domain.Resource, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	CreateResource(ctx context.Context, r *domain.Resource, tagIDs []string) error
	UpdateResource(ctx context.Context, r *domain.Resource, upd ResourceUpdate) error
	DeleteResource(ctx context.Context, id string) error

	IncrementViewCounts(ctx context.Context, ids []string) error
	IncrementDownloadCount(ctx context.Context, id string) error
}

// ActivityStore persists the administrator audit trail.
type ActivityStore interface {
	CreateActivityLog(ctx context.Context, entry *domain.ActivityLog) error
	ListActivityLogs(ctx context.Context, limit int) ([]*domain.ActivityLog, error)
}
