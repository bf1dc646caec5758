package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	domainerrors "github.com/assetbayapp/assetbay-server/internal/errors"
	"github.com/assetbayapp/assetbay-server/internal/id"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/util"
	"github.com/assetbayapp/assetbay-server/internal/validation"
)

const (
	// Listing defaults. The public browse page shows 12 cards; the admin
	// table shows 10 rows.
	publicDefaultLimit = 12
	adminDefaultLimit  = 10
	maxLimit           = 100

	// Search terms shorter than this return an empty result instead of
	// scanning the whole catalog for one-character matches.
	minSearchLength    = 2
	searchDefaultLimit = 10
)

// ResourceService implements the catalog: public browsing and the
// administrator mutation pipeline.
type ResourceService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewResourceService creates a new resource service.
func NewResourceService(st store.Store, validator *validation.Validator, logger *slog.Logger) *ResourceService {
	return &ResourceService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// ListParams are the raw listing knobs accepted from query strings.
type ListParams struct {
	Status   string
	TypeID   string
	Category string
	Tag      string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// ResourceList is one page of resources with its window metadata and the
// filters that produced it.
type ResourceList struct {
	Resources  []*domain.Resource `json:"resources"`
	Pagination store.Pagination   `json:"pagination"`
	Filters    ListFilters        `json:"filters"`
}

// ListFilters echoes the applied filters back to the caller.
type ListFilters struct {
	Status   string `json:"status,omitempty"`
	TypeID   string `json:"type_id,omitempty"`
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Search   string `json:"search,omitempty"`
	Sort     string `json:"sort"`
}

// ListPublic returns a page of published resources. The status filter is
// forced to published regardless of what the caller asked for.
func (s *ResourceService) ListPublic(ctx context.Context, params ListParams) (*ResourceList, error) {
	params.Status = string(domain.StatusPublished)
	if params.Sort == "" {
		params.Sort = string(store.SortLatest)
	}
	return s.list(ctx, params, publicDefaultLimit)
}

// ListAdmin returns a page of resources in any lifecycle state, newest
// first by default.
func (s *ResourceService) ListAdmin(ctx context.Context, params ListParams) (*ResourceList, error) {
	if params.Status != "" && !domain.ResourceStatus(params.Status).IsValid() {
		return nil, domainerrors.Validationf("unknown status %q", params.Status)
	}
	if params.Sort == "" {
		params.Sort = string(store.SortCreated)
	}
	return s.list(ctx, params, adminDefaultLimit)
}

func (s *ResourceService) list(ctx context.Context, params ListParams, defaultLimit int) (*ResourceList, error) {
	page := store.PageRequest{Page: params.Page, Limit: params.Limit}
	page.Clamp(defaultLimit, maxLimit)

	query := store.ResourceQuery{
		Status: domain.ResourceStatus(params.Status),
		TypeID: params.TypeID,
		Tag:    params.Tag,
		Search: strings.TrimSpace(params.Search),
		Sort:   store.ResourceSort(params.Sort),
		Page:   page,
	}

	// The category filter accepts either an ID or a slug.
	if params.Category != "" {
		query.CategoryID = params.Category
		if c, err := s.store.GetCategoryBySlug(ctx, params.Category); err == nil {
			query.CategoryID = c.ID
		}
	}

	resources, total, err := s.store.ListResources(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	if resources == nil {
		resources = []*domain.Resource{}
	}

	return &ResourceList{
		Resources:  resources,
		Pagination: store.NewPagination(page, total),
		Filters: ListFilters{
			Status:   params.Status,
			TypeID:   params.TypeID,
			Category: params.Category,
			Tag:      params.Tag,
			Search:   query.Search,
			Sort:     params.Sort,
		},
	}, nil
}

// SearchResult is one page of search matches with the full match count
// under the same predicate and the term that produced it.
type SearchResult struct {
	Resources []*domain.Resource `json:"resources"`
	Total     int                `json:"total"`
	Query     string             `json:"query"`
}

// Search returns published resources matching a free-text term, most
// downloaded first. Terms shorter than two characters yield an empty
// result.
func (s *ResourceService) Search(ctx context.Context, term string, limit int) (*SearchResult, error) {
	term = strings.TrimSpace(term)
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if len(term) < minSearchLength {
		return &SearchResult{Resources: []*domain.Resource{}, Query: term}, nil
	}

	resources, total, err := s.store.SearchResources(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	if resources == nil {
		resources = []*domain.Resource{}
	}
	return &SearchResult{Resources: resources, Total: total, Query: term}, nil
}

// GetPublished returns a published resource by slug and records a view.
// Draft and archived resources are invisible here; both a missing slug
// and an unpublished one report not found.
func (s *ResourceService) GetPublished(ctx context.Context, slug string) (*domain.Resource, error) {
	resource, err := s.store.GetResourceBySlug(ctx, slug)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("resource not found")
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	if !resource.IsPublished() {
		return nil, domainerrors.NotFound("resource not found")
	}

	s.RecordViews([]string{resource.ID})
	return resource, nil
}

// Get returns a resource by ID regardless of status.
func (s *ResourceService) Get(ctx context.Context, resourceID string) (*domain.Resource, error) {
	resource, err := s.store.GetResource(ctx, resourceID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("resource not found")
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return resource, nil
}

// RecordViews bumps view counters for the given resources without
// blocking the caller. Counter updates are best-effort: failures are
// logged and never surface to the reader who triggered them.
func (s *ResourceService) RecordViews(ids []string) {
	if len(ids) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.IncrementViewCounts(ctx, ids); err != nil {
			if s.logger != nil {
				s.logger.Warn("Failed to record views", "count", len(ids), "error", err)
			}
		}
	}()
}

// RecordDownload bumps a published resource's download counter. Unlike
// views this is synchronous; the handler confirms the count was taken.
func (s *ResourceService) RecordDownload(ctx context.Context, slug string) error {
	resource, err := s.store.GetResourceBySlug(ctx, slug)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("resource not found")
		}
		return fmt.Errorf("get resource: %w", err)
	}
	if !resource.IsPublished() {
		return domainerrors.NotFound("resource not found")
	}
	if err := s.store.IncrementDownloadCount(ctx, resource.ID); err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}

// DownloadLinkInput is a download link supplied on create or update.
type DownloadLinkInput struct {
	Provider string          `json:"provider" validate:"required,max=100"`
	URL      string          `json:"url" validate:"required,url"`
	Price    string          `json:"price,omitempty" validate:"max=50"`
	Platform string          `json:"platform,omitempty" validate:"max=100"`
	Quality  string          `json:"quality,omitempty" validate:"max=50"`
	IsActive *bool           `json:"is_active,omitempty"`
	Metadata domain.Document `json:"metadata,omitempty"`
}

// CreateResourceRequest is the payload for creating a resource.
type CreateResourceRequest struct {
	Title           string              `json:"title" validate:"required,min=1,max=200"`
	Slug            string              `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description     string              `json:"description,omitempty" validate:"max=10000"`
	Thumbnail       string              `json:"thumbnail,omitempty" validate:"max=500"`
	FileSize        string              `json:"file_size,omitempty" validate:"max=50"`
	Version         string              `json:"version,omitempty" validate:"max=50"`
	Status          string              `json:"status,omitempty" validate:"omitempty,status"`
	TypeID          string              `json:"type_id" validate:"required"`
	CategoryID      string              `json:"category_id" validate:"required"`
	Metadata        domain.Document     `json:"metadata,omitempty"`
	Previews        []domain.Document   `json:"previews,omitempty"`
	MetaTitle       string              `json:"meta_title,omitempty" validate:"max=200"`
	MetaDescription string              `json:"meta_description,omitempty" validate:"max=500"`
	Keywords        string              `json:"keywords,omitempty" validate:"max=500"`
	TagIDs          []string            `json:"tag_ids,omitempty"`
	DownloadLinks   []DownloadLinkInput `json:"download_links,omitempty" validate:"dive"`
}

// Create runs the resource creation pipeline: validate, resolve type and
// category, derive and reserve the slug, resolve tags, then write the
// resource with its links and tag attachments in one transaction.
func (s *ResourceService) Create(ctx context.Context, actor *domain.AdminUser, req CreateResourceRequest) (*domain.Resource, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	resourceType, category, err := s.resolveTaxonomy(ctx, req.TypeID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	status := domain.StatusDraft
	if req.Status != "" {
		status = domain.ResourceStatus(req.Status)
	}

	slug := req.Slug
	if slug == "" {
		slug = util.NormalizeSlug(req.Title)
	}
	if slug == "" {
		return nil, domainerrors.Validation("title does not produce a usable slug")
	}
	taken, err := s.store.SlugExists(ctx, slug, "")
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, domainerrors.Conflict(fmt.Sprintf("slug %q is already in use", slug))
	}

	tags, err := s.resolveTags(ctx, req.TagIDs, resourceType, category)
	if err != nil {
		return nil, err
	}

	resourceID, err := id.New("res")
	if err != nil {
		return nil, fmt.Errorf("generate resource ID: %w", err)
	}

	now := time.Now()
	resource := &domain.Resource{
		ID:              resourceID,
		Title:           req.Title,
		Slug:            slug,
		Description:     req.Description,
		Thumbnail:       req.Thumbnail,
		FileSize:        req.FileSize,
		Version:         req.Version,
		Status:          status,
		TypeID:          resourceType.ID,
		CategoryID:      category.ID,
		Metadata:        req.Metadata,
		Previews:        req.Previews,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Keywords:        req.Keywords,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if resource.Metadata == nil {
		resource.Metadata = resourceType.DefaultMetadata
	}
	if status == domain.StatusPublished {
		resource.PublishedAt = &now
	}

	resource.DownloadLinks, err = s.buildLinks(resourceID, req.DownloadLinks, now)
	if err != nil {
		return nil, err
	}

	tagIDs := make([]string, len(tags))
	for i, tag := range tags {
		tagIDs[i] = tag.ID
	}

	if err := s.store.CreateResource(ctx, resource, tagIDs); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("slug %q is already in use", slug))
		}
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.auditCreate(ctx, actor, resource)

	if s.logger != nil {
		s.logger.Info("Resource created",
			"resource_id", resourceID,
			"slug", slug,
			"status", string(status),
		)
	}

	return s.Get(ctx, resourceID)
}

// UpdateResourceRequest is the payload for a partial resource update.
// Nil pointers leave the field untouched.
type UpdateResourceRequest struct {
	Title           *string              `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Slug            *string              `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description     *string              `json:"description,omitempty" validate:"omitempty,max=10000"`
	Thumbnail       *string              `json:"thumbnail,omitempty" validate:"omitempty,max=500"`
	FileSize        *string              `json:"file_size,omitempty" validate:"omitempty,max=50"`
	Version         *string              `json:"version,omitempty" validate:"omitempty,max=50"`
	Status          *string              `json:"status,omitempty" validate:"omitempty,status"`
	TypeID          *string              `json:"type_id,omitempty"`
	CategoryID      *string              `json:"category_id,omitempty"`
	Metadata        *domain.Document     `json:"metadata,omitempty"`
	Previews        *[]domain.Document   `json:"previews,omitempty"`
	MetaTitle       *string              `json:"meta_title,omitempty" validate:"omitempty,max=200"`
	MetaDescription *string              `json:"meta_description,omitempty" validate:"omitempty,max=500"`
	Keywords        *string              `json:"keywords,omitempty" validate:"omitempty,max=500"`
	TagIDs          *[]string            `json:"tag_ids,omitempty"`
	DownloadLinks   *[]DownloadLinkInput `json:"download_links,omitempty" validate:"omitempty,dive"`
}

// Update applies a partial update to a resource. Tag and link lists, when
// present, replace the existing sets wholesale. PublishedAt is stamped on
// the first transition into published and kept on all later transitions.
func (s *ResourceService) Update(ctx context.Context, actor *domain.AdminUser, resourceID string, req UpdateResourceRequest) (*domain.Resource, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	resource, err := s.store.GetResource(ctx, resourceID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("resource not found")
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}

	// The audit entry names every field the request touched.
	var touched []string

	if req.TypeID != nil {
		resource.TypeID = *req.TypeID
		touched = append(touched, "type_id")
	}
	if req.CategoryID != nil {
		resource.CategoryID = *req.CategoryID
		touched = append(touched, "category_id")
	}
	resourceType, category, err := s.resolveTaxonomy(ctx, resource.TypeID, resource.CategoryID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		resource.Title = *req.Title
		touched = append(touched, "title")
	}
	if req.Slug != nil {
		touched = append(touched, "slug")
		if *req.Slug != resource.Slug {
			taken, err := s.store.SlugExists(ctx, *req.Slug, resource.ID)
			if err != nil {
				return nil, fmt.Errorf("check slug: %w", err)
			}
			if taken {
				return nil, domainerrors.Conflict(fmt.Sprintf("slug %q is already in use", *req.Slug))
			}
			resource.Slug = *req.Slug
		}
	}
	if req.Description != nil {
		resource.Description = *req.Description
		touched = append(touched, "description")
	}
	if req.Thumbnail != nil {
		resource.Thumbnail = *req.Thumbnail
		touched = append(touched, "thumbnail")
	}
	if req.FileSize != nil {
		resource.FileSize = *req.FileSize
		touched = append(touched, "file_size")
	}
	if req.Version != nil {
		resource.Version = *req.Version
		touched = append(touched, "version")
	}
	if req.Metadata != nil {
		resource.Metadata = *req.Metadata
		touched = append(touched, "metadata")
	}
	if req.Previews != nil {
		resource.Previews = *req.Previews
		touched = append(touched, "previews")
	}
	if req.MetaTitle != nil {
		resource.MetaTitle = *req.MetaTitle
		touched = append(touched, "meta_title")
	}
	if req.MetaDescription != nil {
		resource.MetaDescription = *req.MetaDescription
		touched = append(touched, "meta_description")
	}
	if req.Keywords != nil {
		resource.Keywords = *req.Keywords
		touched = append(touched, "keywords")
	}
	if req.Status != nil {
		newStatus := domain.ResourceStatus(*req.Status)
		if newStatus == domain.StatusPublished && resource.PublishedAt == nil {
			now := time.Now()
			resource.PublishedAt = &now
		}
		resource.Status = newStatus
		touched = append(touched, "status")
	}

	upd := store.ResourceUpdate{}
	if req.TagIDs != nil {
		touched = append(touched, "tag_ids")
		tags, err := s.resolveTags(ctx, *req.TagIDs, resourceType, category)
		if err != nil {
			return nil, err
		}
		tagIDs := make([]string, len(tags))
		for i, tag := range tags {
			tagIDs[i] = tag.ID
		}
		upd.TagIDs = tagIDs
	}
	if req.DownloadLinks != nil {
		touched = append(touched, "download_links")
		links, err := s.buildLinks(resource.ID, *req.DownloadLinks, time.Now())
		if err != nil {
			return nil, err
		}
		upd.DownloadLinks = links
	}

	resource.UpdatedAt = time.Now()
	if err := s.store.UpdateResource(ctx, resource, upd); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("slug %q is already in use", resource.Slug))
		}
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("resource not found")
		}
		return nil, fmt.Errorf("update resource: %w", err)
	}

	s.auditUpdate(ctx, actor, resource, touched)

	if s.logger != nil {
		s.logger.Info("Resource updated", "resource_id", resource.ID, "slug", resource.Slug)
	}

	return s.Get(ctx, resource.ID)
}

// Delete removes a resource and everything it owns. The audit entry
// captures the title and slug, since the row is gone afterwards.
func (s *ResourceService) Delete(ctx context.Context, actor *domain.AdminUser, resourceID string) error {
	resource, err := s.store.GetResource(ctx, resourceID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("resource not found")
		}
		return fmt.Errorf("get resource: %w", err)
	}

	if err := s.store.DeleteResource(ctx, resourceID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("resource not found")
		}
		return fmt.Errorf("delete resource: %w", err)
	}

	s.auditDelete(ctx, actor, resource)

	if s.logger != nil {
		s.logger.Info("Resource deleted", "resource_id", resourceID, "slug", resource.Slug)
	}
	return nil
}

// resolveTaxonomy fetches the type and category and checks that the
// category accepts the type.
func (s *ResourceService) resolveTaxonomy(ctx context.Context, typeID, categoryID string) (*domain.ResourceType, *domain.Category, error) {
	resourceType, err := s.store.GetResourceType(ctx, typeID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Validationf("unknown resource type %q", typeID)
		}
		return nil, nil, fmt.Errorf("get resource type: %w", err)
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Validationf("unknown category %q", categoryID)
		}
		return nil, nil, fmt.Errorf("get category: %w", err)
	}

	if !category.Supports(resourceType.Name) {
		return nil, nil, domainerrors.Validationf(
			"category %q does not accept resources of type %q", category.Slug, resourceType.Name)
	}

	return resourceType, category, nil
}

// resolveTags fetches the requested tags and rejects unknown IDs. A tag
// restricted to other resource types is tolerated with a warning; the
// restriction guides the admin UI rather than gating writes.
func (s *ResourceService) resolveTags(ctx context.Context, tagIDs []string, resourceType *domain.ResourceType, category *domain.Category) ([]domain.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	tags, err := s.store.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		found := make(map[string]bool, len(tags))
		for _, tag := range tags {
			found[tag.ID] = true
		}
		var missing []string
		for _, tagID := range tagIDs {
			if !found[tagID] {
				missing = append(missing, tagID)
			}
		}
		return nil, domainerrors.Validationf("unknown tags: %s", strings.Join(missing, ", "))
	}

	for _, tag := range tags {
		if !tag.AppliesTo(resourceType.Name) {
			if s.logger != nil {
				s.logger.Warn("Tag attached outside its declared resource types",
					"tag", tag.Name,
					"type", resourceType.Name,
					"category", category.Slug,
				)
			}
		}
	}

	return tags, nil
}

// buildLinks materializes link inputs into owned DownloadLink rows.
func (s *ResourceService) buildLinks(resourceID string, inputs []DownloadLinkInput, now time.Time) ([]domain.DownloadLink, error) {
	links := make([]domain.DownloadLink, 0, len(inputs))
	for _, input := range inputs {
		linkID, err := id.New("dl")
		if err != nil {
			return nil, fmt.Errorf("generate link ID: %w", err)
		}
		active := true
		if input.IsActive != nil {
			active = *input.IsActive
		}
		links = append(links, domain.DownloadLink{
			ID:         linkID,
			ResourceID: resourceID,
			Provider:   input.Provider,
			URL:        input.URL,
			Price:      input.Price,
			Platform:   input.Platform,
			Quality:    input.Quality,
			IsActive:   active,
			Metadata:   input.Metadata,
			CreatedAt:  now,
		})
	}
	return links, nil
}

func (s *ResourceService) auditCreate(ctx context.Context, actor *domain.AdminUser, resource *domain.Resource) {
	if actor == nil {
		return
	}
	s.writeAudit(ctx, actor.ID, domain.ActionCreate, resource.ID, domain.Document{
		"snapshot": domain.Document{
			"title":       resource.Title,
			"slug":        resource.Slug,
			"status":      string(resource.Status),
			"type_id":     resource.TypeID,
			"category_id": resource.CategoryID,
		},
	})
}

func (s *ResourceService) auditUpdate(ctx context.Context, actor *domain.AdminUser, resource *domain.Resource, fields []string) {
	if actor == nil {
		return
	}
	s.writeAudit(ctx, actor.ID, domain.ActionUpdate, resource.ID, domain.Document{
		"slug":   resource.Slug,
		"fields": fields,
	})
}

func (s *ResourceService) auditDelete(ctx context.Context, actor *domain.AdminUser, resource *domain.Resource) {
	if actor == nil {
		return
	}
	s.writeAudit(ctx, actor.ID, domain.ActionDelete, resource.ID, domain.Document{
		"title": resource.Title,
		"slug":  resource.Slug,
	})
}

func (s *ResourceService) writeAudit(ctx context.Context, userID, action, entityID string, details domain.Document) {
	entryID, err := id.New("act")
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to generate audit entry ID", "error", err)
		}
		return
	}
	entry := &domain.ActivityLog{
		ID:        entryID,
		UserID:    userID,
		Action:    action,
		Entity:    "resource",
		EntityID:  entityID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateActivityLog(ctx, entry); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to write audit entry", "action", action, "error", err)
		}
	}
}
