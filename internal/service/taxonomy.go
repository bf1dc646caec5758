package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	domainerrors "github.com/assetbayapp/assetbay-server/internal/errors"
	"github.com/assetbayapp/assetbay-server/internal/id"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/util"
	"github.com/assetbayapp/assetbay-server/internal/validation"
)

// TaxonomyService manages the catalog's classification entities: resource
// types, categories, and tags.
type TaxonomyService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTaxonomyService creates a new taxonomy service.
func NewTaxonomyService(st store.Store, validator *validation.Validator, logger *slog.Logger) *TaxonomyService {
	return &TaxonomyService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// ListTypes returns all resource types.
func (s *TaxonomyService) ListTypes(ctx context.Context) ([]*domain.ResourceType, error) {
	types, err := s.store.ListResourceTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resource types: %w", err)
	}
	if types == nil {
		types = []*domain.ResourceType{}
	}
	return types, nil
}

// ListCategories returns all categories with tree references and
// published resource counts.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}

// ListTags returns all tags, heaviest first.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// CreateTypeRequest is the payload for creating a resource type.
type CreateTypeRequest struct {
	Name            string          `json:"name" validate:"required,slug,max=100"`
	DisplayName     string          `json:"display_name" validate:"required,max=200"`
	Description     string          `json:"description,omitempty" validate:"max=1000"`
	Icon            string          `json:"icon,omitempty" validate:"max=100"`
	FileExtensions  []string        `json:"file_extensions,omitempty"`
	DefaultMetadata domain.Document `json:"default_metadata,omitempty"`
}

// CreateType creates a resource type.
func (s *TaxonomyService) CreateType(ctx context.Context, req CreateTypeRequest) (*domain.ResourceType, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	typeID, err := id.New("type")
	if err != nil {
		return nil, fmt.Errorf("generate type ID: %w", err)
	}

	now := time.Now()
	t := &domain.ResourceType{
		ID:              typeID,
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		Description:     req.Description,
		Icon:            req.Icon,
		FileExtensions:  req.FileExtensions,
		DefaultMetadata: req.DefaultMetadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if t.FileExtensions == nil {
		t.FileExtensions = []string{}
	}
	if t.DefaultMetadata == nil {
		t.DefaultMetadata = domain.Document{}
	}

	if err := s.store.CreateResourceType(ctx, t); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("resource type %q already exists", req.Name))
		}
		return nil, fmt.Errorf("create resource type: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Resource type created", "type_id", typeID, "name", req.Name)
	}
	return t, nil
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Slug           string   `json:"slug,omitempty" validate:"omitempty,slug,max=200"`
	Description    string   `json:"description,omitempty" validate:"max=1000"`
	Icon           string   `json:"icon,omitempty" validate:"max=100"`
	SupportedTypes []string `json:"supported_types,omitempty"`
	ParentID       string   `json:"parent_id,omitempty"`
}

// CreateCategory creates a category, deriving the slug from the name
// when none is given.
func (s *TaxonomyService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = util.NormalizeSlug(req.Name)
	}
	if slug == "" {
		return nil, domainerrors.Validation("name does not produce a usable slug")
	}

	if req.ParentID != "" {
		if _, err := s.store.GetCategory(ctx, req.ParentID); err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validationf("unknown parent category %q", req.ParentID)
			}
			return nil, fmt.Errorf("get parent category: %w", err)
		}
	}

	for _, typeName := range req.SupportedTypes {
		if _, err := s.store.GetResourceTypeByName(ctx, typeName); err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validationf("unknown resource type %q", typeName)
			}
			return nil, fmt.Errorf("get resource type: %w", err)
		}
	}

	categoryID, err := id.New("cat")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	now := time.Now()
	c := &domain.Category{
		ID:             categoryID,
		Name:           req.Name,
		Slug:           slug,
		Description:    req.Description,
		Icon:           req.Icon,
		SupportedTypes: req.SupportedTypes,
		ParentID:       req.ParentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.SupportedTypes == nil {
		c.SupportedTypes = []string{}
	}

	if err := s.store.CreateCategory(ctx, c); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("category slug %q already exists", slug))
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Category created", "category_id", categoryID, "slug", slug)
	}
	return c, nil
}

// CreateTagRequest is the payload for creating a tag.
type CreateTagRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Color         string   `json:"color,omitempty" validate:"max=50"`
	ResourceTypes []string `json:"resource_types,omitempty"`
	Weight        int      `json:"weight,omitempty" validate:"gte=0,lte=1000"`
}

// CreateTag creates a tag.
func (s *TaxonomyService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	for _, typeName := range req.ResourceTypes {
		if _, err := s.store.GetResourceTypeByName(ctx, typeName); err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validationf("unknown resource type %q", typeName)
			}
			return nil, fmt.Errorf("get resource type: %w", err)
		}
	}

	tagID, err := id.New("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	t := &domain.Tag{
		ID:            tagID,
		Name:          req.Name,
		Color:         req.Color,
		ResourceTypes: req.ResourceTypes,
		Weight:        req.Weight,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.ResourceTypes == nil {
		t.ResourceTypes = []string{}
	}

	if err := s.store.CreateTag(ctx, t); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("tag %q already exists", req.Name))
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag created", "tag_id", tagID, "name", req.Name)
	}
	return t, nil
}
