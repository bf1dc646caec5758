package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/store"
)

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `id, name, slug, description, icon,
	supported_types, parent_id, created_at, updated_at`

// scanCategory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Category.
func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

	var (
		description    sql.NullString
		icon           sql.NullString
		supportedTypes string
		parentID       sql.NullString
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&description,
		&icon,
		&supportedTypes,
		&parentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		c.Description = description.String
	}
	if icon.Valid {
		c.Icon = icon.String
	}
	if parentID.Valid {
		c.ParentID = parentID.String
	}
	c.SupportedTypes = unmarshalStrings(supportedTypes)

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCategory inserts a new category.
// Returns store.ErrAlreadyExists if the slug is taken.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (
			id, name, slug, description, icon,
			supported_types, parent_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		c.Slug,
		nullString(c.Description),
		nullString(c.Icon),
		marshalStrings(c.SupportedTypes),
		nullString(c.ParentID),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if no such category exists.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCategoryBySlug retrieves a category by its unique slug.
// Returns store.ErrNotFound if no such category exists.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories ordered by name, with parent and
// children references and published resource counts attached.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	byID := make(map[string]*domain.Category)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach parent and children references in memory. Category counts
	// stay small enough that a single pass over the full set is fine.
	for _, c := range categories {
		if c.ParentID == "" {
			continue
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			continue
		}
		c.Parent = &domain.CategoryRef{ID: parent.ID, Name: parent.Name, Slug: parent.Slug}
		parent.Children = append(parent.Children,
			domain.CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	counts, err := s.publishedResourceCounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		c.ResourceCount = counts[c.ID]
	}

	return categories, nil
}

// publishedResourceCounts returns the number of published resources per
// category ID.
func (s *Store) publishedResourceCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, COUNT(*)
		FROM resources
		WHERE status = ?
		GROUP BY category_id`,
		string(domain.StatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
