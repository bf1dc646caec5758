package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/store"
)

// typeColumns is the ordered list of columns selected in resource type queries.
// Must match the scan order in scanResourceType.
const typeColumns = `id, name, display_name, description, icon,
	file_extensions, default_metadata, created_at, updated_at`

// scanResourceType scans a sql.Row (or sql.Rows via its Scan method) into a domain.ResourceType.
func scanResourceType(scanner interface{ Scan(dest ...any) error }) (*domain.ResourceType, error) {
	var t domain.ResourceType

	var (
		description     sql.NullString
		icon            sql.NullString
		fileExtensions  string
		defaultMetadata string
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.DisplayName,
		&description,
		&icon,
		&fileExtensions,
		&defaultMetadata,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = description.String
	}
	if icon.Valid {
		t.Icon = icon.String
	}
	t.FileExtensions = unmarshalStrings(fileExtensions)
	t.DefaultMetadata = unmarshalDocument(defaultMetadata)

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateResourceType inserts a new resource type.
// Returns store.ErrAlreadyExists if the name is taken.
func (s *Store) CreateResourceType(ctx context.Context, t *domain.ResourceType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resource_types (
			id, name, display_name, description, icon,
			file_extensions, default_metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.DisplayName,
		nullString(t.Description),
		nullString(t.Icon),
		marshalStrings(t.FileExtensions),
		marshalDocument(t.DefaultMetadata),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetResourceType retrieves a resource type by ID.
// Returns store.ErrNotFound if no such type exists.
func (s *Store) GetResourceType(ctx context.Context, id string) (*domain.ResourceType, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+typeColumns+` FROM resource_types WHERE id = ?`, id)

	t, err := scanResourceType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetResourceTypeByName retrieves a resource type by its unique name.
// Returns store.ErrNotFound if no such type exists.
func (s *Store) GetResourceTypeByName(ctx context.Context, name string) (*domain.ResourceType, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+typeColumns+` FROM resource_types WHERE name = ?`, name)

	t, err := scanResourceType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListResourceTypes returns all resource types ordered by name.
func (s *Store) ListResourceTypes(ctx context.Context) ([]*domain.ResourceType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+typeColumns+` FROM resource_types ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.ResourceType
	for rows.Next() {
		t, err := scanResourceType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}
