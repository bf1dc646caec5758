package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/store"
)

// resourceColumns is the ordered list of columns selected in resource queries.
// Must match the scan order in scanResource.
const resourceColumns = `id, title, slug, description, thumbnail, file_size, version,
	status, published_at, type_id, category_id, metadata, previews,
	meta_title, meta_description, keywords,
	download_count, view_count, created_at, updated_at`

// scanResource scans a sql.Row (or sql.Rows via its Scan method) into a domain.Resource.
func scanResource(scanner interface{ Scan(dest ...any) error }) (*domain.Resource, error) {
	var r domain.Resource

	var (
		thumbnail       sql.NullString
		fileSize        sql.NullString
		version         sql.NullString
		status          string
		publishedAt     sql.NullString
		metadata        string
		previews        string
		metaTitle       sql.NullString
		metaDescription sql.NullString
		keywords        sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&r.ID,
		&r.Title,
		&r.Slug,
		&r.Description,
		&thumbnail,
		&fileSize,
		&version,
		&status,
		&publishedAt,
		&r.TypeID,
		&r.CategoryID,
		&metadata,
		&previews,
		&metaTitle,
		&metaDescription,
		&keywords,
		&r.DownloadCount,
		&r.ViewCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = domain.ResourceStatus(status)
	r.PublishedAt, err = parseNullableTime(publishedAt)
	if err != nil {
		return nil, err
	}

	if thumbnail.Valid {
		r.Thumbnail = thumbnail.String
	}
	if fileSize.Valid {
		r.FileSize = fileSize.String
	}
	if version.Valid {
		r.Version = version.String
	}
	if metaTitle.Valid {
		r.MetaTitle = metaTitle.String
	}
	if metaDescription.Valid {
		r.MetaDescription = metaDescription.String
	}
	if keywords.Valid {
		r.Keywords = keywords.String
	}
	r.Metadata = unmarshalDocument(metadata)
	r.Previews = unmarshalDocuments(previews)

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	r.Tags = []domain.Tag{}
	r.DownloadLinks = []domain.DownloadLink{}

	return &r, nil
}

// buildResourceFilter compiles the query's filters into a WHERE clause
// and its arguments. The count query and the page fetch both use the
// returned clause, so the pagination total always matches the data.
func buildResourceFilter(q store.ResourceQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Status != "" {
		conds = append(conds, "r.status = ?")
		args = append(args, string(q.Status))
	}
	if q.TypeID != "" {
		conds = append(conds, "r.type_id = ?")
		args = append(args, q.TypeID)
	}
	if q.CategoryID != "" {
		conds = append(conds, "r.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.Tag != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM resource_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.resource_id = r.id AND t.name = ?)`)
		args = append(args, q.Tag)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		conds = append(conds, `(LOWER(r.title) LIKE ?
			OR LOWER(r.description) LIKE ?
			OR LOWER(COALESCE(r.keywords, '')) LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// resourceOrderClause maps a sort to its ORDER BY clause. Every clause
// ends with an ascending ID tie-break for deterministic paging.
func resourceOrderClause(sort store.ResourceSort) string {
	switch sort {
	case store.SortLatest:
		return " ORDER BY r.published_at DESC, r.id ASC"
	case store.SortPopular:
		return " ORDER BY r.download_count DESC, r.id ASC"
	case store.SortViews:
		return " ORDER BY r.view_count DESC, r.id ASC"
	case store.SortTitle:
		return " ORDER BY r.title ASC, r.id ASC"
	default:
		return " ORDER BY r.created_at DESC, r.id ASC"
	}
}

// ListResources returns one page of resources matching the query, plus
// the total match count under the same filter. Relations (type, category,
// tags, links) are attached to every returned resource.
func (s *Store) ListResources(ctx context.Context, q store.ResourceQuery) ([]*domain.Resource, int, error) {
	where, args := buildResourceFilter(q)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources r`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + resourceColumns + ` FROM resources r` + where +
		resourceOrderClause(q.Sort) + ` LIMIT ? OFFSET ?`
	pageArgs := append(args, q.Page.Limit, q.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var resources []*domain.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachResourceRelations(ctx, resources); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// SearchResources returns published resources matching a search term,
// ordered by download count then view count, plus the full match count
// under the same predicate. The caller bounds the page with limit.
func (s *Store) SearchResources(ctx context.Context, term string, limit int) ([]*domain.Resource, int, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	predicate := `r.status = ?
	  AND (LOWER(r.title) LIKE ?
		OR LOWER(r.description) LIKE ?
		OR LOWER(COALESCE(r.keywords, '')) LIKE ?)`
	args := []any{string(domain.StatusPublished), pattern, pattern, pattern}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources r WHERE `+predicate, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+resourceColumns+` FROM resources r
		WHERE `+predicate+`
		ORDER BY r.download_count DESC, r.view_count DESC, r.id ASC
		LIMIT ?`,
		append(args, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var resources []*domain.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachResourceRelations(ctx, resources); err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// GetResource retrieves a resource by ID with relations attached.
// Returns store.ErrNotFound if no such resource exists.
func (s *Store) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources r WHERE r.id = ?`, id)
	return s.getResource(ctx, row)
}

// GetResourceBySlug retrieves a resource by its unique slug with
// relations attached. Returns store.ErrNotFound if no such resource exists.
func (s *Store) GetResourceBySlug(ctx context.Context, slug string) (*domain.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources r WHERE r.slug = ?`, slug)
	return s.getResource(ctx, row)
}

func (s *Store) getResource(ctx context.Context, row *sql.Row) (*domain.Resource, error) {
	r, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachResourceRelations(ctx, []*domain.Resource{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// SlugExists reports whether a resource other than excludeID holds the slug.
func (s *Store) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources WHERE slug = ? AND id != ?`,
		slug, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateResource inserts a resource together with its tag attachments and
// download links in one transaction.
// Returns store.ErrAlreadyExists if the slug is taken.
func (s *Store) CreateResource(ctx context.Context, r *domain.Resource, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO resources (
			id, title, slug, description, thumbnail, file_size, version,
			status, published_at, type_id, category_id, metadata, previews,
			meta_title, meta_description, keywords,
			download_count, view_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Title,
		r.Slug,
		r.Description,
		nullString(r.Thumbnail),
		nullString(r.FileSize),
		nullString(r.Version),
		string(r.Status),
		nullTimeString(r.PublishedAt),
		r.TypeID,
		r.CategoryID,
		marshalDocument(r.Metadata),
		marshalDocuments(r.Previews),
		nullString(r.MetaTitle),
		nullString(r.MetaDescription),
		nullString(r.Keywords),
		r.DownloadCount,
		r.ViewCount,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := insertResourceTags(ctx, tx, r.ID, tagIDs); err != nil {
		return err
	}
	if err := insertDownloadLinks(ctx, tx, r.ID, r.DownloadLinks); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateResource writes the resource row and, when requested, replaces
// its tag attachments and download links, all in one transaction.
// Returns store.ErrNotFound if the resource does not exist and
// store.ErrAlreadyExists if the new slug is taken.
func (s *Store) UpdateResource(ctx context.Context, r *domain.Resource, upd store.ResourceUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE resources SET
			title = ?,
			slug = ?,
			description = ?,
			thumbnail = ?,
			file_size = ?,
			version = ?,
			status = ?,
			published_at = ?,
			type_id = ?,
			category_id = ?,
			metadata = ?,
			previews = ?,
			meta_title = ?,
			meta_description = ?,
			keywords = ?,
			updated_at = ?
		WHERE id = ?`,
		r.Title,
		r.Slug,
		r.Description,
		nullString(r.Thumbnail),
		nullString(r.FileSize),
		nullString(r.Version),
		string(r.Status),
		nullTimeString(r.PublishedAt),
		r.TypeID,
		r.CategoryID,
		marshalDocument(r.Metadata),
		marshalDocuments(r.Previews),
		nullString(r.MetaTitle),
		nullString(r.MetaDescription),
		nullString(r.Keywords),
		formatTime(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if upd.TagIDs != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM resource_tags WHERE resource_id = ?`, r.ID); err != nil {
			return err
		}
		if err := insertResourceTags(ctx, tx, r.ID, upd.TagIDs); err != nil {
			return err
		}
	}
	if upd.DownloadLinks != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM download_links WHERE resource_id = ?`, r.ID); err != nil {
			return err
		}
		if err := insertDownloadLinks(ctx, tx, r.ID, upd.DownloadLinks); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteResource removes a resource; tag attachments and download links
// go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound if the resource does not exist.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func insertResourceTags(ctx context.Context, tx *sql.Tx, resourceID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resource_tags (resource_id, tag_id) VALUES (?, ?)`,
			resourceID, tagID)
		if err != nil {
			return fmt.Errorf("attach tag %s: %w", tagID, err)
		}
	}
	return nil
}

func insertDownloadLinks(ctx context.Context, tx *sql.Tx, resourceID string, links []domain.DownloadLink) error {
	for _, link := range links {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO download_links (
				id, resource_id, provider, url, price, platform, quality,
				is_active, metadata, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			link.ID,
			resourceID,
			link.Provider,
			link.URL,
			nullString(link.Price),
			nullString(link.Platform),
			nullString(link.Quality),
			link.IsActive,
			marshalDocument(link.Metadata),
			formatTime(link.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert download link %s: %w", link.ID, err)
		}
	}
	return nil
}

// attachResourceRelations loads type, category, tags, and download links
// for a page of resources.
func (s *Store) attachResourceRelations(ctx context.Context, resources []*domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	for _, r := range resources {
		t, err := s.GetResourceType(ctx, r.TypeID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		r.Type = t

		c, err := s.GetCategory(ctx, r.CategoryID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		r.Category = c

		tags, err := s.ListResourceTags(ctx, r.ID)
		if err != nil {
			return err
		}
		r.Tags = tags

		links, err := s.listDownloadLinks(ctx, r.ID)
		if err != nil {
			return err
		}
		r.DownloadLinks = links
	}
	return nil
}

// listDownloadLinks returns a resource's links ordered by creation time.
func (s *Store) listDownloadLinks(ctx context.Context, resourceID string) ([]domain.DownloadLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource_id, provider, url, price, platform, quality,
			is_active, metadata, created_at
		FROM download_links
		WHERE resource_id = ?
		ORDER BY created_at ASC, id ASC`, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.DownloadLink{}
	for rows.Next() {
		var l domain.DownloadLink
		var (
			price     sql.NullString
			platform  sql.NullString
			quality   sql.NullString
			metadata  string
			createdAt string
		)
		err := rows.Scan(
			&l.ID,
			&l.ResourceID,
			&l.Provider,
			&l.URL,
			&price,
			&platform,
			&quality,
			&l.IsActive,
			&metadata,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}
		if price.Valid {
			l.Price = price.String
		}
		if platform.Valid {
			l.Platform = platform.String
		}
		if quality.Valid {
			l.Quality = quality.String
		}
		l.Metadata = unmarshalDocument(metadata)
		l.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}
