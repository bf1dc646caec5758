package sqlite

import (
	"context"
	"strings"
)

// IncrementViewCounts bumps the view counter of each resource by one in a
// single atomic UPDATE. IDs that match no row are ignored; callers treat
// counters as best-effort.
func (s *Store) IncrementViewCounts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE resources SET view_count = view_count + 1
		 WHERE id IN (`+placeholders+`)`, args...)
	return err
}

// IncrementDownloadCount bumps a resource's download counter by one
// atomically. A missing ID is ignored.
func (s *Store) IncrementDownloadCount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE resources SET download_count = download_count + 1 WHERE id = ?`, id)
	return err
}
