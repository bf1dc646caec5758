package sqlite

import (
	"context"
	"database/sql"

	"github.com/assetbayapp/assetbay-server/internal/domain"
)

// CreateActivityLog inserts an audit entry.
func (s *Store) CreateActivityLog(ctx context.Context, entry *domain.ActivityLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (
			id, user_id, action, entity, entity_id, details,
			ip_address, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.Action,
		nullString(entry.Entity),
		nullString(entry.EntityID),
		marshalDocument(entry.Details),
		nullString(entry.IPAddress),
		nullString(entry.UserAgent),
		formatTime(entry.CreatedAt),
	)
	return err
}

// ListActivityLogs returns the most recent audit entries, newest first.
func (s *Store) ListActivityLogs(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, action, entity, entity_id, details,
			ip_address, user_agent, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityLog
	for rows.Next() {
		var e domain.ActivityLog
		var (
			entity    sql.NullString
			entityID  sql.NullString
			details   string
			ipAddress sql.NullString
			userAgent sql.NullString
			createdAt string
		)
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Action,
			&entity,
			&entityID,
			&details,
			&ipAddress,
			&userAgent,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}
		e.Entity = entity.String
		e.EntityID = entityID.String
		e.Details = unmarshalDocument(details)
		e.IPAddress = ipAddress.String
		e.UserAgent = userAgent.String
		e.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
