package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/store"
)

// adminColumns is the ordered list of columns selected in admin queries.
// Must match the scan order in scanAdmin.
const adminColumns = `id, username, email, name, role, avatar, password_hash,
	is_active, last_login_at, login_count, created_at, updated_at`

// scanAdmin scans a sql.Row (or sql.Rows via its Scan method) into a domain.AdminUser.
func scanAdmin(scanner interface{ Scan(dest ...any) error }) (*domain.AdminUser, error) {
	var u domain.AdminUser

	var (
		avatar      sql.NullString
		lastLoginAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Name,
		&u.Role,
		&avatar,
		&u.PasswordHash,
		&u.IsActive,
		&lastLoginAt,
		&u.LoginCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatar.Valid {
		u.Avatar = avatar.String
	}
	if lastLoginAt.Valid && lastLoginAt.String != "" {
		u.LastLoginAt, err = parseTime(lastLoginAt.String)
		if err != nil {
			return nil, err
		}
	}
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateAdmin inserts a new administrator account.
// Returns store.ErrAlreadyExists if the username or email is taken.
func (s *Store) CreateAdmin(ctx context.Context, user *domain.AdminUser) error {
	var lastLogin sql.NullString
	if !user.LastLoginAt.IsZero() {
		lastLogin = sql.NullString{String: formatTime(user.LastLoginAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_users (
			id, username, email, name, role, avatar, password_hash,
			is_active, last_login_at, login_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.Name,
		user.Role,
		nullString(user.Avatar),
		user.PasswordHash,
		user.IsActive,
		lastLogin,
		user.LoginCount,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAdmin retrieves an administrator by ID.
// Returns store.ErrNotFound if no such account exists.
func (s *Store) GetAdmin(ctx context.Context, id string) (*domain.AdminUser, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE id = ?`, id)

	user, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetAdminByIdentifier retrieves an administrator by username or email.
// Returns store.ErrNotFound if no account matches.
func (s *Store) GetAdminByIdentifier(ctx context.Context, identifier string) (*domain.AdminUser, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE username = ? OR email = ?`,
		identifier, identifier)

	user, err := scanAdmin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CountAdmins returns the number of administrator accounts.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RecordAdminLogin stamps last_login_at and bumps login_count.
// Returns store.ErrNotFound if the account does not exist.
func (s *Store) RecordAdminLogin(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET
			last_login_at = ?,
			login_count = login_count + 1,
			updated_at = ?
		WHERE id = ?`,
		formatTime(at), formatTime(at), id)
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
