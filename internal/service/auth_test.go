package service

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetbayapp/assetbay-server/internal/auth"
	"github.com/assetbayapp/assetbay-server/internal/domain"
	domainerrors "github.com/assetbayapp/assetbay-server/internal/errors"
	"github.com/assetbayapp/assetbay-server/internal/ratelimit"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/store/sqlite"
	"github.com/assetbayapp/assetbay-server/internal/validation"
)

// setupAuthTest creates an auth service backed by a temporary store.
func setupAuthTest(t *testing.T) (*AuthService, store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 24*time.Hour)
	require.NoError(t, err)

	svc := NewAuthService(st, tokenService, validation.New(), nil, nil)
	return svc, st
}

// createTestAdmin inserts an admin with the given password.
func createTestAdmin(t *testing.T, st store.Store, username, password string) *domain.AdminUser {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	now := time.Now()
	admin := &domain.AdminUser{
		ID:           "adm-" + username,
		Username:     username,
		Email:        username + "@example.com",
		Name:         "Test Admin",
		Role:         "admin",
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateAdmin(context.Background(), admin))
	return admin
}

func TestLoginSuccess(t *testing.T) {
	svc, st := setupAuthTest(t)
	ctx := context.Background()
	createTestAdmin(t, st, "alice", "correct horse battery staple")

	resp, err := svc.Login(ctx, LoginRequest{
		Identifier: "alice",
		Password:   "correct horse battery staple",
		IPAddress:  "10.0.0.1",
		UserAgent:  "test/1.0",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, resp.User.LoginCount)

	// The bearer token round-trips through verification.
	user, err := svc.Verify(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "adm-alice", user.ID)
}

func TestLoginByEmail(t *testing.T) {
	svc, st := setupAuthTest(t)
	createTestAdmin(t, st, "alice", "secret-password")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "alice@example.com",
		Password:   "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestLoginUniformFailures(t *testing.T) {
	svc, st := setupAuthTest(t)
	ctx := context.Background()
	createTestAdmin(t, st, "alice", "secret-password")

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, st.CreateAdmin(ctx, &domain.AdminUser{
		ID:           "adm-bob",
		Username:     "bob",
		Email:        "bob@example.com",
		Name:         "Disabled Admin",
		Role:         "admin",
		PasswordHash: hash,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	cases := []struct {
		name       string
		identifier string
		password   string
	}{
		{"unknown account", "nobody", "whatever"},
		{"wrong password", "alice", "not-the-password"},
		{"disabled account", "bob", "secret-password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginRequest{
				Identifier: tc.identifier,
				Password:   tc.password,
			})
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeInvalidCredentials, domainErr.Code)
			assert.Equal(t, "invalid credentials", domainErr.Message)
		})
	}
}

func TestLoginReplacesPriorSession(t *testing.T) {
	svc, st := setupAuthTest(t)
	ctx := context.Background()
	createTestAdmin(t, st, "alice", "secret-password")

	first, err := svc.Login(ctx, LoginRequest{Identifier: "alice", Password: "secret-password"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginRequest{Identifier: "alice", Password: "secret-password"})
	require.NoError(t, err)

	// The first bearer token still verifies cryptographically but its
	// session is gone, so it must be rejected.
	_, err = svc.Verify(ctx, first.Token)
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeSessionRevoked, domainErr.Code)

	_, err = svc.Verify(ctx, second.Token)
	assert.NoError(t, err)
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	svc, st := setupAuthTest(t)
	ctx := context.Background()
	createTestAdmin(t, st, "alice", "secret-password")

	resp, err := svc.Login(ctx, LoginRequest{Identifier: "alice", Password: "secret-password"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token, "10.0.0.1", "test/1.0"))

	_, err = svc.Verify(ctx, resp.Token)
	require.Error(t, err)

	// Second logout of the same token still succeeds.
	require.NoError(t, svc.Logout(ctx, resp.Token, "10.0.0.1", "test/1.0"))
}

func TestVerifyGarbageToken(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.Verify(context.Background(), "not-a-token")
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)
}

func TestLoginRateLimited(t *testing.T) {
	svc, st := setupAuthTest(t)
	ctx := context.Background()
	createTestAdmin(t, st, "alice", "secret-password")

	svc.loginLimiter = ratelimit.New(0.1, 2)

	req := LoginRequest{Identifier: "alice", Password: "wrong", IPAddress: "10.0.0.9"}
	for range 2 {
		_, err := svc.Login(ctx, req)
		require.Error(t, err)
	}

	// Third attempt from the same address is throttled before the
	// credentials are even checked.
	_, err := svc.Login(ctx, LoginRequest{
		Identifier: "alice", Password: "secret-password", IPAddress: "10.0.0.9",
	})
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)

	// A different address is unaffected.
	_, err = svc.Login(ctx, LoginRequest{
		Identifier: "alice", Password: "secret-password", IPAddress: "10.0.0.10",
	})
	assert.NoError(t, err)
}

func TestCleanupExpiredSessions(t *testing.T) {
	svc, st := setupAuthTest(t)
	ctx := context.Background()
	createTestAdmin(t, st, "alice", "secret-password")

	resp, err := svc.Login(ctx, LoginRequest{Identifier: "alice", Password: "secret-password"})
	require.NoError(t, err)

	n, err := svc.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// The live session survives the purge.
	_, err = svc.Verify(ctx, resp.Token)
	assert.NoError(t, err)
}
