package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetbayapp/assetbay-server/internal/auth"
	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/http/response"
	"github.com/assetbayapp/assetbay-server/internal/id"
	"github.com/assetbayapp/assetbay-server/internal/ratelimit"
	"github.com/assetbayapp/assetbay-server/internal/service"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/store/sqlite"
	"github.com/assetbayapp/assetbay-server/internal/validation"
)

const testAdminPassword = "SecurePassword123!"

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) (server *Server, st store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Discard logs in tests.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() }) //nolint:errcheck // Cleanup

	// 32 bytes as hex = 64 hex chars.
	testKeyHex := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	validator := validation.New()
	// Generous limits so only the dedicated rate limit test trips them.
	loginLimiter := ratelimit.New(100, 100)

	authService := service.NewAuthService(st, tokenService, validator, loginLimiter, logger)
	resourceService := service.NewResourceService(st, validator, logger)
	taxonomyService := service.NewTaxonomyService(st, validator, logger)

	server = NewServer(authService, resourceService, taxonomyService, nil, logger)
	return server, st
}

// createTestAdmin inserts an active administrator directly into the store.
func createTestAdmin(t *testing.T, st store.Store, username string) *domain.AdminUser {
	t.Helper()

	adminID, err := id.New("adm")
	require.NoError(t, err)

	hash, err := auth.HashPassword(testAdminPassword)
	require.NoError(t, err)

	now := time.Now()
	admin := &domain.AdminUser{
		ID:           adminID,
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

// loginTestAdmin creates an admin and logs in through the API, returning
// the bearer token.
func loginTestAdmin(t *testing.T, server *Server, st store.Store) string {
	t.Helper()

	admin := createTestAdmin(t, st, "testadmin")

	w := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"identifier": admin.Username,
		"password":   testAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

// doRequest performs a request against the server, JSON-encoding body
// when present and attaching the bearer token when given.
func doRequest(t *testing.T, server *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		buf := &bytes.Buffer{}
		require.NoError(t, json.MarshalWrite(buf, body))
		reader = buf
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope and returns Data as a map.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "envelope data is not an object: %s", w.Body.String())
	return data
}

// seedTaxonomy creates a resource type and a category through the
// services and returns their IDs.
func seedTaxonomy(t *testing.T, server *Server) (typeID, categoryID string) {
	t.Helper()

	ctx := context.Background()

	rt, err := server.taxonomyService.CreateType(ctx, service.CreateTypeRequest{
		Name:        "unity-assets",
		DisplayName: "Unity Assets",
	})
	require.NoError(t, err)

	cat, err := server.taxonomyService.CreateCategory(ctx, service.CreateCategoryRequest{
		Name: "Game Development",
	})
	require.NoError(t, err)

	return rt.ID, cat.ID
}

func TestHealthCheck(t *testing.T) {
	server, _ := setupTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var result response.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
}

func TestAdminRoutes_RequireAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/admin/resources"},
		{http.MethodPost, "/api/v1/admin/resources"},
		{http.MethodGet, "/api/v1/admin/resources/res-123"},
		{http.MethodPut, "/api/v1/admin/resources/res-123"},
		{http.MethodDelete, "/api/v1/admin/resources/res-123"},
		{http.MethodPost, "/api/v1/admin/types"},
		{http.MethodPost, "/api/v1/admin/categories"},
		{http.MethodPost, "/api/v1/admin/tags"},
		{http.MethodGet, "/api/v1/auth/me"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doRequest(t, server, tt.method, tt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminRoutes_RejectGarbageToken(t *testing.T) {
	server, _ := setupTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/v1/admin/resources", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
