package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetbayapp/assetbay-server/internal/http/response"
)

// createResourceViaAPI posts a resource and returns the decoded data map.
func createResourceViaAPI(t *testing.T, server *Server, token string, body map[string]any) map[string]any {
	t.Helper()

	w := doRequest(t, server, http.MethodPost, "/api/v1/admin/resources", body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeData(t, w)
}

func TestCreateResource(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	data := createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Forest Pack PRO",
		"description": "Stylized forest environment assets.",
		"type_id":     typeID,
		"category_id": categoryID,
		"status":      "published",
		"download_links": []map[string]any{
			{"provider": "mirror", "url": "https://example.com/forest.zip"},
		},
	})

	assert.Equal(t, "forest-pack-pro", data["slug"])
	assert.Equal(t, "published", data["status"])
	assert.NotEmpty(t, data["published_at"])

	links, ok := data["download_links"].([]any)
	require.True(t, ok)
	assert.Len(t, links, 1)
}

func TestCreateResource_DuplicateSlug(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	body := map[string]any{
		"title":       "Forest Pack",
		"type_id":     typeID,
		"category_id": categoryID,
	}
	createResourceViaAPI(t, server, token, body)

	w := doRequest(t, server, http.MethodPost, "/api/v1/admin/resources", body, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateResource_UnknownType(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	_, categoryID := seedTaxonomy(t, server)

	w := doRequest(t, server, http.MethodPost, "/api/v1/admin/resources", map[string]any{
		"title":       "Orphan",
		"type_id":     "type-missing",
		"category_id": categoryID,
	}, token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicList_HidesDrafts(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Published Pack",
		"type_id":     typeID,
		"category_id": categoryID,
		"status":      "published",
	})
	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Draft Pack",
		"type_id":     typeID,
		"category_id": categoryID,
	})

	// Asking for drafts on the public listing is ignored.
	w := doRequest(t, server, http.MethodGet, "/api/v1/resources?status=draft", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	items, ok := data["resources"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "published-pack", item["slug"])
}

func TestAdminList_SeesAllStatuses(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Published Pack",
		"type_id":     typeID,
		"category_id": categoryID,
		"status":      "published",
	})
	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Draft Pack",
		"type_id":     typeID,
		"category_id": categoryID,
	})

	w := doRequest(t, server, http.MethodGet, "/api/v1/admin/resources", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	items, ok := data["resources"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)

	pagination, ok := data["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), pagination["total"])
}

func TestGetResourceBySlug(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Forest Pack",
		"type_id":     typeID,
		"category_id": categoryID,
		"status":      "published",
	})

	w := doRequest(t, server, http.MethodGet, "/api/v1/resources/forest-pack", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "Forest Pack", data["title"])

	// Detail views are counted asynchronously.
	created := decodeData(t, doRequest(t, server, http.MethodGet, "/api/v1/resources/forest-pack", nil, ""))
	assert.Eventually(t, func() bool {
		current := decodeData(t, doRequest(t, server, http.MethodGet, "/api/v1/resources/forest-pack", nil, ""))
		return current["view_count"].(float64) > created["view_count"].(float64)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestGetResourceBySlug_DraftIsHidden(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Draft Pack",
		"type_id":     typeID,
		"category_id": categoryID,
	})

	w := doRequest(t, server, http.MethodGet, "/api/v1/resources/draft-pack", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordDownload(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	created := createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Forest Pack",
		"type_id":     typeID,
		"category_id": categoryID,
		"status":      "published",
	})

	w := doRequest(t, server, http.MethodPost, "/api/v1/resources/forest-pack/download", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	resourceID := created["id"].(string)
	detail := decodeData(t, doRequest(t, server, http.MethodGet, "/api/v1/admin/resources/"+resourceID, nil, token))
	assert.Equal(t, float64(1), detail["download_count"])
}

func TestSearch(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Forest Environment Pack",
		"type_id":     typeID,
		"category_id": categoryID,
		"status":      "published",
	})

	w := doRequest(t, server, http.MethodGet, "/api/v1/search?q=forest", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "forest", data["query"])
	assert.Equal(t, float64(1), data["total"])
	results, ok := data["resources"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestSearch_LimitCapsResultsNotTotal(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	for _, title := range []string{"Forest Pack One", "Forest Pack Two"} {
		createResourceViaAPI(t, server, token, map[string]any{
			"title":       title,
			"type_id":     typeID,
			"category_id": categoryID,
			"status":      "published",
		})
	}

	w := doRequest(t, server, http.MethodGet, "/api/v1/search?q=forest&limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	results, ok := data["resources"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)
	assert.Equal(t, float64(2), data["total"])
}

func TestSearch_ShortTermReturnsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/api/v1/search?q=a", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(0), data["total"])
	results, ok := data["resources"].([]any)
	require.True(t, ok)
	assert.Empty(t, results)
}

func TestUpdateResource(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	created := createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Forest Pack",
		"type_id":     typeID,
		"category_id": categoryID,
	})
	resourceID := created["id"].(string)

	w := doRequest(t, server, http.MethodPut, "/api/v1/admin/resources/"+resourceID, map[string]any{
		"title":  "Forest Pack Deluxe",
		"status": "published",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "Forest Pack Deluxe", data["title"])
	assert.Equal(t, "published", data["status"])
	assert.NotEmpty(t, data["published_at"])
	// The slug does not follow title changes.
	assert.Equal(t, "forest-pack", data["slug"])
}

func TestUpdateResource_NotFound(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)

	w := doRequest(t, server, http.MethodPut, "/api/v1/admin/resources/res-missing", map[string]any{
		"title": "Ghost",
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteResource(t *testing.T) {
	server, st := setupTestServer(t)
	token := loginTestAdmin(t, server, st)
	typeID, categoryID := seedTaxonomy(t, server)

	created := createResourceViaAPI(t, server, token, map[string]any{
		"title":       "Forest Pack",
		"type_id":     typeID,
		"category_id": categoryID,
	})
	resourceID := created["id"].(string)

	w := doRequest(t, server, http.MethodDelete, "/api/v1/admin/resources/"+resourceID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/v1/admin/resources/"+resourceID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}
