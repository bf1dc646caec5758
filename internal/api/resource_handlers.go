package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/assetbayapp/assetbay-server/internal/http/response"
)

// handleListResources returns a page of published resources.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	list, err := s.resourceService.ListPublic(r.Context(), parseListParams(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, list, s.logger)
}

// handleGetResource returns a published resource by slug and records a view.
func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.BadRequest(w, "Resource slug is required", s.logger)
		return
	}

	resource, err := s.resourceService.GetPublished(r.Context(), slug)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, resource, s.logger)
}

// handleRecordDownload bumps a resource's download counter.
func (s *Server) handleRecordDownload(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.BadRequest(w, "Resource slug is required", s.logger)
		return
	}

	if err := s.resourceService.RecordDownload(r.Context(), slug); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "download recorded"}, s.logger)
}

// handleSearch returns published resources matching a free-text term.
// An absent or invalid limit falls back to the service default.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := s.resourceService.Search(r.Context(), q.Get("q"), limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
