package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/assetbayapp/assetbay-server/internal/http/response"
	"github.com/assetbayapp/assetbay-server/internal/service"
)

// handleListTypes returns all resource types.
func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.taxonomyService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, types, s.logger)
}

// handleListCategories returns all categories with tree references and
// published resource counts.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.taxonomyService.ListCategories(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, categories, s.logger)
}

// handleListTags returns all tags, heaviest first.
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.taxonomyService.ListTags(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, tags, s.logger)
}

// handleCreateType creates a resource type.
func (s *Server) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTypeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	t, err := s.taxonomyService.CreateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, t, s.logger)
}

// handleCreateCategory creates a category.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	c, err := s.taxonomyService.CreateCategory(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, c, s.logger)
}

// handleCreateTag creates a tag.
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTagRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tag, err := s.taxonomyService.CreateTag(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, tag, s.logger)
}
