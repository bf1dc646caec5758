package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetbayapp/assetbay-server/internal/http/response"
	"github.com/assetbayapp/assetbay-server/internal/service"
)

// handleAdminListResources returns a page of resources in any state.
func (s *Server) handleAdminListResources(w http.ResponseWriter, r *http.Request) {
	list, err := s.resourceService.ListAdmin(r.Context(), parseListParams(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, list, s.logger)
}

// handleAdminGetResource returns a resource by ID regardless of status.
func (s *Server) handleAdminGetResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")
	if resourceID == "" {
		response.BadRequest(w, "Resource ID is required", s.logger)
		return
	}

	resource, err := s.resourceService.Get(r.Context(), resourceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, resource, s.logger)
}

// handleCreateResource creates a resource.
func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req service.CreateResourceRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resource, err := s.resourceService.Create(r.Context(), currentAdmin(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, resource, s.logger)
}

// handleUpdateResource applies a partial update to a resource.
func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")
	if resourceID == "" {
		response.BadRequest(w, "Resource ID is required", s.logger)
		return
	}

	var req service.UpdateResourceRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resource, err := s.resourceService.Update(r.Context(), currentAdmin(r.Context()), resourceID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, resource, s.logger)
}

// handleDeleteResource removes a resource and everything it owns.
func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")
	if resourceID == "" {
		response.BadRequest(w, "Resource ID is required", s.logger)
		return
	}

	if err := s.resourceService.Delete(r.Context(), currentAdmin(r.Context()), resourceID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"message": "resource deleted"}, s.logger)
}
