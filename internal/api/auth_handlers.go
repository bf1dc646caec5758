package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/assetbayapp/assetbay-server/internal/http/response"
	"github.com/assetbayapp/assetbay-server/internal/service"
)

// handleLogin authenticates an administrator and returns a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	req.IPAddress = clientIP(r)
	req.UserAgent = r.UserAgent()

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleLogout revokes the caller's session. The endpoint is public on
// purpose: an expired-but-well-formed token should still be able to log
// out without tripping the auth middleware first.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
		return
	}

	if err := s.authService.Logout(r.Context(), token, clientIP(r), r.UserAgent()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "logged out"}, s.logger)
}

// handleGetCurrentUser returns the authenticated administrator.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	admin := currentAdmin(r.Context())
	if admin == nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}
	response.Success(w, admin, s.logger)
}
