// Package api provides the HTTP API server and handlers for the AssetBay
// catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/assetbayapp/assetbay-server/internal/http/response"
	"github.com/assetbayapp/assetbay-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService     *service.AuthService
	resourceService *service.ResourceService
	taxonomyService *service.TaxonomyService
	router          *chi.Mux
	logger          *slog.Logger
	allowedOrigins  []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	resourceService *service.ResourceService,
	taxonomyService *service.TaxonomyService,
	allowedOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:     authService,
		resourceService: resourceService,
		taxonomyService: taxonomyService,
		router:          chi.NewRouter(),
		logger:          logger,
		allowedOrigins:  allowedOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleGetCurrentUser)
			})
		})

		// Public catalog reads.
		r.Get("/resources", s.handleListResources)
		r.Get("/resources/{slug}", s.handleGetResource)
		r.Post("/resources/{slug}/download", s.handleRecordDownload)
		r.Get("/search", s.handleSearch)
		r.Get("/categories", s.handleListCategories)
		r.Get("/types", s.handleListTypes)
		r.Get("/tags", s.handleListTags)

		// Administrator write API.
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/resources", func(r chi.Router) {
				r.Get("/", s.handleAdminListResources)
				r.Post("/", s.handleCreateResource)
				r.Get("/{id}", s.handleAdminGetResource)
				r.Put("/{id}", s.handleUpdateResource)
				r.Delete("/{id}", s.handleDeleteResource)
			})

			r.Route("/types", func(r chi.Router) {
				r.Get("/", s.handleListTypes)
				r.Post("/", s.handleCreateType)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
			})
			r.Route("/tags", func(r chi.Router) {
				r.Get("/", s.handleListTags)
				r.Post("/", s.handleCreateTag)
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
