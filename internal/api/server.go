package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/course-demand/internal/config"
	"github.com/terra-clan/course-demand/internal/models"
	"github.com/terra-clan/course-demand/internal/notify"
	"github.com/terra-clan/course-demand/internal/sessions"
)

// CatalogStore is the seed catalog new sessions start from
type CatalogStore interface {
	Courses() []models.Course
	Replace(courses []models.Course) error
	Patch(courses []models.Course) error
	Len() int
}

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	sessions       sessions.Manager
	catalog        CatalogStore
	hub            *notify.Hub
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server. hub may be nil, in which case the
// event stream endpoint is not served.
func NewServer(
	cfg config.ServerConfig,
	manager sessions.Manager,
	store CatalogStore,
	hub *notify.Hub,
	clients []*models.ApiClient,
) *Server {
	s := &Server{
		config:         cfg,
		sessions:       manager,
		catalog:        store,
		hub:            hub,
		authMiddleware: NewAuthMiddleware(clients),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Long-lived websocket streams must not inherit the request timeout
	timeout := middleware.Timeout(60 * time.Second)

	// Health check (outside versioned API - public)
	r.With(timeout).Get("/health", s.handleHealth)
	r.With(timeout).Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		// Session workspaces (the session token is the credential)
		r.Route("/sessions", func(r chi.Router) {
			r.With(timeout).Post("/", s.handleCreateSession)

			r.Route("/{token}", func(r chi.Router) {
				r.Use(s.sessionMiddleware)

				r.Get("/events", s.handleEventsWS)

				r.Group(func(r chi.Router) {
					r.Use(timeout)

					r.Get("/", s.handleGetSession)
					r.Delete("/", s.handleDeleteSession)
					r.Post("/extend", s.handleExtendSession)

					r.Post("/auth", s.handleSignIn)
					r.Delete("/auth", s.handleSignOut)

					r.Get("/view", s.handleView)
					r.Post("/intents", s.handleIntent)

					r.Put("/filter", s.handleSetFilter)
					r.Put("/sort", s.handleSetSort)
					r.Post("/sort/{key}/toggle", s.handleToggleSort)

					r.Post("/colleges/{college}/toggle", s.handleToggleCollege)
					r.Put("/colleges/{college}/filters/{column}", s.handleSetColumnFilter)
					r.Delete("/colleges/{college}/filters/{column}", s.handleClearColumnFilter)

					r.Post("/courses/{id}/request", s.handleRequestCourse)
					r.Delete("/courses/{id}/request", s.handleWithdrawCourse)
					r.Post("/courses/{id}/toggle", s.handleToggleRequest)
					r.Get("/courses/{id}/share", s.handleShare)

					r.Get("/suggestions", s.handleSuggestions)

					r.Put("/form", s.handleUpdateForm)
					r.Post("/form/submit", s.handleSubmitForm)
				})
			})
		})

		// Admin (API key auth)
		r.Route("/admin", func(r chi.Router) {
			r.Use(timeout)
			r.Use(s.authMiddleware.Authenticate)

			r.With(s.authMiddleware.RequirePermission("catalog:read")).Get("/catalog", s.handleGetCatalog)
			r.With(s.authMiddleware.RequirePermission("catalog:write")).Put("/catalog", s.handleReplaceCatalog)
			r.With(s.authMiddleware.RequirePermission("catalog:write")).Patch("/catalog", s.handlePatchCatalog)
			r.With(s.authMiddleware.RequirePermission("sessions:read")).Get("/sessions", s.handleListSessions)
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
