package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/terra-clan/course-demand/internal/models"
)

// CatalogRequest carries courses for a replace or patch of the seed catalog
type CatalogRequest struct {
	Courses []models.Course `json:"courses"`
}

// Admin catalog handlers. Changes apply to sessions created afterwards;
// open workspaces keep their own copy.

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	courses := s.catalog.Courses()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

func (s *Server) handleReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	var req CatalogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Courses) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "courses must not be empty")
		return
	}

	if err := s.catalog.Replace(req.Courses); err != nil {
		respondDomainError(w, err, "failed to replace catalog")
		return
	}

	slog.Info("seed catalog replaced", "client", clientName(r), "courses", len(req.Courses))
	s.handleGetCatalog(w, r)
}

func (s *Server) handlePatchCatalog(w http.ResponseWriter, r *http.Request) {
	var req CatalogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.catalog.Patch(req.Courses); err != nil {
		respondDomainError(w, err, "failed to patch catalog")
		return
	}

	slog.Info("seed catalog patched", "client", clientName(r), "courses", len(req.Courses))
	s.handleGetCatalog(w, r)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	filters := models.SessionFilters{
		Limit:  50, // default
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filters.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filters.Offset = o
		}
	}
	if authStr := r.URL.Query().Get("authenticated"); authStr != "" {
		if a, err := strconv.ParseBool(authStr); err == nil {
			filters.Authenticated = &a
		}
	}

	list, err := s.sessions.List(r.Context(), filters)
	if err != nil {
		respondDomainError(w, err, "failed to list sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": list,
		"total":    len(list),
	})
}

func clientName(r *http.Request) string {
	if client := ClientFromContext(r.Context()); client != nil {
		return client.Name
	}
	return ""
}
