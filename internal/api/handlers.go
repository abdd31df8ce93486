package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/course-demand/internal/catalog"
	"github.com/terra-clan/course-demand/internal/controller"
	"github.com/terra-clan/course-demand/internal/seed"
	"github.com/terra-clan/course-demand/internal/sessions"
)

// maxBodyBytes bounds JSON request bodies (a full catalog replace fits easily)
const maxBodyBytes = 4 << 20

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondDomainError maps sentinel errors to HTTP statuses and error codes.
// Anything unrecognised is logged and reported as an internal error.
func respondDomainError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", "session not found")
	case errors.Is(err, sessions.ErrSessionExpired):
		respondError(w, http.StatusGone, "session_expired", "session has expired")
	case errors.Is(err, catalog.ErrCourseNotFound):
		respondError(w, http.StatusNotFound, "course_not_found", err.Error())
	case errors.Is(err, controller.ErrNotEligible):
		respondError(w, http.StatusConflict, "not_eligible", err.Error())
	case errors.Is(err, controller.ErrFormIncomplete):
		respondError(w, http.StatusUnprocessableEntity, "form_incomplete", "every form field is required")
	case errors.Is(err, controller.ErrUnknownIntent):
		respondError(w, http.StatusBadRequest, "unknown_intent", err.Error())
	case errors.Is(err, controller.ErrInvalidSort):
		respondError(w, http.StatusBadRequest, "invalid_sort", err.Error())
	case errors.Is(err, controller.ErrUnknownColumn):
		respondError(w, http.StatusBadRequest, "unknown_column", err.Error())
	case errors.Is(err, controller.ErrUnknownFormField):
		respondError(w, http.StatusBadRequest, "unknown_form_field", err.Error())
	case errors.Is(err, controller.ErrInvalidIdentity):
		respondError(w, http.StatusBadRequest, "invalid_identity", "name and a valid email are required")
	case errors.Is(err, seed.ErrInvalidCourse):
		respondError(w, http.StatusBadRequest, "invalid_course", err.Error())
	default:
		slog.Error(action, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", action)
	}
}

// decodeJSON reads a bounded JSON body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// pathParam returns a URL parameter. chi matches on RawPath when the request
// path carries escapes the default encoding would not produce; only then is
// the parameter still escaped.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Ping(r.Context()); err != nil {
		slog.Warn("readiness check failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
		return
	}

	if s.catalog.Len() == 0 {
		respondError(w, http.StatusServiceUnavailable, "not_ready", "seed catalog is empty")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"courses": s.catalog.Len(),
	})
}
