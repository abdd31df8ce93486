package api

import (
	"io"
	"net/http"
	"time"

	"github.com/terra-clan/course-demand/internal/controller"
	"github.com/terra-clan/course-demand/internal/models"
	"github.com/terra-clan/course-demand/internal/sessions"
)

// DispatchResponse is returned by every endpoint that applies an intent
type DispatchResponse struct {
	Events       []models.Event   `json:"events"`
	SubmissionID string           `json:"submissionId,omitempty"`
	View         *controller.View `json:"view"`
}

// ShareResponse carries the share message of a course
type ShareResponse struct {
	CourseID string          `json:"courseId"`
	Message  string          `json:"message"`
	Progress models.Progress `json:"progress"`
}

// ColumnFilterRequest sets one column filter of a college section
type ColumnFilterRequest struct {
	Value string `json:"value"`
}

// dispatch applies an intent to the session of the request and writes the
// outcome. An intent redirected to authentication answers 401.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, in controller.Intent) {
	session := SessionFromContext(r.Context())

	out, view, err := s.sessions.Dispatch(r.Context(), session.Token, in)
	if err != nil {
		respondDomainError(w, err, "failed to apply "+in.Kind())
		return
	}

	if out.AuthRequired() {
		respondError(w, http.StatusUnauthorized, "auth_required", "sign in to request courses")
		return
	}

	respondJSON(w, http.StatusOK, DispatchResponse{
		Events:       out.Events,
		SubmissionID: out.SubmissionID,
		View:         view,
	})
}

// --- Session lifecycle ---

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	if req.TTL < 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "ttl must not be negative (seconds)")
		return
	}

	var opts sessions.CreateOptions
	if req.TTL > 0 {
		ttl := time.Duration(req.TTL) * time.Second
		opts.TTL = &ttl
	}

	session, err := s.sessions.Create(r.Context(), opts)
	if err != nil {
		respondDomainError(w, err, "failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateSessionResponse{
		ID:        session.ID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionFromContext(r.Context()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	if err := s.sessions.Delete(r.Context(), session.ID); err != nil {
		respondDomainError(w, err, "failed to delete session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "session deleted",
	})
}

func (s *Server) handleExtendSession(w http.ResponseWriter, r *http.Request) {
	var req models.ExtendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Seconds <= 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "seconds must be positive")
		return
	}

	session := SessionFromContext(r.Context())
	updated, err := s.sessions.ExtendTTL(r.Context(), session.Token, time.Duration(req.Seconds)*time.Second)
	if err != nil {
		respondDomainError(w, err, "failed to extend session")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// --- Authentication (simulated) ---

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.dispatch(w, r, controller.SignIn{Name: req.Name, Email: req.Email})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.SignOut{})
}

// --- Workspace ---

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	view, err := s.sessions.View(r.Context(), session.Token)
	if err != nil {
		respondDomainError(w, err, "failed to build view")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}

	in, err := controller.DecodeIntent(body)
	if err != nil {
		respondDomainError(w, err, "failed to decode intent")
		return
	}

	s.dispatch(w, r, in)
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var in controller.SetGlobalFilter
	if !decodeJSON(w, r, &in) {
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var in controller.SetSort
	if !decodeJSON(w, r, &in) {
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.ToggleSort{Key: models.SortKey(pathParam(r, "key"))})
}

func (s *Server) handleToggleCollege(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.ToggleCollege{College: pathParam(r, "college")})
}

func (s *Server) handleSetColumnFilter(w http.ResponseWriter, r *http.Request) {
	var req ColumnFilterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.dispatch(w, r, controller.SetColumnFilter{
		College: pathParam(r, "college"),
		Column:  models.FilterColumn(pathParam(r, "column")),
		Value:   req.Value,
	})
}

func (s *Server) handleClearColumnFilter(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.ClearColumnFilter{
		College: pathParam(r, "college"),
		Column:  models.FilterColumn(pathParam(r, "column")),
	})
}

func (s *Server) handleRequestCourse(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.RequestCourse{CourseID: pathParam(r, "id")})
}

func (s *Server) handleWithdrawCourse(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.WithdrawCourse{CourseID: pathParam(r, "id")})
}

func (s *Server) handleToggleRequest(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.ToggleRequest{CourseID: pathParam(r, "id")})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	id := pathParam(r, "id")

	msg, progress, err := s.sessions.Share(r.Context(), session.Token, id)
	if err != nil {
		respondDomainError(w, err, "failed to build share message")
		return
	}

	respondJSON(w, http.StatusOK, ShareResponse{
		CourseID: id,
		Message:  msg,
		Progress: progress,
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	suggestions, err := s.sessions.Suggest(r.Context(), session.Token, r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, err, "failed to suggest colleges")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}

// --- Course request form ---

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var in controller.UpdateForm
	if !decodeJSON(w, r, &in) {
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, controller.SubmitCourseRequest{})
}
