package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terra-clan/course-demand/internal/controller"
	"github.com/terra-clan/course-demand/internal/models"
)

// Client is a Go SDK for the course-demand API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithAPIKey sets the admin API key sent with every request
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new course-demand client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is returned for every non-2xx response
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s - %s", e.Status, e.Code, e.Message)
}

// IsAuthRequired reports whether err asks the caller to sign in first
func IsAuthRequired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "auth_required"
}

// Result is the outcome of an intent applied to a session workspace
type Result struct {
	Events       []models.Event   `json:"events"`
	SubmissionID string           `json:"submissionId,omitempty"`
	View         *controller.View `json:"view"`
}

// Share is the share message of a course
type Share struct {
	CourseID string          `json:"courseId"`
	Message  string          `json:"message"`
	Progress models.Progress `json:"progress"`
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Sessions ---

// CreateSession opens a new workspace. ttl of 0 uses the server default.
func (c *Client) CreateSession(ctx context.Context, ttl time.Duration) (*models.CreateSessionResponse, error) {
	req := models.CreateSessionRequest{TTL: int(ttl / time.Second)}
	return call[*models.CreateSessionResponse](ctx, c, http.MethodPost, "/api/v1/sessions", req)
}

// GetSession returns the session of token
func (c *Client) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return call[*models.Session](ctx, c, http.MethodGet, sessionPath(token, ""), nil)
}

// DeleteSession closes the session of token
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, sessionPath(token, ""), nil)
	return err
}

// ExtendSession pushes the expiry of a session further out
func (c *Client) ExtendSession(ctx context.Context, token string, d time.Duration) (*models.Session, error) {
	req := models.ExtendRequest{Seconds: int(d / time.Second)}
	return call[*models.Session](ctx, c, http.MethodPost, sessionPath(token, "/extend"), req)
}

// SignIn attaches a simulated identity to the session
func (c *Client) SignIn(ctx context.Context, token, name, email string) (*Result, error) {
	req := models.SignInRequest{Name: name, Email: email}
	return call[*Result](ctx, c, http.MethodPost, sessionPath(token, "/auth"), req)
}

// SignOut clears the identity of the session
func (c *Client) SignOut(ctx context.Context, token string) (*Result, error) {
	return call[*Result](ctx, c, http.MethodDelete, sessionPath(token, "/auth"), nil)
}

// --- Workspace ---

// View returns the current view of the session
func (c *Client) View(ctx context.Context, token string) (*controller.View, error) {
	return call[*controller.View](ctx, c, http.MethodGet, sessionPath(token, "/view"), nil)
}

// Dispatch applies any intent to the session
func (c *Client) Dispatch(ctx context.Context, token string, in controller.Intent) (*Result, error) {
	body, err := controller.EncodeIntent(in)
	if err != nil {
		return nil, err
	}
	return call[*Result](ctx, c, http.MethodPost, sessionPath(token, "/intents"), json.RawMessage(body))
}

// RequestCourse adds the signed-in user's request for a course.
// Anonymous sessions get an error for which IsAuthRequired is true.
func (c *Client) RequestCourse(ctx context.Context, token, courseID string) (*Result, error) {
	return call[*Result](ctx, c, http.MethodPost, coursePath(token, courseID, "/request"), nil)
}

// WithdrawCourse removes the session's request for a course
func (c *Client) WithdrawCourse(ctx context.Context, token, courseID string) (*Result, error) {
	return call[*Result](ctx, c, http.MethodDelete, coursePath(token, courseID, "/request"), nil)
}

// SetFilter sets the global text filter
func (c *Client) SetFilter(ctx context.Context, token, text string) (*Result, error) {
	return call[*Result](ctx, c, http.MethodPut, sessionPath(token, "/filter"), controller.SetGlobalFilter{Text: text})
}

// SetSort sets the sort key and order
func (c *Client) SetSort(ctx context.Context, token string, key models.SortKey, order models.SortOrder) (*Result, error) {
	return call[*Result](ctx, c, http.MethodPut, sessionPath(token, "/sort"), controller.SetSort{Key: key, Order: order})
}

// Share returns the share message of a course
func (c *Client) Share(ctx context.Context, token, courseID string) (*Share, error) {
	return call[*Share](ctx, c, http.MethodGet, coursePath(token, courseID, "/share"), nil)
}

// Suggestions returns college names matching query
func (c *Client) Suggestions(ctx context.Context, token, query string) ([]string, error) {
	path := sessionPath(token, "/suggestions") + "?q=" + url.QueryEscape(query)
	result, err := call[struct {
		Suggestions []string `json:"suggestions"`
	}](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return result.Suggestions, nil
}

// SubmitCourseRequest fills every form field and submits the form
func (c *Client) SubmitCourseRequest(ctx context.Context, token string, form models.CourseRequestForm) (*Result, error) {
	fields := []controller.UpdateForm{
		{Field: models.FormCollege, Value: form.College},
		{Field: models.FormSemester, Value: form.Semester},
		{Field: models.FormCourseName, Value: form.CourseName},
		{Field: models.FormDepartment, Value: form.Department},
	}
	for _, f := range fields {
		if _, err := call[json.RawMessage](ctx, c, http.MethodPut, sessionPath(token, "/form"), f); err != nil {
			return nil, err
		}
	}
	return call[*Result](ctx, c, http.MethodPost, sessionPath(token, "/form/submit"), nil)
}

// --- Admin ---

// ListCatalog returns the seed catalog new sessions start from
func (c *Client) ListCatalog(ctx context.Context) ([]models.Course, error) {
	result, err := call[struct {
		Courses []models.Course `json:"courses"`
	}](ctx, c, http.MethodGet, "/api/v1/admin/catalog", nil)
	if err != nil {
		return nil, err
	}
	return result.Courses, nil
}

// ReplaceCatalog replaces the seed catalog
func (c *Client) ReplaceCatalog(ctx context.Context, courses []models.Course) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPut, "/api/v1/admin/catalog", map[string]interface{}{
		"courses": courses,
	})
	return err
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	return err
}

func sessionPath(token, suffix string) string {
	return "/api/v1/sessions/" + url.PathEscape(token) + suffix
}

func coursePath(token, courseID, suffix string) string {
	return sessionPath(token, "/courses/"+url.PathEscape(courseID)+suffix)
}

// call performs a request and decodes the data of the response envelope
func call[T any](ctx context.Context, c *Client, method, path string, payload interface{}) (T, error) {
	var zero T

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	respBody, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return zero, err
	}

	var result envelope[T]
	if err := json.Unmarshal(respBody, &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Data, nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var result envelope[json.RawMessage]
		if err := json.Unmarshal(respBody, &result); err == nil && result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		} else {
			apiErr.Message = string(respBody)
		}
		return nil, apiErr
	}

	return respBody, nil
}
