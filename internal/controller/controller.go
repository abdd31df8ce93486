package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/course-demand/internal/catalog"
	"github.com/terra-clan/course-demand/internal/debounce"
	"github.com/terra-clan/course-demand/internal/models"
	"github.com/terra-clan/course-demand/internal/notify"
	"github.com/terra-clan/course-demand/internal/seed"
	"github.com/terra-clan/course-demand/internal/submission"
)

// Common errors
var (
	ErrNotEligible      = errors.New("course is not open for requests")
	ErrFormIncomplete   = errors.New("course request form is incomplete")
	ErrUnknownIntent    = errors.New("unknown intent")
	ErrInvalidSort      = errors.New("invalid sort")
	ErrUnknownColumn    = errors.New("unknown filter column")
	ErrUnknownFormField = errors.New("unknown form field")
	ErrInvalidIdentity  = errors.New("invalid identity")
)

// DefaultHideDelay lets a click on a suggestion land before the list hides
const DefaultHideDelay = 200 * time.Millisecond

var validate = validator.New()

// Options configures a Controller
type Options struct {
	SessionID   string
	Eligibility catalog.Eligibility
	Notifier    notify.Notifier    // optional
	Submitter   submission.Handler // optional
	HideDelay   time.Duration
	Now         func() time.Time
}

// Outcome is the result of one dispatched intent
type Outcome struct {
	Events       []models.Event `json:"events"`
	SubmissionID string         `json:"submissionId,omitempty"`
}

// AuthRequired reports whether the intent was redirected to authentication
func (o *Outcome) AuthRequired() bool {
	for _, ev := range o.Events {
		if ev.Type == models.EventAuthRequired {
			return true
		}
	}
	return false
}

// Controller owns the State of one workspace and applies intents to it
type Controller struct {
	mu    sync.Mutex
	state *State

	sessionID   string
	eligibility catalog.Eligibility
	notifier    notify.Notifier
	submitter   submission.Handler
	now         func() time.Time

	hide    *debounce.Timer
	hideGen uint64
}

// New creates a controller over a private copy of courses
func New(courses []models.Course, opts Options) *Controller {
	if opts.Eligibility == nil {
		opts.Eligibility = catalog.InactiveOnly()
	}
	if opts.HideDelay <= 0 {
		opts.HideDelay = DefaultHideDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		state:       NewState(courses),
		sessionID:   opts.SessionID,
		eligibility: opts.Eligibility,
		notifier:    opts.Notifier,
		submitter:   opts.Submitter,
		now:         opts.Now,
		hide:        debounce.New(opts.HideDelay),
	}
}

// Dispatch applies an intent and forwards the resulting events to the
// notifier. Collaborator failures are logged, not returned.
func (c *Controller) Dispatch(ctx context.Context, in Intent) (*Outcome, error) {
	c.mu.Lock()
	events, err := c.reduce(in)
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := &Outcome{Events: events}
	if out.Events == nil {
		out.Events = []models.Event{}
	}

	for _, ev := range events {
		if ev.Type != models.EventCourseRequestSubmitted || ev.Form == nil || c.submitter == nil {
			continue
		}
		id, err := c.submitter.Submit(ctx, c.sessionID, *ev.Form)
		if err != nil {
			slog.Error("course request submission failed", "error", err, "session_id", c.sessionID)
			continue
		}
		out.SubmissionID = id
	}

	if c.notifier != nil {
		for _, ev := range events {
			if err := c.notifier.Notify(ctx, ev); err != nil {
				slog.Warn("failed to deliver event", "error", err, "type", ev.Type, "session_id", c.sessionID)
			}
		}
	}

	return out, nil
}

// reduce is the single state transition function. Caller holds c.mu.
func (c *Controller) reduce(in Intent) ([]models.Event, error) {
	s := c.state

	switch v := in.(type) {
	case RequestCourse:
		return c.request(v.CourseID)

	case WithdrawCourse:
		return c.withdraw(v.CourseID)

	case ToggleRequest:
		if s.Tracker.Has(v.CourseID) {
			return c.withdraw(v.CourseID)
		}
		return c.request(v.CourseID)

	case SetGlobalFilter:
		s.GlobalFilter = v.Text
		return nil, nil

	case SetSort:
		spec := models.SortSpec{Key: v.Key, Order: v.Order}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSort, err)
		}
		s.Sort = spec
		return nil, nil

	case ToggleSort:
		if !v.Key.IsValid() {
			return nil, fmt.Errorf("%w: invalid sort key %q", ErrInvalidSort, v.Key)
		}
		if s.Sort.Key == v.Key {
			s.Sort.Order = s.Sort.Order.Reverse()
		} else {
			s.Sort = models.SortSpec{Key: v.Key, Order: models.SortAsc}
		}
		return nil, nil

	case ToggleCollege:
		if s.Expanded[v.College] {
			delete(s.Expanded, v.College)
		} else {
			s.Expanded[v.College] = true
		}
		return nil, nil

	case SetColumnFilter:
		if !v.Column.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, v.Column)
		}
		c.setColumnFilter(v.College, v.Column, v.Value)
		return nil, nil

	case ClearColumnFilter:
		if !v.Column.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, v.Column)
		}
		c.setColumnFilter(v.College, v.Column, "")
		s.ActiveColumn = nil
		return nil, nil

	case FocusColumnFilter:
		if !v.Column.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, v.Column)
		}
		s.ActiveColumn = &ActiveColumn{College: v.College, Column: v.Column}
		return nil, nil

	case BlurColumnFilter:
		s.ActiveColumn = nil
		return nil, nil

	case SignIn:
		if err := validate.Struct(v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
		}
		s.Identity = &models.Identity{Name: v.Name, Email: v.Email}
		ev := c.event(models.EventSignedIn)
		ev.Message = "signed in as " + v.Name
		return []models.Event{ev}, nil

	case SignOut:
		if s.Identity == nil {
			return nil, nil
		}
		s.Identity = nil
		return []models.Event{c.event(models.EventSignedOut)}, nil

	case UpdateForm:
		if err := s.Form.Set(v.Field, v.Value); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormField, v.Field)
		}
		if v.Field == models.FormCollege {
			c.cancelHide()
			c.refreshSuggestions()
		}
		return nil, nil

	case FocusCollegeInput:
		c.cancelHide()
		c.refreshSuggestions()
		return nil, nil

	case BlurCollegeInput:
		c.scheduleHide()
		return nil, nil

	case PickSuggestion:
		c.cancelHide()
		s.Form.College = v.College
		s.Suggestions = nil
		s.SuggestionsVisible = false
		return nil, nil

	case SubmitCourseRequest:
		if err := validate.Struct(s.Form); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormIncomplete, err)
		}
		form := s.Form
		c.resetForm()
		ev := c.event(models.EventCourseRequestSubmitted)
		ev.College = form.College
		ev.Course = form.CourseName
		ev.Form = &form
		return []models.Event{ev}, nil

	case ResetForm:
		c.resetForm()
		return nil, nil

	case ReplaceCourses:
		if err := seed.Validate(v.Courses); err != nil {
			return nil, err
		}
		s.Store.Replace(v.Courses)
		s.Tracker.Clear()
		return nil, nil

	case PatchCourses:
		if err := seed.Validate(v.Courses); err != nil {
			return nil, err
		}
		s.Store.Patch(v.Courses)
		for _, course := range v.Courses {
			s.Tracker.Remove(course.ID)
		}
		return nil, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownIntent, in)
}

func (c *Controller) request(id string) ([]models.Event, error) {
	s := c.state

	course, ok := s.Store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrCourseNotFound, id)
	}

	if s.Identity == nil {
		ev := c.courseEvent(models.EventAuthRequired, course)
		ev.Message = "sign in to request courses"
		return []models.Event{ev}, nil
	}

	if s.Tracker.Has(id) {
		return nil, nil
	}

	if !c.eligibility.Allows(course.Status) {
		return nil, fmt.Errorf("%w: course %s is %s", ErrNotEligible, id, course.Status)
	}

	updated, err := s.Store.Increment(id)
	if err != nil {
		return nil, err
	}
	s.Tracker.Add(id)

	return []models.Event{c.courseEvent(models.EventRequestAdded, updated)}, nil
}

func (c *Controller) withdraw(id string) ([]models.Event, error) {
	s := c.state

	if _, ok := s.Store.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrCourseNotFound, id)
	}

	if !s.Tracker.Has(id) {
		return nil, nil
	}

	updated, err := s.Store.Decrement(id)
	if err != nil {
		return nil, err
	}
	s.Tracker.Remove(id)

	return []models.Event{c.courseEvent(models.EventRequestWithdrawn, updated)}, nil
}

func (c *Controller) setColumnFilter(college string, col models.FilterColumn, value string) {
	f := c.state.ColumnFilters[college].With(col, value)
	if f.IsEmpty() {
		delete(c.state.ColumnFilters, college)
		return
	}
	c.state.ColumnFilters[college] = f
}

func (c *Controller) refreshSuggestions() {
	s := c.state
	s.Suggestions = catalog.SuggestColleges(s.Store.Colleges(), s.Form.College, catalog.MaxSuggestions)
	s.SuggestionsVisible = len(s.Suggestions) > 0
}

// scheduleHide hides the suggestions after the debounce delay unless a
// later focus, pick or blur supersedes it. Caller holds c.mu.
func (c *Controller) scheduleHide() {
	c.hideGen++
	gen := c.hideGen
	c.hide.Schedule(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hideGen == gen {
			c.state.SuggestionsVisible = false
		}
	})
}

func (c *Controller) cancelHide() {
	c.hideGen++
	c.hide.Cancel()
}

func (c *Controller) resetForm() {
	c.cancelHide()
	c.state.Form = models.CourseRequestForm{}
	c.state.Suggestions = nil
	c.state.SuggestionsVisible = false
}

func (c *Controller) event(t models.EventType) models.Event {
	return models.Event{
		Type:      t,
		SessionID: c.sessionID,
		At:        c.now().UTC(),
	}
}

func (c *Controller) courseEvent(t models.EventType, course models.Course) models.Event {
	ev := c.event(t)
	ev.CourseID = course.ID
	ev.Course = course.Course
	ev.College = course.College
	ev.RequestCount = course.RequestCount
	ev.Threshold = catalog.Threshold
	return ev
}

// Identity returns the signed-in identity, nil when anonymous
func (c *Controller) Identity() *models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Identity == nil {
		return nil
	}
	id := *c.state.Identity
	return &id
}

// RequestedCount returns how many courses this session has requested
func (c *Controller) RequestedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Tracker.Len()
}

// Suggest returns college suggestions for query without touching the form
func (c *Controller) Suggest(query string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return catalog.SuggestColleges(c.state.Store.Colleges(), query, catalog.MaxSuggestions)
}

// Close cancels the pending suggestion hide
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelHide()
}
