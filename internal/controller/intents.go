package controller

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/terra-clan/course-demand/internal/models"
)

// Intent is a message describing one user action on a workspace
type Intent interface {
	Kind() string
}

type RequestCourse struct {
	CourseID string `json:"courseId"`
}

type WithdrawCourse struct {
	CourseID string `json:"courseId"`
}

// ToggleRequest requests an untracked course and withdraws a tracked one
type ToggleRequest struct {
	CourseID string `json:"courseId"`
}

type SetGlobalFilter struct {
	Text string `json:"text"`
}

type SetSort struct {
	Key   models.SortKey   `json:"key"`
	Order models.SortOrder `json:"order"`
}

// ToggleSort flips the order when Key is the current key, otherwise
// switches to Key ascending.
type ToggleSort struct {
	Key models.SortKey `json:"key"`
}

type ToggleCollege struct {
	College string `json:"college"`
}

type SetColumnFilter struct {
	College string              `json:"college"`
	Column  models.FilterColumn `json:"column"`
	Value   string              `json:"value"`
}

type ClearColumnFilter struct {
	College string              `json:"college"`
	Column  models.FilterColumn `json:"column"`
}

type FocusColumnFilter struct {
	College string              `json:"college"`
	Column  models.FilterColumn `json:"column"`
}

type BlurColumnFilter struct{}

// SignIn is simulated: the identity is checked for presence and shape only
type SignIn struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type SignOut struct{}

type UpdateForm struct {
	Field models.FormField `json:"field"`
	Value string           `json:"value"`
}

type FocusCollegeInput struct{}

type BlurCollegeInput struct{}

type PickSuggestion struct {
	College string `json:"college"`
}

type SubmitCourseRequest struct{}

type ResetForm struct{}

type ReplaceCourses struct {
	Courses []models.Course `json:"courses"`
}

type PatchCourses struct {
	Courses []models.Course `json:"courses"`
}

func (RequestCourse) Kind() string       { return "request_course" }
func (WithdrawCourse) Kind() string      { return "withdraw_course" }
func (ToggleRequest) Kind() string       { return "toggle_request" }
func (SetGlobalFilter) Kind() string     { return "set_global_filter" }
func (SetSort) Kind() string             { return "set_sort" }
func (ToggleSort) Kind() string          { return "toggle_sort" }
func (ToggleCollege) Kind() string       { return "toggle_college" }
func (SetColumnFilter) Kind() string     { return "set_column_filter" }
func (ClearColumnFilter) Kind() string   { return "clear_column_filter" }
func (FocusColumnFilter) Kind() string   { return "focus_column_filter" }
func (BlurColumnFilter) Kind() string    { return "blur_column_filter" }
func (SignIn) Kind() string              { return "sign_in" }
func (SignOut) Kind() string             { return "sign_out" }
func (UpdateForm) Kind() string          { return "update_form" }
func (FocusCollegeInput) Kind() string   { return "focus_college_input" }
func (BlurCollegeInput) Kind() string    { return "blur_college_input" }
func (PickSuggestion) Kind() string      { return "pick_suggestion" }
func (SubmitCourseRequest) Kind() string { return "submit_course_request" }
func (ResetForm) Kind() string           { return "reset_form" }
func (ReplaceCourses) Kind() string      { return "replace_courses" }
func (PatchCourses) Kind() string        { return "patch_courses" }

var intentFactories = map[string]func() Intent{
	"request_course":        func() Intent { return &RequestCourse{} },
	"withdraw_course":       func() Intent { return &WithdrawCourse{} },
	"toggle_request":        func() Intent { return &ToggleRequest{} },
	"set_global_filter":     func() Intent { return &SetGlobalFilter{} },
	"set_sort":              func() Intent { return &SetSort{} },
	"toggle_sort":           func() Intent { return &ToggleSort{} },
	"toggle_college":        func() Intent { return &ToggleCollege{} },
	"set_column_filter":     func() Intent { return &SetColumnFilter{} },
	"clear_column_filter":   func() Intent { return &ClearColumnFilter{} },
	"focus_column_filter":   func() Intent { return &FocusColumnFilter{} },
	"blur_column_filter":    func() Intent { return &BlurColumnFilter{} },
	"sign_in":               func() Intent { return &SignIn{} },
	"sign_out":              func() Intent { return &SignOut{} },
	"update_form":           func() Intent { return &UpdateForm{} },
	"focus_college_input":   func() Intent { return &FocusCollegeInput{} },
	"blur_college_input":    func() Intent { return &BlurCollegeInput{} },
	"pick_suggestion":       func() Intent { return &PickSuggestion{} },
	"submit_course_request": func() Intent { return &SubmitCourseRequest{} },
	"reset_form":            func() Intent { return &ResetForm{} },
	"replace_courses":       func() Intent { return &ReplaceCourses{} },
	"patch_courses":         func() Intent { return &PatchCourses{} },
}

// DecodeIntent parses a JSON intent of the form {"type": "...", ...fields}
func DecodeIntent(data []byte) (Intent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse intent: %w", err)
	}

	factory, ok := intentFactories[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, envelope.Type)
	}

	in := factory()
	if err := json.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("failed to parse %s intent: %w", envelope.Type, err)
	}
	// The reducer switches on value types
	return reflect.ValueOf(in).Elem().Interface().(Intent), nil
}

// EncodeIntent renders in as JSON including its "type" field
func EncodeIntent(in Intent) ([]byte, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(in.Kind())
	fields["type"] = kind

	return json.Marshal(fields)
}
