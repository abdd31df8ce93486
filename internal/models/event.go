package models

import "time"

// EventType identifies a notification emitted by a session workspace
type EventType string

const (
	EventRequestAdded           EventType = "request_added"
	EventRequestWithdrawn       EventType = "request_withdrawn"
	EventAuthRequired           EventType = "auth_required"
	EventSignedIn               EventType = "signed_in"
	EventSignedOut              EventType = "signed_out"
	EventCourseRequestSubmitted EventType = "course_request_submitted"
)

// Event is consumed by notification collaborators (toasts, pub/sub, websocket)
type Event struct {
	Type         EventType          `json:"type"`
	SessionID    string             `json:"session_id,omitempty"`
	CourseID     string             `json:"course_id,omitempty"`
	Course       string             `json:"course,omitempty"`
	College      string             `json:"college,omitempty"`
	RequestCount int                `json:"request_count,omitempty"`
	Threshold    int                `json:"threshold,omitempty"`
	Form         *CourseRequestForm `json:"form,omitempty"`
	Message      string             `json:"message,omitempty"`
	At           time.Time          `json:"at"`
}
