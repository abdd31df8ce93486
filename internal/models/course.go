package models

import (
	"fmt"
	"math"
)

// CourseStatus represents the offering state of a course
type CourseStatus string

const (
	CourseActive   CourseStatus = "active"   // Offered, "Learn Now"
	CourseProgress CourseStatus = "progress" // Under review
	CourseInactive CourseStatus = "inactive" // Not offered yet, requests needed
)

// IsValid reports whether s is one of the known statuses
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseActive, CourseProgress, CourseInactive:
		return true
	}
	return false
}

// IsLearnable returns true if the course is already offered
func (s CourseStatus) IsLearnable() bool {
	return s == CourseActive
}

// IsUnderReview returns true if the course is in the review pipeline
func (s CourseStatus) IsUnderReview() bool {
	return s == CourseProgress
}

// AllCourseStatuses lists every status in display order
func AllCourseStatuses() []CourseStatus {
	return []CourseStatus{CourseActive, CourseProgress, CourseInactive}
}

// MaxRequestCount is the largest demand counter a course can hold (the INTEGER column range)
const MaxRequestCount = math.MaxInt32

// Course represents one course offering and its live demand counter
type Course struct {
	ID           string       `json:"id" yaml:"id"`
	College      string       `json:"college" yaml:"college"`
	Semester     int          `json:"semester" yaml:"semester"`
	Course       string       `json:"course" yaml:"course"`
	Department   string       `json:"department" yaml:"department"`
	RequestCount int          `json:"requestCount" yaml:"request_count"`
	Status       CourseStatus `json:"status" yaml:"status"`
}

// Validate checks the seed-level invariants of a course record
func (c Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("course id is required")
	}
	if c.College == "" {
		return fmt.Errorf("course %s: college is required", c.ID)
	}
	if c.Semester < 1 {
		return fmt.Errorf("course %s: semester must be positive, got %d", c.ID, c.Semester)
	}
	if c.RequestCount < 0 {
		return fmt.Errorf("course %s: request count must not be negative, got %d", c.ID, c.RequestCount)
	}
	if c.RequestCount > MaxRequestCount {
		return fmt.Errorf("course %s: request count must not exceed %d, got %d", c.ID, MaxRequestCount, c.RequestCount)
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("course %s: invalid status %q", c.ID, c.Status)
	}
	return nil
}

// College is a derived grouping of courses sharing one institution name.
// It has no identity of its own and is rebuilt on every view computation.
type College struct {
	Name          string   `json:"name"`
	Courses       []Course `json:"courses"`
	TotalRequests int      `json:"totalRequests"`
}

// Progress is the display-only distance of a course from the activation threshold
type Progress struct {
	RequestCount int     `json:"requestCount"`
	Threshold    int     `json:"threshold"`
	Percentage   float64 `json:"percentage"`
	IsComplete   bool    `json:"isComplete"`
}
