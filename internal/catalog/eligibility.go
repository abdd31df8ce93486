package catalog

import (
	"fmt"
	"strings"

	"github.com/terra-clan/course-demand/internal/models"
)

// Eligibility is the set of statuses whose courses accept request/withdraw
type Eligibility map[models.CourseStatus]bool

// InactiveOnly allows requests on courses that are not offered yet
func InactiveOnly() Eligibility {
	return Eligibility{models.CourseInactive: true}
}

// AllStatuses allows requests on every course
func AllStatuses() Eligibility {
	e := Eligibility{}
	for _, s := range models.AllCourseStatuses() {
		e[s] = true
	}
	return e
}

// ParseEligibility parses a comma separated status list, e.g. "inactive,progress"
func ParseEligibility(raw string) (Eligibility, error) {
	e := Eligibility{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status := models.CourseStatus(part)
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown course status %q", part)
		}
		e[status] = true
	}
	if len(e) == 0 {
		return nil, fmt.Errorf("at least one eligible status is required")
	}
	return e, nil
}

// Allows reports whether courses with status can be requested
func (e Eligibility) Allows(status models.CourseStatus) bool {
	return e[status]
}

// String renders the set in status display order
func (e Eligibility) String() string {
	var parts []string
	for _, s := range models.AllCourseStatuses() {
		if e[s] {
			parts = append(parts, string(s))
		}
	}
	return strings.Join(parts, ",")
}

// Affordances are the actions a presentation layer may offer for one course
type Affordances struct {
	CanRequest  bool `json:"canRequest"`
	CanWithdraw bool `json:"canWithdraw"`
	CanLearn    bool `json:"canLearn"`
	UnderReview bool `json:"underReview"`
}

// Affordances computes the actions for a course given whether the session requested it
func (e Eligibility) Affordances(c models.Course, requested bool) Affordances {
	return Affordances{
		CanRequest:  e.Allows(c.Status) && !requested,
		CanWithdraw: requested,
		CanLearn:    c.Status.IsLearnable(),
		UnderReview: c.Status.IsUnderReview(),
	}
}
