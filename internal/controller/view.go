package controller

import (
	"fmt"
	"sort"

	"github.com/terra-clan/course-demand/internal/catalog"
	"github.com/terra-clan/course-demand/internal/models"
)

// CourseView is one course row as presented to the user
type CourseView struct {
	models.Course
	Progress  models.Progress     `json:"progress"`
	Requested bool                `json:"requested"`
	Actions   catalog.Affordances `json:"actions"`
}

// CollegeView is one college section. TotalRequests covers every course of
// the college; Courses only those passing the section's column filters.
type CollegeView struct {
	Name          string               `json:"name"`
	TotalRequests int                  `json:"totalRequests"`
	CourseCount   int                  `json:"courseCount"`
	Expanded      bool                 `json:"expanded"`
	Filters       models.ColumnFilters `json:"filters"`
	Courses       []CourseView         `json:"courses"`
}

// FormView is the course-request form as presented to the user
type FormView struct {
	Draft              models.CourseRequestForm `json:"draft"`
	CanSubmit          bool                     `json:"canSubmit"`
	Suggestions        []string                 `json:"suggestions"`
	SuggestionsVisible bool                     `json:"suggestionsVisible"`
	CollegeOptions     []string                 `json:"collegeOptions"`
	SemesterOptions    []int                    `json:"semesterOptions"`
}

// View is the derived, read-only projection of a workspace
type View struct {
	Authenticated      bool             `json:"authenticated"`
	Identity           *models.Identity `json:"identity,omitempty"`
	Filter             string           `json:"filter"`
	Sort               models.SortSpec  `json:"sort"`
	Colleges           []CollegeView    `json:"colleges"`
	RequestedCourseIDs []string         `json:"requestedCourseIds"`
	ActiveColumn       *ActiveColumn    `json:"activeColumn,omitempty"`
	Form               FormView         `json:"form"`
	Threshold          int              `json:"threshold"`
}

// BuildView derives the view of a state. It does not mutate the state.
func BuildView(s *State, eligibility catalog.Eligibility) View {
	courses := s.Store.Snapshot()
	groups := catalog.GroupColleges(courses, s.GlobalFilter, s.Sort)

	colleges := make([]CollegeView, 0, len(groups))
	for _, g := range groups {
		filters := s.ColumnFilters[g.Name]
		visible := catalog.FilterCourses(g.Courses, filters)

		rows := make([]CourseView, 0, len(visible))
		for _, c := range visible {
			requested := s.Tracker.Has(c.ID)
			rows = append(rows, CourseView{
				Course:    c,
				Progress:  catalog.ComputeProgress(c.RequestCount),
				Requested: requested,
				Actions:   eligibility.Affordances(c, requested),
			})
		}

		colleges = append(colleges, CollegeView{
			Name:          g.Name,
			TotalRequests: g.TotalRequests,
			CourseCount:   len(g.Courses),
			Expanded:      s.Expanded[g.Name],
			Filters:       filters,
			Courses:       rows,
		})
	}

	collegeOptions := catalog.DistinctColleges(courses)
	sort.Strings(collegeOptions)

	v := View{
		Authenticated:      s.Identity != nil,
		Filter:             s.GlobalFilter,
		Sort:               s.Sort,
		Colleges:           colleges,
		RequestedCourseIDs: s.Tracker.IDs(),
		Threshold:          catalog.Threshold,
		Form: FormView{
			Draft:              s.Form,
			CanSubmit:          s.Form.IsComplete(),
			Suggestions:        append([]string{}, s.Suggestions...),
			SuggestionsVisible: s.SuggestionsVisible,
			CollegeOptions:     collegeOptions,
			SemesterOptions:    models.SemesterOptions(),
		},
	}
	if s.Identity != nil {
		id := *s.Identity
		v.Identity = &id
	}
	if s.ActiveColumn != nil {
		ac := *s.ActiveColumn
		v.ActiveColumn = &ac
	}
	return v
}

// View returns the current projection of the workspace
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildView(c.state, c.eligibility)
}

// Share returns the share message for a course
func (c *Controller) Share(id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	course, ok := c.state.Store.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", catalog.ErrCourseNotFound, id)
	}
	return catalog.ShareMessage(course), nil
}

// Courses returns a snapshot of the workspace catalog
func (c *Controller) Courses() []models.Course {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Store.Snapshot()
}
