package controller

import (
	"github.com/terra-clan/course-demand/internal/catalog"
	"github.com/terra-clan/course-demand/internal/models"
)

// ActiveColumn marks the column filter input currently being edited
type ActiveColumn struct {
	College string              `json:"college"`
	Column  models.FilterColumn `json:"column"`
}

// State is the whole application state of one workspace.
// Only the controller mutates it; views are derived from it on demand.
type State struct {
	Store   *catalog.Store
	Tracker *catalog.Tracker

	Identity *models.Identity

	GlobalFilter  string
	Sort          models.SortSpec
	ColumnFilters map[string]models.ColumnFilters // keyed by college name
	ActiveColumn  *ActiveColumn
	Expanded      map[string]bool

	Form               models.CourseRequestForm
	Suggestions        []string
	SuggestionsVisible bool
}

// NewState creates a state over a private copy of courses
func NewState(courses []models.Course) *State {
	return &State{
		Store:         catalog.NewStore(courses),
		Tracker:       catalog.NewTracker(),
		Sort:          models.DefaultSort(),
		ColumnFilters: make(map[string]models.ColumnFilters),
		Expanded:      make(map[string]bool),
	}
}
