package catalog

import (
	"errors"

	"github.com/terra-clan/course-demand/internal/models"
)

// ErrCourseNotFound is returned when a course ID is not in the store
var ErrCourseNotFound = errors.New("course not found")

// Store holds the mutable list of courses of one workspace.
// It keeps insertion order; it is not safe for concurrent use.
type Store struct {
	courses []models.Course
	index   map[string]int
}

// NewStore creates a store holding a copy of courses
func NewStore(courses []models.Course) *Store {
	s := &Store{}
	s.Replace(courses)
	return s
}

// Replace swaps the whole catalog. A repeated ID overwrites the earlier
// record in place.
func (s *Store) Replace(courses []models.Course) {
	s.courses = make([]models.Course, 0, len(courses))
	s.index = make(map[string]int, len(courses))
	s.Patch(courses)
}

// Patch upserts courses: known IDs are replaced in place, new ones appended
func (s *Store) Patch(courses []models.Course) {
	for _, c := range courses {
		if i, ok := s.index[c.ID]; ok {
			s.courses[i] = c
			continue
		}
		s.index[c.ID] = len(s.courses)
		s.courses = append(s.courses, c)
	}
}

// Get returns a course by ID
func (s *Store) Get(id string) (models.Course, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Course{}, false
	}
	return s.courses[i], true
}

// Snapshot returns a copy of all courses in store order
func (s *Store) Snapshot() []models.Course {
	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Len returns the number of courses
func (s *Store) Len() int {
	return len(s.courses)
}

// Increment adds one demand signal to a course, saturating at
// models.MaxRequestCount
func (s *Store) Increment(id string) (models.Course, error) {
	i, ok := s.index[id]
	if !ok {
		return models.Course{}, ErrCourseNotFound
	}
	if s.courses[i].RequestCount < models.MaxRequestCount {
		s.courses[i].RequestCount++
	}
	return s.courses[i], nil
}

// Decrement removes one demand signal from a course, never going below zero
func (s *Store) Decrement(id string) (models.Course, error) {
	i, ok := s.index[id]
	if !ok {
		return models.Course{}, ErrCourseNotFound
	}
	if s.courses[i].RequestCount > 0 {
		s.courses[i].RequestCount--
	}
	return s.courses[i], nil
}

// Colleges returns the distinct college names in first-seen order
func (s *Store) Colleges() []string {
	return DistinctColleges(s.courses)
}

// DistinctColleges returns the distinct college names of courses in first-seen order
func DistinctColleges(courses []models.Course) []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range courses {
		if seen[c.College] {
			continue
		}
		seen[c.College] = true
		names = append(names, c.College)
	}
	return names
}
