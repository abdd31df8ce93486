package models

import "fmt"

// SortKey selects the college ordering
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByRequests SortKey = "requests"
)

// IsValid reports whether k is a known sort key
func (k SortKey) IsValid() bool {
	return k == SortByName || k == SortByRequests
}

// SortOrder is the sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether o is a known direction
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Reverse returns the opposite direction
func (o SortOrder) Reverse() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortSpec is the (key, direction) pair applied to college groups
type SortSpec struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

// DefaultSort orders colleges by name, ascending
func DefaultSort() SortSpec {
	return SortSpec{Key: SortByName, Order: SortAsc}
}

// Validate checks both key and order
func (s SortSpec) Validate() error {
	if !s.Key.IsValid() {
		return fmt.Errorf("invalid sort key %q", s.Key)
	}
	if !s.Order.IsValid() {
		return fmt.Errorf("invalid sort order %q", s.Order)
	}
	return nil
}

// FilterColumn names one of the per-college column filters
type FilterColumn string

const (
	ColumnDepartment FilterColumn = "department"
	ColumnSemester   FilterColumn = "semester"
	ColumnCourseName FilterColumn = "courseName"
)

// IsValid reports whether c is a known column
func (c FilterColumn) IsValid() bool {
	switch c {
	case ColumnDepartment, ColumnSemester, ColumnCourseName:
		return true
	}
	return false
}

// ColumnFilters holds the three column filter texts of one college section.
// Empty strings match everything.
type ColumnFilters struct {
	Department string `json:"department"`
	Semester   string `json:"semester"`
	CourseName string `json:"courseName"`
}

// Get returns the filter text for a column
func (f ColumnFilters) Get(col FilterColumn) string {
	switch col {
	case ColumnDepartment:
		return f.Department
	case ColumnSemester:
		return f.Semester
	case ColumnCourseName:
		return f.CourseName
	}
	return ""
}

// With returns a copy of f with one column replaced
func (f ColumnFilters) With(col FilterColumn, value string) ColumnFilters {
	switch col {
	case ColumnDepartment:
		f.Department = value
	case ColumnSemester:
		f.Semester = value
	case ColumnCourseName:
		f.CourseName = value
	}
	return f
}

// IsEmpty returns true if no column filter is set
func (f ColumnFilters) IsEmpty() bool {
	return f.Department == "" && f.Semester == "" && f.CourseName == ""
}
