package models

import "fmt"

// FormField names a field of the course-request form
type FormField string

const (
	FormCollege    FormField = "college"
	FormSemester   FormField = "semester"
	FormCourseName FormField = "courseName"
	FormDepartment FormField = "department"
)

// CourseRequestForm is a request for a course that is not in the catalog yet.
// Only presence of every field is checked; anything else belongs to the
// submission handler.
type CourseRequestForm struct {
	College    string `json:"college" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
	CourseName string `json:"courseName" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// Set updates one field by name
func (f *CourseRequestForm) Set(field FormField, value string) error {
	switch field {
	case FormCollege:
		f.College = value
	case FormSemester:
		f.Semester = value
	case FormCourseName:
		f.CourseName = value
	case FormDepartment:
		f.Department = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

// IsComplete returns true when every field is non-empty
func (f CourseRequestForm) IsComplete() bool {
	return f.College != "" && f.Semester != "" && f.CourseName != "" && f.Department != ""
}

// SemesterOptions are the semesters offered by the request form
func SemesterOptions() []int {
	return []int{1, 2}
}
