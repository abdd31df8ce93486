package catalog

import "github.com/terra-clan/course-demand/internal/models"

func sampleCourses() []models.Course {
	return []models.Course{
		{ID: "1", College: "Stanford University", Semester: 1, Course: "Introduction to AI", Department: "Computer Science", RequestCount: 18, Status: models.CourseInactive},
		{ID: "2", College: "Stanford University", Semester: 2, Course: "Machine Learning", Department: "Computer Science", RequestCount: 25, Status: models.CourseActive},
		{ID: "3", College: "Stanford University", Semester: 1, Course: "Data Structures", Department: "Computer Science", RequestCount: 12, Status: models.CourseProgress},
		{ID: "4", College: "MIT", Semester: 1, Course: "Calculus I", Department: "Mathematics", RequestCount: 22, Status: models.CourseInactive},
		{ID: "5", College: "MIT", Semester: 2, Course: "Physics I", Department: "Physics", RequestCount: 15, Status: models.CourseActive},
		{ID: "6", College: "MIT", Semester: 1, Course: "Chemistry Basics", Department: "Chemistry", RequestCount: 8, Status: models.CourseInactive},
		{ID: "7", College: "Harvard University", Semester: 1, Course: "Psychology 101", Department: "Psychology", RequestCount: 30, Status: models.CourseActive},
		{ID: "8", College: "Harvard University", Semester: 2, Course: "Business Ethics", Department: "Business", RequestCount: 14, Status: models.CourseProgress},
		{ID: "9", College: "Harvard University", Semester: 1, Course: "Philosophy of Mind", Department: "Philosophy", RequestCount: 7, Status: models.CourseInactive},
	}
}
