package storage

import (
	"context"

	"github.com/terra-clan/course-demand/internal/models"
)

// Repository is the read-only persistent source of seed courses
type Repository interface {
	// Courses
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	CountCourses(ctx context.Context) (int, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
