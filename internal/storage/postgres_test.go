package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestListMigrations(t *testing.T) {
	migrations, err := listMigrations(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("listMigrations failed: %v", err)
	}

	want := []string{"001_courses.sql", "002_seed_courses.sql"}
	if len(migrations) != len(want) {
		t.Fatalf("expected %v, got %v", want, migrations)
	}
	for i := range want {
		if migrations[i] != want[i] {
			t.Errorf("migration %d: expected %s, got %s", i, want[i], migrations[i])
		}
	}
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := NewPostgresRepository(ctx, PostgresConfig{DSN: dsn, MaxConns: 2})
	if err != nil {
		t.Fatalf("NewPostgresRepository failed: %v", err)
	}
	defer repo.Close()

	if err := RunMigrations(ctx, repo.Pool()); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	// Applying twice is a no-op
	if err := RunMigrations(ctx, repo.Pool()); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}

	courses, err := repo.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) < 15 {
		t.Fatalf("expected at least 15 seeded courses, got %d", len(courses))
	}
	for _, c := range courses {
		if err := c.Validate(); err != nil {
			t.Errorf("stored course is invalid: %v", err)
		}
	}

	n, err := repo.CountCourses(ctx)
	if err != nil {
		t.Fatalf("CountCourses failed: %v", err)
	}
	if n != len(courses) {
		t.Errorf("expected count %d, got %d", len(courses), n)
	}

	c, err := repo.GetCourse(ctx, "4")
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if c == nil || c.Course != "Calculus I" {
		t.Errorf("unexpected course: %+v", c)
	}

	missing, err := repo.GetCourse(ctx, "does-not-exist")
	if err != nil || missing != nil {
		t.Errorf("expected nil course without error, got %+v, %v", missing, err)
	}
}
