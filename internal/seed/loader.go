package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/course-demand/internal/models"
)

// ErrInvalidCourse is returned when a seed course breaks a catalog invariant
var ErrInvalidCourse = errors.New("invalid course")

//go:embed default/*.yaml
var defaultFS embed.FS

// Source is a persistent origin of seed courses (e.g. the Postgres repository)
type Source interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// Loader holds the seed catalog new session workspaces start from
type Loader struct {
	mu      sync.RWMutex
	courses []models.Course
}

// NewLoader creates an empty loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDefault loads the catalog compiled into the binary
func (l *Loader) LoadDefault() error {
	return l.LoadFromFS(defaultFS, "default")
}

// LoadFromDir loads every college YAML file of a directory
func (l *Loader) LoadFromDir(dir string) error {
	slog.Info("loading seed catalog from directory", "dir", dir)
	return l.LoadFromFS(os.DirFS(dir), ".")
}

// LoadFromFS loads every *.yaml / *.yml file under dir in fsys, in file
// name order. Unparseable files are skipped with a warning; the merged
// catalog must still be valid.
func (l *Loader) LoadFromFS(fsys fs.FS, dir string) error {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, path.Join(dir, pattern))
		if err != nil {
			return fmt.Errorf("failed to list seed files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var courses []models.Course
	loaded := 0
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			slog.Warn("failed to read seed file", "file", file, "error", err)
			continue
		}

		parsed, err := ParseCollegeFile(data)
		if err != nil {
			slog.Warn("failed to load seed file", "file", file, "error", err)
			continue
		}
		courses = append(courses, parsed...)
		loaded++
	}

	if loaded == 0 {
		return fmt.Errorf("no seed files loaded from %s", dir)
	}

	if err := l.Replace(courses); err != nil {
		return err
	}

	slog.Info("seed catalog loaded", "files", loaded, "total_files", len(files), "courses", len(courses))
	return nil
}

// LoadFromFile adds the courses of one college file to the catalog
func (l *Loader) LoadFromFile(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	courses, err := ParseCollegeFile(data)
	if err != nil {
		return err
	}
	return l.Patch(courses)
}

// LoadFromRepository replaces the catalog with the courses of src
func (l *Loader) LoadFromRepository(ctx context.Context, src Source) error {
	courses, err := src.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}
	if len(courses) == 0 {
		return fmt.Errorf("repository holds no courses")
	}

	if err := l.Replace(courses); err != nil {
		return err
	}

	slog.Info("seed catalog loaded from repository", "courses", len(courses))
	return nil
}

// Courses returns a copy of the seed catalog
func (l *Loader) Courses() []models.Course {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Course, len(l.courses))
	copy(out, l.courses)
	return out
}

// Len returns the number of seed courses
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.courses)
}

// Replace swaps the whole seed catalog
func (l *Loader) Replace(courses []models.Course) error {
	if err := Validate(courses); err != nil {
		return err
	}

	next := make([]models.Course, len(courses))
	copy(next, courses)

	l.mu.Lock()
	l.courses = next
	l.mu.Unlock()
	return nil
}

// Patch upserts courses: known IDs are replaced in place, new ones appended
func (l *Loader) Patch(courses []models.Course) error {
	if err := Validate(courses); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	index := make(map[string]int, len(l.courses))
	for i, c := range l.courses {
		index[c.ID] = i
	}

	next := make([]models.Course, len(l.courses), len(l.courses)+len(courses))
	copy(next, l.courses)
	for _, c := range courses {
		if i, ok := index[c.ID]; ok {
			next[i] = c
			continue
		}
		index[c.ID] = len(next)
		next = append(next, c)
	}

	l.courses = next
	return nil
}

// Validate checks every course and the uniqueness of IDs
func Validate(courses []models.Course) error {
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCourse, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate course id %s", ErrInvalidCourse, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// ParseCollegeFile parses the YAML description of one college
func ParseCollegeFile(data []byte) ([]models.Course, error) {
	var cf collegeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	college := strings.TrimSpace(cf.College)
	if college == "" {
		return nil, fmt.Errorf("college name is required")
	}

	courses := make([]models.Course, 0, len(cf.Courses))
	for _, cc := range cf.Courses {
		status := models.CourseStatus(cc.Status)
		if status == "" {
			status = models.CourseInactive
		}
		courses = append(courses, models.Course{
			ID:           cc.ID,
			College:      college,
			Semester:     cc.Semester,
			Course:       cc.Course,
			Department:   cc.Department,
			RequestCount: cc.RequestCount,
			Status:       status,
		})
	}

	if err := Validate(courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// --- YAML file structs ---

// collegeFile represents the YAML structure of a college seed file
type collegeFile struct {
	College string       `yaml:"college"`
	Courses []courseFile `yaml:"courses"`
}

type courseFile struct {
	ID           string `yaml:"id"`
	Semester     int    `yaml:"semester"`
	Course       string `yaml:"course"`
	Department   string `yaml:"department"`
	RequestCount int    `yaml:"request_count"`
	Status       string `yaml:"status"`
}
