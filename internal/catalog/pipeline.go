package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/terra-clan/course-demand/internal/models"
)

// CollationLocale is the locale used to compare college names
var CollationLocale = language.English

// GroupColleges turns a flat course list into sorted college groups.
//
// Courses whose college does not contain filter (case-insensitive) are dropped,
// the rest are partitioned by exact college name keeping first-seen order,
// totals are summed and groups are stably sorted by spec. The result depends
// only on the arguments.
func GroupColleges(courses []models.Course, filter string, spec models.SortSpec) []models.College {
	needle := strings.ToLower(filter)

	var groups []models.College
	index := make(map[string]int)

	for _, c := range courses {
		if !strings.Contains(strings.ToLower(c.College), needle) {
			continue
		}
		i, ok := index[c.College]
		if !ok {
			i = len(groups)
			index[c.College] = i
			groups = append(groups, models.College{Name: c.College})
		}
		groups[i].Courses = append(groups[i].Courses, c)
		groups[i].TotalRequests += c.RequestCount
	}

	SortColleges(groups, spec)
	return groups
}

// SortColleges stably orders groups in place.
// An unknown key leaves the grouping order untouched.
func SortColleges(groups []models.College, spec models.SortSpec) {
	var cmp func(a, b models.College) int

	switch spec.Key {
	case models.SortByName:
		col := collate.New(CollationLocale)
		cmp = func(a, b models.College) int {
			return col.CompareString(a.Name, b.Name)
		}
	case models.SortByRequests:
		cmp = func(a, b models.College) int {
			return a.TotalRequests - b.TotalRequests
		}
	default:
		return
	}

	desc := spec.Order == models.SortDesc
	sort.SliceStable(groups, func(i, j int) bool {
		if desc {
			return cmp(groups[i], groups[j]) > 0
		}
		return cmp(groups[i], groups[j]) < 0
	})
}

// FilterCourses applies one college's column filters.
// Department and course name match case-insensitively; semester matches on
// its decimal representation. All conditions must hold.
func FilterCourses(courses []models.Course, f models.ColumnFilters) []models.Course {
	dept := strings.ToLower(f.Department)
	name := strings.ToLower(f.CourseName)

	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if !strings.Contains(strings.ToLower(c.Department), dept) {
			continue
		}
		if !strings.Contains(strconv.Itoa(c.Semester), f.Semester) {
			continue
		}
		if !strings.Contains(strings.ToLower(c.Course), name) {
			continue
		}
		out = append(out, c)
	}
	return out
}
