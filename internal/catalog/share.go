package catalog

import (
	"fmt"
	"strings"

	"github.com/terra-clan/course-demand/internal/models"
)

// ShareMessage builds the text a user can share to gather requests for a course
func ShareMessage(c models.Course) string {
	return fmt.Sprintf(
		"Help bring %q to %s! %d/%d students have already requested it. Add your request so it gets offered.",
		c.Course, c.College, c.RequestCount, Threshold,
	)
}

// MaxSuggestions caps the college autocomplete list
const MaxSuggestions = 8

// SuggestColleges returns the colleges containing query (case-insensitive),
// in the given order. An empty query yields no suggestions.
func SuggestColleges(colleges []string, query string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	if limit <= 0 {
		limit = MaxSuggestions
	}

	var out []string
	for _, name := range colleges {
		if strings.Contains(strings.ToLower(name), needle) {
			out = append(out, name)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
