package catalog

import "github.com/terra-clan/course-demand/internal/models"

// Threshold is the number of requests a course needs to be activated
const Threshold = 25

// ComputeProgress derives the display progress of a request count.
// It never feeds back into the course status.
func ComputeProgress(requestCount int) models.Progress {
	pct := float64(requestCount*100) / Threshold
	if pct > 100 {
		pct = 100
	}
	return models.Progress{
		RequestCount: requestCount,
		Threshold:    Threshold,
		Percentage:   pct,
		IsComplete:   requestCount >= Threshold,
	}
}
