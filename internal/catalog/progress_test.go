package catalog

import (
	"strings"
	"testing"

	"github.com/terra-clan/course-demand/internal/models"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		count    int
		pct      float64
		complete bool
	}{
		{0, 0, false},
		{5, 20, false},
		{24, 96, false},
		{25, 100, true},
		{30, 100, true},
	}

	for _, tt := range tests {
		p := ComputeProgress(tt.count)
		if p.Percentage != tt.pct || p.IsComplete != tt.complete {
			t.Errorf("ComputeProgress(%d) = %+v, want pct %v complete %v", tt.count, p, tt.pct, tt.complete)
		}
		if p.Threshold != Threshold {
			t.Errorf("threshold = %d", p.Threshold)
		}
	}
}

func TestShareMessage(t *testing.T) {
	msg := ShareMessage(models.Course{Course: "Calculus I", College: "MIT", RequestCount: 22})
	for _, part := range []string{`"Calculus I"`, "MIT", "22/25"} {
		if !strings.Contains(msg, part) {
			t.Errorf("share message %q missing %q", msg, part)
		}
	}
}

func TestSuggestColleges(t *testing.T) {
	colleges := []string{"Stanford University", "MIT", "Harvard University", "UC Berkeley", "Princeton University"}

	if got := SuggestColleges(colleges, "", 0); got != nil {
		t.Errorf("empty query should yield nothing, got %v", got)
	}
	if got := SuggestColleges(colleges, "UNIV", 0); len(got) != 3 || got[0] != "Stanford University" {
		t.Errorf("unexpected suggestions: %v", got)
	}
	if got := SuggestColleges(colleges, "univ", 2); len(got) != 2 {
		t.Errorf("limit ignored: %v", got)
	}
}

func TestEligibility(t *testing.T) {
	e, err := ParseEligibility(" inactive , progress")
	if err != nil {
		t.Fatalf("ParseEligibility failed: %v", err)
	}
	if !e.Allows(models.CourseInactive) || !e.Allows(models.CourseProgress) || e.Allows(models.CourseActive) {
		t.Errorf("unexpected eligibility %s", e)
	}
	if e.String() != "progress,inactive" {
		t.Errorf("String() = %s", e.String())
	}

	if _, err := ParseEligibility("closed"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseEligibility(" , "); err == nil {
		t.Error("expected error for empty list")
	}

	active := models.Course{Status: models.CourseActive}
	a := InactiveOnly().Affordances(active, false)
	if a.CanRequest || a.CanWithdraw || !a.CanLearn {
		t.Errorf("unexpected affordances for active course: %+v", a)
	}
	a = AllStatuses().Affordances(active, false)
	if !a.CanRequest || !a.CanLearn {
		t.Errorf("all-status policy should allow requesting active course: %+v", a)
	}
	a = AllStatuses().Affordances(active, true)
	if a.CanRequest || !a.CanWithdraw {
		t.Errorf("requested course should only be withdrawable: %+v", a)
	}
}
