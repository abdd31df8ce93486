package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/terra-clan/course-demand/internal/controller"
	"github.com/terra-clan/course-demand/internal/models"
	"github.com/terra-clan/course-demand/internal/notify"
	"github.com/terra-clan/course-demand/internal/seed"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T) (*MemoryManager, *fakeClock) {
	t.Helper()

	loader := seed.NewLoader()
	if err := loader.LoadDefault(); err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	m, err := NewManager(Options{
		Seed: loader,
		TTL:  time.Hour,
		Now:  clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, clock
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, CreateOptions{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(s.Token) != 48 {
		t.Errorf("expected 48-char token, got %d", len(s.Token))
	}
	if s.TTLSeconds != 3600 {
		t.Errorf("expected ttl 3600, got %d", s.TTLSeconds)
	}
	if s.IsAuthenticated() {
		t.Error("new session should be anonymous")
	}

	got, err := m.Get(ctx, s.Token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("expected id %s, got %s", s.ID, got.ID)
	}

	if _, err := m.Get(ctx, "unknown"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSlidingExpiry(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()

	s, _ := m.Create(ctx, CreateOptions{})

	clock.Advance(50 * time.Minute)
	if _, err := m.View(ctx, s.Token); err != nil {
		t.Fatalf("View failed: %v", err)
	}

	// Access slid the expiry to 50m + 1h
	clock.Advance(50 * time.Minute)
	got, err := m.Get(ctx, s.Token)
	if err != nil {
		t.Fatalf("session should still be alive: %v", err)
	}

	clock.Advance(2 * time.Hour)
	if _, err := m.Get(ctx, got.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	expired, err := m.GetExpired(ctx)
	if err != nil {
		t.Fatalf("GetExpired failed: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != s.ID {
		t.Errorf("expected the session to be reported as expired, got %v", expired)
	}
}

func TestExtendTTL(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, _ := m.Create(ctx, CreateOptions{})
	extended, err := m.ExtendTTL(ctx, s.Token, 30*time.Minute)
	if err != nil {
		t.Fatalf("ExtendTTL failed: %v", err)
	}
	if want := s.ExpiresAt.Add(30 * time.Minute); !extended.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %s, got %s", want, extended.ExpiresAt)
	}

	if _, err := m.ExtendTTL(ctx, s.Token, 0); err == nil {
		t.Error("expected error for a zero extension")
	}
}

func TestWorkspacesAreIndependent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a, _ := m.Create(ctx, CreateOptions{})
	b, _ := m.Create(ctx, CreateOptions{})

	if _, _, err := m.Dispatch(ctx, a.Token, controller.SignIn{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	out, view, err := m.Dispatch(ctx, a.Token, controller.RequestCourse{CourseID: "1"})
	if err != nil {
		t.Fatalf("RequestCourse failed: %v", err)
	}
	if len(out.Events) != 1 || len(view.RequestedCourseIDs) != 1 {
		t.Fatalf("unexpected outcome %+v / view ids %v", out.Events, view.RequestedCourseIDs)
	}

	viewB, err := m.View(ctx, b.Token)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	for _, college := range viewB.Colleges {
		for _, c := range college.Courses {
			if c.ID == "1" && c.RequestCount != 18 {
				t.Errorf("workspace b should be unaffected, got %d", c.RequestCount)
			}
		}
	}

	got, _ := m.Get(ctx, a.Token)
	if !got.IsAuthenticated() || got.Requested != 1 {
		t.Errorf("expected authenticated session with 1 request, got %+v", got)
	}

	authenticated := true
	list, err := m.List(ctx, models.SessionFilters{Authenticated: &authenticated})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("expected only session a, got %v", list)
	}
}

func TestShareAndSuggest(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, _ := m.Create(ctx, CreateOptions{})

	msg, progress, err := m.Share(ctx, s.Token, "4")
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}
	if msg == "" || progress.RequestCount != 22 || progress.Percentage != 88 {
		t.Errorf("unexpected share result: %q %+v", msg, progress)
	}

	suggestions, err := m.Suggest(ctx, s.Token, "univ")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(suggestions) != 3 {
		t.Errorf("expected 3 universities, got %v", suggestions)
	}
}

func TestDeleteAndList(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := m.Create(ctx, CreateOptions{}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	page, err := m.List(ctx, models.SessionFilters{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(page))
	}

	if err := m.Delete(ctx, page[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 remaining sessions, got %d", m.Count())
	}
	if _, err := m.Get(ctx, page[0].Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := m.Delete(ctx, page[0].ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestDeleteEndsEventStreams(t *testing.T) {
	loader := seed.NewLoader()
	if err := loader.LoadDefault(); err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	hub := notify.NewHub()
	m, err := NewManager(Options{Seed: loader, Notifier: hub})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	ctx := context.Background()

	deleted, _ := m.Create(ctx, CreateOptions{})
	closed, _ := m.Create(ctx, CreateOptions{})

	deletedEvents, cancel := hub.Subscribe(deleted.ID)
	defer cancel()
	closedEvents, cancelClosed := hub.Subscribe(closed.ID)
	defer cancelClosed()

	if err := m.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, open := <-deletedEvents; open {
		t.Error("stream of deleted session should be closed")
	}
	if hub.Subscribers(closed.ID) != 1 {
		t.Error("delete closed another session's stream")
	}

	m.Close()
	if _, open := <-closedEvents; open {
		t.Error("stream should be closed when the manager closes")
	}
}
