package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terra-clan/course-demand/internal/models"
)

type fakeStore struct {
	expired    []*models.Session
	expiredErr error
	failOn     string
	deleted    []string
}

func (f *fakeStore) GetExpired(ctx context.Context) ([]*models.Session, error) {
	return f.expired, f.expiredErr
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if id == f.failOn {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestSweep(t *testing.T) {
	store := &fakeStore{
		expired: []*models.Session{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		failOn:  "b",
	}
	c := NewCleaner(store, time.Minute)

	if n := c.Sweep(context.Background()); n != 2 {
		t.Errorf("expected 2 removed sessions, got %d", n)
	}
	if len(store.deleted) != 2 || store.deleted[0] != "a" || store.deleted[1] != "c" {
		t.Errorf("unexpected deletions: %v", store.deleted)
	}
}

func TestSweepListError(t *testing.T) {
	store := &fakeStore{expiredErr: errors.New("boom")}
	if n := NewCleaner(store, 0).Sweep(context.Background()); n != 0 {
		t.Errorf("expected no removals, got %d", n)
	}
}

func TestDefaultInterval(t *testing.T) {
	c := NewCleaner(&fakeStore{}, 0)
	if c.interval != 5*time.Minute {
		t.Errorf("expected default interval 5m, got %s", c.interval)
	}
}
