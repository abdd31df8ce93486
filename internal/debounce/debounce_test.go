package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleFiresOnce(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32

	d.Schedule(func() { calls.Add(1) })
	if !d.Pending() {
		t.Fatal("expected pending action")
	}

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if d.Pending() {
		t.Error("action should no longer be pending")
	}
}

func TestScheduleSupersedes(t *testing.T) {
	d := New(20 * time.Millisecond)
	var first, second atomic.Int32

	d.Schedule(func() { first.Add(1) })
	d.Schedule(func() { second.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if first.Load() != 0 {
		t.Error("superseded action must not run")
	}
	if second.Load() != 1 {
		t.Errorf("expected latest action to run once, got %d", second.Load())
	}
}

func TestCancel(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32

	d.Schedule(func() { calls.Add(1) })
	if !d.Cancel() {
		t.Error("Cancel should report a pending action")
	}
	if d.Cancel() {
		t.Error("second Cancel should report nothing pending")
	}

	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("cancelled action ran")
	}
}
