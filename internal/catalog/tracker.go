package catalog

import "sort"

// Tracker is the set of course IDs the current session has requested.
// It is independent from the global request counters.
type Tracker struct {
	ids map[string]struct{}
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{ids: make(map[string]struct{})}
}

// Has reports whether id is tracked
func (t *Tracker) Has(id string) bool {
	_, ok := t.ids[id]
	return ok
}

// Add tracks id; returns false if it was already tracked
func (t *Tracker) Add(id string) bool {
	if t.Has(id) {
		return false
	}
	t.ids[id] = struct{}{}
	return true
}

// Remove untracks id; returns false if it was not tracked
func (t *Tracker) Remove(id string) bool {
	if !t.Has(id) {
		return false
	}
	delete(t.ids, id)
	return true
}

// Clear untracks everything
func (t *Tracker) Clear() {
	t.ids = make(map[string]struct{})
}

// Len returns the number of tracked IDs
func (t *Tracker) Len() int {
	return len(t.ids)
}

// IDs returns the tracked IDs, sorted
func (t *Tracker) IDs() []string {
	out := make([]string, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
