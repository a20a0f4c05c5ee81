package assist

import (
	"sync"

	"github.com/google/uuid"

	"social-support/internal/form"
)

// Tracker remembers the most recent request per field so a response that
// arrives after a newer request was started can be discarded.
type Tracker struct {
	mu     sync.Mutex
	latest map[form.NarrativeField]string
}

func NewTracker() *Tracker {
	return &Tracker{latest: make(map[form.NarrativeField]string)}
}

// Begin registers a new request for field and returns its id.
func (t *Tracker) Begin(field form.NarrativeField) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.latest[field] = id
	t.mu.Unlock()
	return id
}

// Current reports whether id is still the latest request for field.
func (t *Tracker) Current(field form.NarrativeField, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[field] == id
}

// Finish forgets id if it is still the latest request for field.
func (t *Tracker) Finish(field form.NarrativeField, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest[field] == id {
		delete(t.latest, field)
	}
}
