package events

import (
	"sync"
	"time"

	"github.com/alfagnish/userdir/internal/directory"
	"github.com/google/uuid"
)

// subscriberBuffer is how many events a subscriber may fall behind before
// new events are dropped for it.
const subscriberBuffer = 16

// Event describes one change to the directory.
type Event struct {
	ID   string               `json:"id"`
	Type directory.ChangeKind `json:"type"`
	User directory.Record     `json:"user"`
	At   time.Time            `json:"at"`
}

// Hub fans out directory changes to any number of subscribers. It
// implements directory.Observer. All methods are safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Changed wraps a directory change in an Event and publishes it.
func (h *Hub) Changed(kind directory.ChangeKind, u directory.Record) {
	h.Publish(Event{
		ID:   uuid.New().String(),
		Type: kind,
		User: u,
		At:   time.Now().UTC(),
	})
}

// Publish delivers e to every subscriber. A subscriber whose buffer is full
// misses the event; Publish never blocks.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	id := uuid.New().String()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
