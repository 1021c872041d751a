package state

import (
	"log/slog"
	"sync"
)

// Event is a mutation notification views react to by reloading
type Event int

const (
	EventMediaSaved Event = iota + 1
	EventMediaDeleted
	EventCategoriesChanged
	EventTagsChanged
)

func (e Event) String() string {
	switch e {
	case EventMediaSaved:
		return "media-saved"
	case EventMediaDeleted:
		return "media-deleted"
	case EventCategoriesChanged:
		return "categories-changed"
	case EventTagsChanged:
		return "tags-changed"
	default:
		return "unknown"
	}
}

// Publisher is the sending half of the bus, handed to components that mutate data
type Publisher interface {
	Publish(e Event)
}

// Bus fans events out to subscriber channels in publish order
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel receiving every event published after the call,
// and a function that unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers e to every subscriber without blocking.
// A subscriber whose buffer is full misses the event.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("Dropping event for slow subscriber", "event", e.String(), "subscriber", id)
		}
	}
}
