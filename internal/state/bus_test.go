package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe(8)
	defer unsubscribe()

	bus.Publish(EventMediaSaved)
	bus.Publish(EventCategoriesChanged)
	bus.Publish(EventMediaDeleted)

	assert.Equal(t, EventMediaSaved, <-ch)
	assert.Equal(t, EventCategoriesChanged, <-ch)
	assert.Equal(t, EventMediaDeleted, <-ch)
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a, unsubA := bus.Subscribe(1)
	b, unsubB := bus.Subscribe(1)
	defer unsubA()
	defer unsubB()

	bus.Publish(EventTagsChanged)

	assert.Equal(t, EventTagsChanged, <-a)
	assert.Equal(t, EventTagsChanged, <-b)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe(1)
	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	require.NotPanics(t, func() { bus.Publish(EventMediaSaved) })
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe(1)
	defer unsubscribe()

	bus.Publish(EventMediaSaved)
	bus.Publish(EventMediaDeleted)

	assert.Equal(t, EventMediaSaved, <-ch)
	select {
	case e := <-ch:
		t.Fatalf("expected dropped event, got %s", e)
	default:
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event    Event
		expected string
	}{
		{EventMediaSaved, "media-saved"},
		{EventMediaDeleted, "media-deleted"},
		{EventCategoriesChanged, "categories-changed"},
		{EventTagsChanged, "tags-changed"},
		{Event(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.String())
		})
	}
}
