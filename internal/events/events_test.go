package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TopicBookings, func(event Event) {
		got = append(got, event)
	})

	bus.PublishChange(TopicBookings, ActionInsert, "BRK123456")

	require.Len(t, got, 1)
	assert.Equal(t, TopicBookings, got[0].Topic)
	assert.Equal(t, ActionInsert, got[0].Action)
	assert.Equal(t, "BRK123456", got[0].RowID)
	assert.False(t, got[0].At.IsZero())
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(TopicGallery, func(Event) { calls++ })

	bus.PublishChange(TopicBookings, ActionInsert, "BRK123456")
	assert.Zero(t, calls)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	calls := 0
	id := bus.Subscribe(TopicBrands, func(Event) { calls++ })

	bus.PublishChange(TopicBrands, ActionUpdate, "1")
	bus.Unsubscribe(TopicBrands, id)
	bus.PublishChange(TopicBrands, ActionUpdate, "1")

	assert.Equal(t, 1, calls)
}

func TestMultipleSubscribersSameTopic(t *testing.T) {
	bus := NewBus()

	first, second := 0, 0
	bus.Subscribe(TopicTechnicians, func(Event) { first++ })
	bus.Subscribe(TopicTechnicians, func(Event) { second++ })

	bus.PublishChange(TopicTechnicians, ActionDelete, "3")

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
