package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topics are the store tables whose changes are broadcast. Subscribers get
// an opaque change event and are expected to refetch the affected
// collection rather than patch local state.
const (
	TopicCustomers       = "customers"
	TopicBrands          = "printer_brands"
	TopicModels          = "printer_models"
	TopicCategories      = "problem_categories"
	TopicProblems        = "problems"
	TopicTechnicians     = "technicians"
	TopicBookings        = "service_bookings"
	TopicBookingTimeline = "booking_timeline"
	TopicGallery         = "gallery_images"
)

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Topics lists every broadcast table, in a stable order.
var Topics = []string{
	TopicCustomers,
	TopicBrands,
	TopicModels,
	TopicCategories,
	TopicProblems,
	TopicTechnicians,
	TopicBookings,
	TopicBookingTimeline,
	TopicGallery,
}

// Event describes one table change. RowID is the changed row's identifier
// as a string (booking codes are already strings, numeric ids are
// formatted); consumers treat the whole event as opaque.
type Event struct {
	Topic  string    `json:"table"`
	Action string    `json:"action"`
	RowID  string    `json:"row_id,omitempty"`
	At     time.Time `json:"at"`
}

// Handler reacts to an event. Handlers run synchronously on the publishing
// goroutine and must not block.
type Handler func(event Event)

// Bus provides in-process pub/sub over table-change topics. Subscriptions
// are handle-based: every subscriber must Unsubscribe on teardown or the
// handler leaks.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]map[string]Handler)}
}

// Subscribe registers a handler for a topic and returns its subscription id.
func (b *Bus) Subscribe(topic string, handler Handler) string {
	id := uuid.NewString()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[string]Handler)
	}
	b.subscribers[topic][id] = handler
	return id
}

// Unsubscribe removes a subscription. Unknown ids are a no-op.
func (b *Bus) Unsubscribe(topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers[topic], id)
}

// Publish notifies all subscribers of the event's topic.
func (b *Bus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers[event.Topic]))
	for _, h := range b.subscribers[event.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// PublishChange is the convenience form services use after a mutation.
func (b *Bus) PublishChange(topic, action, rowID string) {
	if b == nil {
		return
	}
	b.Publish(Event{Topic: topic, Action: action, RowID: rowID, At: time.Now()})
}
