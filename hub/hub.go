package hub

import (
	"sync"
	"sync/atomic"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventMenuUpdated         = "menu-updated"
	EventNewOrder            = "new-order"
	EventOrderStatusUpdated  = "order-status-updated"
	EventRiderUpdated        = "rider-updated"
	EventChefUpdated         = "chef-updated"
	EventNewTableBooking     = "new-table-booking"
	EventTableBookingUpdated = "table-booking-updated"
)

// Menu (and staff) update actions.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const DefaultBuffer = 32

// Message is one pushed event. Scope, when set, limits delivery to
// subscribers of that scope and to unscoped subscribers.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
	Scope string      `json:"-"`
}

type subscriber struct {
	scope string
	send  chan Message
}

func (s *subscriber) wants(msg Message) bool {
	return msg.Scope == "" || s.scope == "" || s.scope == msg.Scope
}

// Hub fans events out to every subscriber of one service. Broadcast never
// blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	name string

	mu   sync.RWMutex
	subs map[*subscriber]struct{}

	dropped atomic.Int64
}

func New(name string) *Hub {
	return &Hub{
		name: name,
		subs: make(map[*subscriber]struct{}),
	}
}

func (h *Hub) Name() string { return h.name }

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(scope string, buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &subscriber{scope: scope, send: make(chan Message, buffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			close(sub.send)
			h.mu.Unlock()
		})
	}
	return sub.send, cancel
}

// Count returns the number of attached subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped because of full buffers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Broadcast delivers msg to every interested subscriber and returns how
// many received it.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered, skipped := 0, 0
	for sub := range h.subs {
		if !sub.wants(msg) {
			continue
		}
		select {
		case sub.send <- msg:
			delivered++
		default:
			skipped++
		}
	}
	if skipped > 0 {
		h.dropped.Add(int64(skipped))
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"hub":       h.name,
		"event":     msg.Event,
		"delivered": delivered,
		"dropped":   skipped,
	}).Debug("broadcast")
	return delivered
}

// OrderScope is the subscription scope of a customer's order events.
func OrderScope(phone string) string {
	return models.NormalizePhone(phone)
}
