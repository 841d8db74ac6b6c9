package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"

	"order-tracker/internal/pkg/errs"
)

const (
	EventConnected      = "connected"
	EventPing           = "ping"
	EventHeartbeat      = "heartbeat"
	EventCreated        = "created"
	EventUpdated        = "updated"
	EventDeleted        = "deleted"
	EventStatusChange   = "status_change"
	EventTrackingUpdate = "tracking_update"
	EventError          = "error"
)

var ErrHubClosed = errs.New("broadcast hub is closed")

// Message is one serialized event. Key carries the order id for
// order-scoped filtering; it is empty for events without one.
type Message struct {
	Event string
	Data  []byte
	Key   string
}

type Subscriber interface {
	Send(msg Message) error
}

// Keyed payloads expose the order id they concern.
type Keyed interface {
	EventKey() string
}

type Observer interface {
	SubscribersChanged(n int)
	EventPublished(event string, delivered int)
	SubscriberDropped()
}

// Hub is the process-wide registry of open push streams. Delivery is
// best-effort and at-most-once; nothing is replayed to late subscribers.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]Subscriber
	closed bool
	done   chan struct{}

	obs    Observer
	logger *slog.Logger
}

func NewHub(logger *slog.Logger, obs Observer) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[uint64]Subscriber),
		done:   make(chan struct{}),
		obs:    obs,
		logger: logger,
	}
}

// Subscribe registers s and immediately sends it a connected acknowledgement.
// A subscriber that cannot take the acknowledgement is not registered.
func (h *Hub) Subscribe(s Subscriber) (uint64, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0, ErrHubClosed
	}
	h.nextID++
	id := h.nextID
	h.subs[id] = s
	n := len(h.subs)
	h.mu.Unlock()
	h.observeCount(n)

	ack, _ := json.Marshal(map[string]any{"subscriptionId": id})
	if err := safeSend(s, Message{Event: EventConnected, Data: ack}); err != nil {
		h.Unsubscribe(id)
		return 0, errs.Wrap(err, "connected acknowledgement")
	}
	return id, nil
}

// Unsubscribe is a no-op for handles that are already gone.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	if _, ok := h.subs[id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, id)
	n := len(h.subs)
	h.mu.Unlock()
	h.observeCount(n)
}

// Publish serializes payload once and writes it to a snapshot of the current
// subscribers. A failing subscriber is dropped; the others still receive the
// event. It returns the number of successful deliveries.
func (h *Hub) Publish(event string, payload any) int {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast payload", "event", event, "error", err.Error())
		return 0
	}
	msg := Message{Event: event, Data: data}
	if k, ok := payload.(Keyed); ok {
		msg.Key = k.EventKey()
	}

	type entry struct {
		id  uint64
		sub Subscriber
	}
	h.mu.Lock()
	snapshot := make([]entry, 0, len(h.subs))
	for id, s := range h.subs {
		snapshot = append(snapshot, entry{id: id, sub: s})
	}
	h.mu.Unlock()

	delivered := 0
	for _, e := range snapshot {
		if err := safeSend(e.sub, msg); err != nil {
			h.logger.Warn("dropping subscriber", "subscription_id", e.id, "event", event, "error", err.Error())
			h.Unsubscribe(e.id)
			if h.obs != nil {
				h.obs.SubscriberDropped()
			}
			continue
		}
		delivered++
	}
	if h.obs != nil {
		h.obs.EventPublished(event, delivered)
	}
	return delivered
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Done is closed when the hub shuts down; sessions watch it to end their
// streams.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.subs = make(map[uint64]Subscriber)
	h.mu.Unlock()

	close(h.done)
	h.observeCount(0)
}

func (h *Hub) observeCount(n int) {
	if h.obs != nil {
		h.obs.SubscribersChanged(n)
	}
}

func safeSend(s Subscriber, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Newf("subscriber panicked: %v", r)
		}
	}()
	return s.Send(msg)
}
