package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"order-tracker/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSlowConsumer = errs.New("subscriber buffer is full")

const (
	defaultKeepAlive = 20 * time.Second
	defaultBuffer    = 32
)

// Writer puts one message on the wire.
type Writer interface {
	WriteMessage(msg Message) error
}

type SessionOptions struct {
	// OrderID scopes the session to one order; uuid.Nil receives every event.
	OrderID   uuid.UUID
	KeepAlive time.Duration
	Buffer    int
	// OnEvent sees every hub message the session accepts, after filtering.
	// It runs on the publisher's goroutine and must not block.
	OnEvent func(Message)
}

// Session is one open push connection. Hub deliveries and locally pushed
// messages are queued on a bounded outbox and written by Run.
type Session struct {
	hub     *Hub
	orderID uuid.UUID
	scope   string

	keepAlive time.Duration
	outbox    chan Message
	onEvent   func(Message)

	evictOnce sync.Once
	evicted   chan struct{}
	ready     chan struct{}
}

func NewSession(hub *Hub, opts SessionOptions) *Session {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = defaultKeepAlive
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	s := &Session{
		hub:       hub,
		orderID:   opts.OrderID,
		keepAlive: opts.KeepAlive,
		outbox:    make(chan Message, opts.Buffer),
		onEvent:   opts.OnEvent,
		evicted:   make(chan struct{}),
		ready:     make(chan struct{}),
	}
	if opts.OrderID != uuid.Nil {
		s.scope = opts.OrderID.String()
	}
	return s
}

func (s *Session) Scoped() bool { return s.scope != "" }

// Ready is closed once Run has registered the session and queued the
// connected acknowledgement.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Send is called by the hub. It never blocks; a full outbox evicts the
// session.
func (s *Session) Send(msg Message) error {
	msg, ok := s.filter(msg)
	if !ok {
		return nil
	}
	if err := s.enqueue(msg); err != nil {
		return err
	}
	if s.onEvent != nil && msg.Event != EventConnected {
		s.onEvent(msg)
	}
	return nil
}

// Push queues a session-local message such as a tracking update.
func (s *Session) Push(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "encode session message")
	}
	return s.enqueue(Message{Event: event, Data: data, Key: s.scope})
}

func (s *Session) enqueue(msg Message) error {
	select {
	case <-s.evicted:
		return ErrSlowConsumer
	default:
	}
	select {
	case s.outbox <- msg:
		return nil
	default:
		s.evictOnce.Do(func() { close(s.evicted) })
		return ErrSlowConsumer
	}
}

// filter drops other orders' events on a scoped session and renames order
// lifecycle events to status_change.
func (s *Session) filter(msg Message) (Message, bool) {
	if !s.Scoped() {
		return msg, true
	}
	switch msg.Event {
	case EventConnected:
		return msg, true
	case EventCreated, EventUpdated, EventDeleted:
		if msg.Key != s.scope {
			return msg, false
		}
		msg.Event = EventStatusChange
		return msg, true
	default:
		return msg, msg.Key == s.scope
	}
}

// Run registers the session, then writes queued messages and keep-alives
// until ctx is cancelled, the hub closes, the session is evicted or a write
// fails. The subscription is released on every exit path.
func (s *Session) Run(ctx context.Context, w Writer) error {
	id, err := s.hub.Subscribe(s)
	if err != nil {
		return err
	}
	defer s.hub.Unsubscribe(id)
	close(s.ready)

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.hub.Done():
			return nil
		case <-s.evicted:
			return ErrSlowConsumer
		case msg := <-s.outbox:
			if err := w.WriteMessage(msg); err != nil {
				return errs.Wrap(err, "write stream message")
			}
		case t := <-ticker.C:
			if err := w.WriteMessage(s.keepAliveMessage(t)); err != nil {
				return errs.Wrap(err, "write keep-alive")
			}
		}
	}
}

func (s *Session) keepAliveMessage(t time.Time) Message {
	event := EventPing
	if s.Scoped() {
		event = EventHeartbeat
	}
	data, _ := json.Marshal(map[string]int64{"ts": t.UnixMilli()})
	return Message{Event: event, Data: data, Key: s.scope}
}
