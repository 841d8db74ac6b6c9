package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

const (
	relayBuffer       = 256
	relayWriteTimeout = 5 * time.Second
)

// Writer is the subset of kafka.Writer the relay needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Relay forwards order lifecycle events from the hub to a Kafka topic for
// external consumers. It is a hub subscriber and never blocks the publisher:
// when its queue is full the event is dropped and logged.
type Relay struct {
	writer Writer
	logger *slog.Logger
	queue  chan broadcast.Message

	stopOnce sync.Once
	stop     chan struct{}
	stopped  chan struct{}
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewRelay(w Writer, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		writer:  w,
		logger:  logger,
		queue:   make(chan broadcast.Message, relayBuffer),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (r *Relay) Send(msg broadcast.Message) error {
	switch msg.Event {
	case broadcast.EventCreated, broadcast.EventUpdated, broadcast.EventDeleted:
	default:
		return nil
	}
	select {
	case r.queue <- msg:
	default:
		r.logger.Warn("event relay queue full, dropping event", "event", msg.Event, "order_id", msg.Key)
	}
	return nil
}

// Start subscribes to the hub and begins draining the queue.
func (r *Relay) Start(hub *broadcast.Hub) error {
	if _, err := hub.Subscribe(r); err != nil {
		return errs.Wrap(err, "subscribe event relay")
	}
	go r.run()
	return nil
}

func (r *Relay) run() {
	defer close(r.stopped)
	for {
		select {
		case <-r.stop:
			r.drain()
			return
		case msg := <-r.queue:
			r.write(msg)
		}
	}
}

func (r *Relay) drain() {
	for {
		select {
		case msg := <-r.queue:
			r.write(msg)
		default:
			return
		}
	}
}

func (r *Relay) write(msg broadcast.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), relayWriteTimeout)
	defer cancel()

	err := r.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Data,
		Headers: []kafka.Header{{Key: "event", Value: []byte(msg.Event)}},
		Time:    time.Now(),
	})
	if err != nil {
		r.logger.Warn("event relay write failed", "event", msg.Event, "order_id", msg.Key, "error", err.Error())
	}
}

// Stop flushes queued events and closes the writer.
func (r *Relay) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stop) })
	select {
	case <-r.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.writer.Close()
}
