//go:build unit

package eventbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/infra/eventbus"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
	err    error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWriter) written() []kafka.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]kafka.Message(nil), f.msgs...)
}

func TestRelayForwardsOrderEvents(t *testing.T) {
	hub := broadcast.NewHub(nil, nil)
	fw := &fakeWriter{}
	relay := eventbus.NewRelay(fw, nil)
	require.NoError(t, relay.Start(hub))

	id := uuid.New()
	hub.Publish(broadcast.EventUpdated, broadcast.OrderEvent{OrderID: id, OrderNumber: "ORD-9", Status: "shipped"})
	hub.Publish(broadcast.EventPing, map[string]int{"ts": 1})

	require.Eventually(t, func() bool { return len(fw.written()) == 1 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, relay.Stop(ctx))

	msgs := fw.written()
	require.Len(t, msgs, 1, "connected ack and pings are not relayed")
	assert.Equal(t, id.String(), string(msgs[0].Key))
	assert.Contains(t, string(msgs[0].Value), `"orderNumber":"ORD-9"`)
	require.Len(t, msgs[0].Headers, 1)
	assert.Equal(t, "updated", string(msgs[0].Headers[0].Value))
	assert.True(t, fw.closed)
}

func TestRelayWriteFailureDoesNotAffectHub(t *testing.T) {
	hub := broadcast.NewHub(nil, nil)
	fw := &fakeWriter{err: kafka.LeaderNotAvailable}
	relay := eventbus.NewRelay(fw, nil)
	require.NoError(t, relay.Start(hub))

	n := hub.Publish(broadcast.EventCreated, broadcast.OrderEvent{OrderID: uuid.New()})
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, hub.Count(), "relay stays subscribed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, relay.Stop(ctx))
}
