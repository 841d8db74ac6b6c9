//go:build unit

package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/usecase/queries"
	queriesmock "order-tracker/tests/mock/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pushed struct {
	event   string
	payload any
}

type fakePusher struct {
	mu   sync.Mutex
	msgs []pushed
	err  error
}

func (p *fakePusher) Push(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, pushed{event: event, payload: payload})
	return p.err
}

func (p *fakePusher) events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.event
	}
	return out
}

func TestTrackingRefresher_EmitsOnlyChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	tq := queriesmock.NewMockTrackingQueries(ctrl)

	first := liveTracking("AWB1001")
	second := liveTracking("AWB1001")
	second.Status = tracking.StatusOutForDelivery
	second.Events = append(second.Events, tracking.NewCarrierEvent(tracking.StatusOutForDelivery, "Bengaluru", "", now))

	gomock.InOrder(
		tq.EXPECT().Track(gomock.Any(), "AWB1001", "shiprocket").Return(&queries.TrackingResult{Tracking: first, Progress: 60}, nil),
		tq.EXPECT().Track(gomock.Any(), "AWB1001", "shiprocket").Return(&queries.TrackingResult{Tracking: first, Progress: 60}, nil),
		tq.EXPECT().Track(gomock.Any(), "AWB1001", "shiprocket").Return(&queries.TrackingResult{Tracking: second, Progress: 85}, nil).MinTimes(1),
	)

	p := &fakePusher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		queries.NewTrackingRefresher(tq, 10*time.Millisecond, nil).Watch(ctx, p, "AWB1001", "shiprocket")
	}()

	require.Eventually(t, func() bool { return len(p.events()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []string{broadcast.EventTrackingUpdate, broadcast.EventTrackingUpdate}, p.events())
	update, ok := p.msgs[1].payload.(queries.TrackingUpdate)
	require.True(t, ok)
	assert.Equal(t, "Out for Delivery", update.Status)
	assert.Equal(t, 85, update.Progress)
	assert.Equal(t, "Bengaluru", update.Location)
	assert.False(t, update.IsMockData)
}

func TestTrackingRefresher_StopsWhenStreamIsGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	tq := queriesmock.NewMockTrackingQueries(ctrl)
	tq.EXPECT().Track(gomock.Any(), gomock.Any(), gomock.Any()).Return(&queries.TrackingResult{Tracking: liveTracking("AWB1001")}, nil)

	p := &fakePusher{err: broadcast.ErrSlowConsumer}
	done := make(chan struct{})
	go func() {
		defer close(done)
		queries.NewTrackingRefresher(tq, time.Hour, nil).Watch(context.Background(), p, "AWB1001", "")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestTrackingRefresher_ReportsLookupErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	tq := queriesmock.NewMockTrackingQueries(ctrl)
	tq.EXPECT().Track(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, queries.ErrInvalidTrackingNumber).MinTimes(1)

	p := &fakePusher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		queries.NewTrackingRefresher(tq, time.Hour, nil).Watch(ctx, p, "bad awb", "")
	}()

	require.Eventually(t, func() bool { return len(p.events()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, []string{broadcast.EventError}, p.events())
}
