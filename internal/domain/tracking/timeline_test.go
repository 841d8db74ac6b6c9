//go:build unit

package tracking_test

import (
	"testing"
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/tracking"
	"order-tracker/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeline(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Hour)
	t15 := t0.Add(3 * time.Hour)
	t2 := t0.Add(4 * time.Hour)

	t.Run("carrier entry lands between confirmation and shipment", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildReconstructed(order.StatusShipped, order.PaymentPending,
			func(p *order.ReconstructParams) {
				p.PaymentMethod = order.PaymentMethodCOD
				p.CreatedAt = t0
				p.PaymentAt = nil
				p.ConfirmedAt = &t1
				p.ShippedAt = &t2
			})
		live := &tracking.CanonicalTracking{
			Source: tracking.SourceLive,
			Events: []tracking.Event{
				tracking.NewCarrierEvent(tracking.StatusPickedUp, "Bhiwandi", "Picked up", t15),
			},
		}

		got := tracking.BuildTimeline(o, live)

		require.Len(t, got, 4)
		assert.Equal(t, []time.Time{t0, t1, t15, t2}, timestamps(got))
		assert.Equal(t, []bool{false, false, true, false}, liveFlags(got))
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i].Timestamp.After(got[i-1].Timestamp))
		}
		for _, e := range got {
			assert.NotEqual(t, tracking.MilestoneDelivered, e.Milestone)
			assert.True(t, e.Completed)
		}
	})

	t.Run("without live data only milestones appear", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusDelivered, order.PaymentCompleted)

		got := tracking.BuildTimeline(o, nil)

		assert.Equal(t, []tracking.Milestone{
			tracking.MilestonePlaced,
			tracking.MilestonePayment,
			tracking.MilestoneConfirmed,
			tracking.MilestoneShipped,
			tracking.MilestoneDelivered,
		}, milestones(got))
	})

	t.Run("expected delivery stays out of the timeline", func(t *testing.T) {
		eta := t0.Add(96 * time.Hour)
		o := builder.NewOrderBuilder().BuildReconstructed(order.StatusShipped, order.PaymentCompleted,
			func(p *order.ReconstructParams) { p.ExpectedDeliveryAt = &eta })

		got := tracking.BuildTimeline(o, nil)
		for _, e := range got {
			assert.False(t, e.Timestamp.Equal(eta))
		}
		assert.Equal(t, tracking.MilestoneShipped, got[len(got)-1].Milestone)
	})

	t.Run("synthetic history is not merged as carrier scans", func(t *testing.T) {
		deliveredAt := time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC)
		o := builder.NewOrderBuilder().BuildReconstructed(order.StatusDelivered, order.PaymentCompleted,
			func(p *order.ReconstructParams) {
				p.CreatedAt = deliveredAt.Add(-72 * time.Hour)
				p.PaymentAt = &p.CreatedAt
				confirmed := deliveredAt.Add(-48 * time.Hour)
				shipped := deliveredAt.Add(-24 * time.Hour)
				p.ConfirmedAt = &confirmed
				p.ShippedAt = &shipped
				p.DeliveredAt = &deliveredAt
			})
		synthetic := tracking.Synthetic("AWB42", "shiprocket", deliveredAt.Add(7*24*time.Hour))

		got := tracking.BuildTimeline(o, &synthetic)

		assert.Equal(t, []bool{false, false, false, false, false}, liveFlags(got))
		assert.Equal(t, tracking.MilestoneDelivered, got[len(got)-1].Milestone)
	})

	t.Run("cached history is merged like live data", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildReconstructed(order.StatusShipped, order.PaymentCompleted,
			func(p *order.ReconstructParams) { p.CreatedAt = t0 })
		cached := &tracking.CanonicalTracking{
			Source: tracking.SourceCached,
			Events: []tracking.Event{tracking.NewCarrierEvent(tracking.StatusInTransit, "Pune", "In transit", t0.Add(time.Hour))},
		}

		got := tracking.BuildTimeline(o, cached)
		assert.Contains(t, liveFlags(got), true)
	})

	t.Run("cancelled order ends with cancellation", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusCancelled, order.PaymentPending)
		got := tracking.BuildTimeline(o, nil)
		assert.Equal(t, []tracking.Milestone{tracking.MilestonePlaced, tracking.MilestoneCancelled}, milestones(got))
	})

	t.Run("entries without timestamp are dropped and ties keep internal first", func(t *testing.T) {
		o := builder.NewOrderBuilder().BuildReconstructed(order.StatusPending, order.PaymentPending,
			func(p *order.ReconstructParams) { p.CreatedAt = t0 })
		live := &tracking.CanonicalTracking{Events: []tracking.Event{
			{Label: "no time", Status: tracking.StatusInTransit},
			tracking.NewCarrierEvent(tracking.StatusOrderPlaced, "", "manifested", t0),
		}}

		got := tracking.BuildTimeline(o, live)
		require.Len(t, got, 2)
		assert.False(t, got[0].IsLive)
		assert.True(t, got[1].IsLive)
	})
}

func TestSynthetic(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	a := tracking.Synthetic("AWB42", "shiprocket", now)
	b := tracking.Synthetic("AWB42", "shiprocket", now.Add(10*time.Minute))

	assert.True(t, a.IsMockData())
	assert.Equal(t, tracking.SourceSynthetic, a.Source)
	assert.Equal(t, timestamps(a.Events), timestamps(b.Events))
	assert.GreaterOrEqual(t, len(a.Events), 2)
	for _, e := range a.Events {
		assert.True(t, e.Status.IsValid())
		assert.True(t, e.IsLive)
	}
	latest, ok := a.Latest()
	require.True(t, ok)
	assert.Equal(t, latest.Status, a.Status)
}

func TestStatusProgress(t *testing.T) {
	prev := 0
	for _, s := range []tracking.Status{
		tracking.StatusOrderPlaced,
		tracking.StatusPickedUp,
		tracking.StatusInTransit,
		tracking.StatusOutForDelivery,
		tracking.StatusDelivered,
	} {
		assert.Greater(t, s.Progress(), prev, s)
		prev = s.Progress()
	}
	assert.Equal(t, time.Duration(0), tracking.StatusDelivered.NextPollInterval())
	assert.Positive(t, tracking.StatusException.NextPollInterval())
}

func TestNewCarrierEventRejectsUnknownStatus(t *testing.T) {
	e := tracking.NewCarrierEvent(tracking.Status("Lost in space"), "", "", time.Now())
	assert.Equal(t, tracking.StatusException, e.Status)
}

func timestamps(events []tracking.Event) []time.Time {
	out := make([]time.Time, len(events))
	for i, e := range events {
		out[i] = e.Timestamp
	}
	return out
}

func liveFlags(events []tracking.Event) []bool {
	out := make([]bool, len(events))
	for i, e := range events {
		out[i] = e.IsLive
	}
	return out
}

func milestones(events []tracking.Event) []tracking.Milestone {
	out := make([]tracking.Milestone, 0, len(events))
	for _, e := range events {
		if !e.IsLive {
			out = append(out, e.Milestone)
		}
	}
	return out
}
