//go:build unit

package response_test

import (
	"testing"
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/handler/dto/response"
	"order-tracker/internal/usecase/queries"
	"order-tracker/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOrder_AccessProjection(t *testing.T) {
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)

	t.Run("verified access copies the full address but no amounts", func(t *testing.T) {
		res, err := response.FromOrder(o, queries.AccessVerified)

		require.NoError(t, err)
		assert.Equal(t, o.Address().Name, res.Address.Name)
		assert.Equal(t, o.Address().Line1, res.Address.Line1)
		assert.Equal(t, o.Address().PostalCode, res.Address.PostalCode)
		assert.Nil(t, res.Total)
		assert.Empty(t, res.ID)
	})

	t.Run("public access keeps only the destination", func(t *testing.T) {
		res, err := response.FromOrder(o, queries.AccessPublic)

		require.NoError(t, err)
		assert.Empty(t, res.Address.Name)
		assert.Empty(t, res.Address.Phone)
		assert.Equal(t, o.Address().City, res.Address.City)
	})

	t.Run("full access shows amounts and id", func(t *testing.T) {
		res, err := response.FromOrder(o, queries.AccessFull)

		require.NoError(t, err)
		assert.Equal(t, o.ID().String(), res.ID)
		require.NotNil(t, res.Total)
		require.NotNil(t, res.Shipment)
		assert.Equal(t, o.TrackingNumber(), res.Shipment.TrackingNumber)
	})
}

func TestFromTimeline_ProjectsEvents(t *testing.T) {
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)
	at := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	milestone := tracking.Event{Label: "Shipped", Milestone: tracking.MilestoneShipped, Timestamp: at, Completed: true}
	scan := tracking.NewCarrierEvent(tracking.StatusInTransit, "Nagpur Hub", "Bag received", at.Add(time.Hour))
	tl := &queries.OrderTimeline{Order: o, Events: []tracking.Event{milestone, scan}}

	t.Run("full access copies every field of every event", func(t *testing.T) {
		tl.Access = queries.AccessFull

		res, err := response.FromTimeline(tl)

		require.NoError(t, err)
		require.Len(t, res.Events, 2)
		assert.Equal(t, "shipped", res.Events[0].Milestone)
		assert.False(t, res.Events[0].IsLive)
		assert.Equal(t, "In Transit", res.Events[1].Status)
		assert.Equal(t, "Nagpur Hub", res.Events[1].Location)
		assert.Equal(t, at.Add(time.Hour), res.Events[1].Timestamp)
		assert.True(t, res.Events[1].IsLive)
	})

	t.Run("public access drops carrier scans", func(t *testing.T) {
		tl.Access = queries.AccessPublic

		res, err := response.FromTimeline(tl)

		require.NoError(t, err)
		require.Len(t, res.Events, 1)
		assert.Equal(t, "Shipped", res.Events[0].Label)
	})
}
