//go:build unit

package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	nethttptest "net/http/httptest"
	"strings"
	"testing"
	"time"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/domain/user"
	"order-tracker/internal/handler/api"
	"order-tracker/internal/handler/middleware"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/queries"
	"order-tracker/tests/common/builder"
	"order-tracker/tests/common/httptest"
	queriesmock "order-tracker/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type sseFrame struct {
	Event string
	Data  string
}

func readFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	var f sseFrame
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if f.Event != "" || f.Data != "" {
				return f
			}
		case strings.HasPrefix(line, "event:"):
			f.Event = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			f.Data = strings.TrimPrefix(line, "data:")
		}
	}
}

type streamFixture struct {
	hub      *broadcast.Hub
	timeline *queriesmock.MockTimelineQueries
	tracking *queriesmock.MockTrackingQueries
	router   *gin.Engine
	viewerID uuid.UUID
	role     user.Role
}

func newStreamFixture(t *testing.T) *streamFixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	f := &streamFixture{
		hub:      broadcast.NewHub(nil, nil),
		timeline: queriesmock.NewMockTimelineQueries(ctrl),
		tracking: queriesmock.NewMockTrackingQueries(ctrl),
		router:   gin.New(),
		viewerID: uuid.New(),
		role:     user.RoleCustomer,
	}
	t.Cleanup(f.hub.Close)

	refresher := queries.NewTrackingRefresher(f.tracking, time.Hour, nil)
	h := api.NewStreamHandler(f.hub, f.timeline, refresher, config.StreamConfig{KeepAlive: time.Minute, SessionBuffer: 8}, nil)

	// Mock authentication middleware for testing
	auth := func(c *gin.Context) {
		c.Set("user_id", f.viewerID)
		c.Set("user_role", f.role)
		c.Next()
	}
	f.router.Use(middleware.ErrorHandler())
	f.router.GET("/orders/:id/stream", auth, h.OrderStream)
	f.router.GET("/admin/orders/stream", auth, h.AdminStream)
	return f
}

func (f *streamFixture) open(t *testing.T, path string) *bufio.Reader {
	t.Helper()
	srv := nethttptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	return bufio.NewReader(resp.Body)
}

func TestStreamHandler_OrderStream(t *testing.T) {
	t.Run("success: relays only this order's changes as status_change", func(t *testing.T) {
		f := newStreamFixture(t)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)
		other := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)
		f.timeline.EXPECT().Authorize(gomock.Any(), o.ID(), queries.Viewer{UserID: f.viewerID, Role: user.RoleCustomer}).Return(o, nil)

		r := f.open(t, "/orders/"+o.ID().String()+"/stream")
		assert.Equal(t, broadcast.EventConnected, readFrame(t, r).Event)

		f.hub.Publish(broadcast.EventUpdated, broadcast.NewOrderEvent(other))
		f.hub.Publish(broadcast.EventUpdated, broadcast.NewOrderEvent(o))

		frame := readFrame(t, r)
		assert.Equal(t, broadcast.EventStatusChange, frame.Event)
		var ev broadcast.OrderEvent
		require.NoError(t, json.Unmarshal([]byte(frame.Data), &ev))
		assert.Equal(t, o.ID(), ev.OrderID)
		assert.Equal(t, "confirmed", ev.Status)
	})

	t.Run("success: shipped order streams tracking updates after connected", func(t *testing.T) {
		f := newStreamFixture(t)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)
		f.timeline.EXPECT().Authorize(gomock.Any(), o.ID(), gomock.Any()).Return(o, nil)

		at := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
		live := tracking.CanonicalTracking{
			TrackingNumber: "AWB1001",
			Carrier:        "shiprocket",
			Status:         tracking.StatusOutForDelivery,
			Events:         []tracking.Event{tracking.NewCarrierEvent(tracking.StatusOutForDelivery, "Koramangala", "Out for delivery", at)},
			Source:         tracking.SourceLive,
		}
		f.tracking.EXPECT().Track(gomock.Any(), "AWB1001", "shiprocket").
			Return(&queries.TrackingResult{Tracking: live, Progress: live.Status.Progress()}, nil).MinTimes(1)

		r := f.open(t, "/orders/"+o.ID().String()+"/stream")
		assert.Equal(t, broadcast.EventConnected, readFrame(t, r).Event)

		frame := readFrame(t, r)
		require.Equal(t, broadcast.EventTrackingUpdate, frame.Event)
		var upd queries.TrackingUpdate
		require.NoError(t, json.Unmarshal([]byte(frame.Data), &upd))
		assert.Equal(t, "Out for Delivery", upd.Status)
		assert.Equal(t, "Koramangala", upd.Location)
		assert.False(t, upd.IsMockData)
	})

	t.Run("success: order shipped while the stream is open starts tracking updates", func(t *testing.T) {
		f := newStreamFixture(t)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)
		f.timeline.EXPECT().Authorize(gomock.Any(), o.ID(), gomock.Any()).Return(o, nil)

		live := tracking.CanonicalTracking{
			TrackingNumber: "AWB2002",
			Carrier:        "delhivery",
			Status:         tracking.StatusPickedUp,
			Events:         []tracking.Event{tracking.NewCarrierEvent(tracking.StatusPickedUp, "Bhiwandi", "Shipment picked up", time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC))},
			Source:         tracking.SourceLive,
		}
		f.tracking.EXPECT().Track(gomock.Any(), "AWB2002", "delhivery").
			Return(&queries.TrackingResult{Tracking: live, Progress: live.Status.Progress()}, nil).MinTimes(1)

		r := f.open(t, "/orders/"+o.ID().String()+"/stream")
		assert.Equal(t, broadcast.EventConnected, readFrame(t, r).Event)

		f.hub.Publish(broadcast.EventUpdated, broadcast.OrderEvent{
			OrderID:        o.ID(),
			OrderNumber:    o.Number(),
			Status:         "shipped",
			PaymentStatus:  "completed",
			TrackingNumber: "AWB2002",
			Carrier:        "delhivery",
		})

		assert.Equal(t, broadcast.EventStatusChange, readFrame(t, r).Event)
		frame := readFrame(t, r)
		require.Equal(t, broadcast.EventTrackingUpdate, frame.Event)
		var upd queries.TrackingUpdate
		require.NoError(t, json.Unmarshal([]byte(frame.Data), &upd))
		assert.Equal(t, "AWB2002", upd.TrackingNumber)
		assert.Equal(t, "Bhiwandi", upd.Location)
	})

	t.Run("error: forbidden before the stream opens", func(t *testing.T) {
		f := newStreamFixture(t)
		id := uuid.New()
		f.timeline.EXPECT().Authorize(gomock.Any(), id, gomock.Any()).Return(nil, errs.Wrap(errs.ErrForbidden, "order"))

		rec := httptest.PerformRequest(t, f.router, http.MethodGet, "/orders/"+id.String()+"/stream", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Forbidden")
		assert.Equal(t, 0, f.hub.Count())
	})
}

func TestStreamHandler_AdminStream(t *testing.T) {
	f := newStreamFixture(t)
	f.role = user.RoleAdmin
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusPending, order.PaymentPending)

	r := f.open(t, "/admin/orders/stream")
	assert.Equal(t, broadcast.EventConnected, readFrame(t, r).Event)

	f.hub.Publish(broadcast.EventCreated, broadcast.NewOrderEvent(o))

	frame := readFrame(t, r)
	assert.Equal(t, broadcast.EventCreated, frame.Event)
	assert.Contains(t, frame.Data, o.Number())
}
