package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/handler/httperr"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StreamHandler struct {
	hub       *broadcast.Hub
	timeline  queries.TimelineQueries
	refresher *queries.TrackingRefresher
	cfg       config.StreamConfig
	logger    *slog.Logger
}

func NewStreamHandler(
	hub *broadcast.Hub,
	timeline queries.TimelineQueries,
	refresher *queries.TrackingRefresher,
	cfg config.StreamConfig,
	logger *slog.Logger,
) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{hub: hub, timeline: timeline, refresher: refresher, cfg: cfg, logger: logger}
}

// @Summary Order event stream
// @Description Server-sent events for one order: connected, status_change, tracking_update, heartbeat and error
// @Tags stream
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param access_token query string false "Bearer token for clients that cannot set headers"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id}/stream [get]
func (h *StreamHandler) OrderStream(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	o, err := h.timeline.Authorize(c.Request.Context(), id, viewer)
	if err != nil {
		httperr.Abort(c, err, "Order lookup failed")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	shipped := make(chan broadcast.OrderEvent, 1)
	var onEvent func(broadcast.Message)
	if h.refresher != nil && o.TrackingNumber() == "" {
		onEvent = func(msg broadcast.Message) {
			var ev broadcast.OrderEvent
			if msg.Event != broadcast.EventStatusChange || json.Unmarshal(msg.Data, &ev) != nil || ev.TrackingNumber == "" {
				return
			}
			select {
			case shipped <- ev:
			default:
			}
		}
	}
	session := h.newSession(id, onEvent)
	if h.refresher != nil {
		go h.track(ctx, session, shipped, o.TrackingNumber(), o.Carrier())
	}
	h.serve(ctx, c, session)
}

// track starts the tracking refresher once the stream is open. An order
// without an airway bill at open is watched until a status change carries
// one.
func (h *StreamHandler) track(ctx context.Context, session *broadcast.Session, shipped <-chan broadcast.OrderEvent, awb, carrier string) {
	select {
	case <-session.Ready():
	case <-ctx.Done():
		return
	}
	if awb == "" {
		select {
		case ev := <-shipped:
			awb, carrier = ev.TrackingNumber, ev.Carrier
			h.logger.Debug("Order shipped during stream, starting tracking", "order_id", ev.OrderID.String(), "tracking_number", awb)
		case <-ctx.Done():
			return
		}
	}
	h.refresher.Watch(ctx, session, awb, carrier)
}

// @Summary Admin event stream
// @Description Server-sent events for every order: connected, created, updated, deleted and ping
// @Tags admin
// @Produce text/event-stream
// @Security BearerAuth
// @Param access_token query string false "Bearer token for clients that cannot set headers"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/orders/stream [get]
func (h *StreamHandler) AdminStream(c *gin.Context) {
	h.serve(c.Request.Context(), c, h.newSession(uuid.Nil, nil))
}

func (h *StreamHandler) newSession(orderID uuid.UUID, onEvent func(broadcast.Message)) *broadcast.Session {
	return broadcast.NewSession(h.hub, broadcast.SessionOptions{
		OrderID:   orderID,
		KeepAlive: h.cfg.KeepAlive,
		Buffer:    h.cfg.SessionBuffer,
		OnEvent:   onEvent,
	})
}

func (h *StreamHandler) serve(ctx context.Context, c *gin.Context, session *broadcast.Session) {
	broadcast.PrepareStream(c.Writer.Header())
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	err := session.Run(ctx, broadcast.NewSSEWriter(c.Writer))
	switch {
	case err == nil:
	case errs.Is(err, broadcast.ErrHubClosed):
		h.logger.Info("Stream refused, hub closed", "path", c.FullPath())
	case errs.Is(err, broadcast.ErrSlowConsumer):
		h.logger.Warn("Stream evicted", "path", c.FullPath(), "client_ip", c.ClientIP())
	default:
		h.logger.Debug("Stream ended", "path", c.FullPath(), "error", err.Error())
	}
}
