package api

import (
	"net/http"

	reqdto "order-tracker/internal/handler/dto/request"
	resdto "order-tracker/internal/handler/dto/response"
	"order-tracker/internal/handler/httperr"
	"order-tracker/internal/handler/middleware"
	"order-tracker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	rates    queries.RateQueries
	tracking queries.TrackingQueries
	timeline queries.TimelineQueries
}

func NewTrackingHandler(rates queries.RateQueries, tracking queries.TrackingQueries, timeline queries.TimelineQueries) *TrackingHandler {
	return &TrackingHandler{rates: rates, tracking: tracking, timeline: timeline}
}

// @Summary Quote shipping rates
// @Description Quote every configured carrier and apply the free-shipping coverage policy. Falls back to the flat fee when no carrier answers.
// @Tags shipping
// @Accept json
// @Produce json
// @Param request body reqdto.RateRequest true "Cart and destination"
// @Success 200 {object} resdto.RateResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /shipping/rates [post]
func (h *TrackingHandler) Rates(c *gin.Context) {
	var req reqdto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	res, err := h.rates.Quote(c.Request.Context(), req.ToQuery())
	if err != nil {
		httperr.Abort(c, err, "Rate lookup failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromRates(res))
}

// @Summary Track shipment
// @Description Canonical tracking for an AWB. Carrier outages are served from cache or a synthetic history.
// @Tags tracking
// @Produce json
// @Param awb path string true "Tracking number"
// @Param carrier query string false "Carrier code, defaults to the primary carrier"
// @Success 200 {object} resdto.TrackingResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /tracking/{awb} [get]
func (h *TrackingHandler) Track(c *gin.Context) {
	res, err := h.tracking.Track(c.Request.Context(), c.Param("awb"), c.Query("carrier"))
	if err != nil {
		httperr.Abort(c, err, "Tracking lookup failed")
		return
	}
	body, err := resdto.FromTracking(res)
	if err != nil {
		httperr.Abort(c, err, "Tracking lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Track order
// @Description Order timeline by order number. A matching phone number reveals the address and live feed; the owner or an admin sees everything.
// @Tags tracking
// @Produce json
// @Param orderNumber path string true "Order number"
// @Param phone query string false "Phone number on the order"
// @Success 200 {object} resdto.TimelineResponse
// @Failure 404 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /track/{orderNumber} [get]
func (h *TrackingHandler) TrackOrder(c *gin.Context) {
	tl, err := h.timeline.ByNumber(c.Request.Context(), c.Param("orderNumber"), c.Query("phone"), optionalViewer(c))
	if err != nil {
		httperr.Abort(c, err, "Order lookup failed")
		return
	}
	body, err := resdto.FromTimeline(tl)
	if err != nil {
		httperr.Abort(c, err, "Order lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Order tracking
// @Description Full timeline for an order owned by the caller
// @Tags tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.TimelineResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id}/tracking [get]
func (h *TrackingHandler) OrderTracking(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	tl, err := h.timeline.ByID(c.Request.Context(), id, viewer)
	if err != nil {
		httperr.Abort(c, err, "Order lookup failed")
		return
	}
	body, err := resdto.FromTimeline(tl)
	if err != nil {
		httperr.Abort(c, err, "Order lookup failed")
		return
	}
	c.JSON(http.StatusOK, body)
}

func optionalViewer(c *gin.Context) *queries.Viewer {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	role, _ := middleware.GetUserRole(c)
	return &queries.Viewer{UserID: userID, Role: role}
}

func requireViewer(c *gin.Context) (queries.Viewer, bool) {
	v := optionalViewer(c)
	if v == nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return queries.Viewer{}, false
	}
	return *v, true
}
