package api

import (
	"net/http"

	"order-tracker/internal/domain/order"
	reqdto "order-tracker/internal/handler/dto/request"
	resdto "order-tracker/internal/handler/dto/response"
	"order-tracker/internal/handler/httperr"
	"order-tracker/internal/usecase/commands"
	"order-tracker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	cmds commands.OrderCommands
}

func NewOrderHandler(cmds commands.OrderCommands) *OrderHandler {
	return &OrderHandler{cmds: cmds}
}

// @Summary Place order
// @Description Create an order at checkout. COD orders start confirmed, online orders wait for payment.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PlaceOrderRequest true "Place order request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req reqdto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := h.cmds.PlaceOrder(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err, "Place order failed")
		return
	}
	res, err := resdto.FromOrder(o, queries.AccessFull)
	if err != nil {
		httperr.Abort(c, err, "Place order failed")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Transition order status
// @Description Move the order along pending, confirmed, shipped, delivered or to cancelled
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.TransitionRequest true "Target status"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/orders/{id}/status [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req reqdto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := h.cmds.Transition(c.Request.Context(), id, order.Status(req.Status))
	h.respond(c, o, err, "Transition failed")
}

// @Summary Update payment status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.PaymentRequest true "Target payment status"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/orders/{id}/payment [post]
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req reqdto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := h.cmds.UpdatePayment(c.Request.Context(), id, order.PaymentStatus(req.Status))
	h.respond(c, o, err, "Payment update failed")
}

// @Summary Record shipment
// @Description Attach carrier metadata and mark the order shipped
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.RecordShipmentRequest true "Shipment details"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/orders/{id}/shipment [post]
func (h *OrderHandler) RecordShipment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req reqdto.RecordShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := h.cmds.RecordShipment(c.Request.Context(), id, req.ToDetails())
	h.respond(c, o, err, "Record shipment failed")
}

// @Summary Create shipment with carrier
// @Description Book the shipment with the carrier and record the returned AWB
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.CreateShipmentRequest false "Carrier options"
// @Success 201 {object} resdto.CreateShipmentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} resdto.CreateShipmentResponse
// @Failure 502 {object} httperr.Response
// @Router /admin/orders/{id}/shipment/create [post]
func (h *OrderHandler) CreateShipment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req reqdto.CreateShipmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	res, err := h.cmds.CreateShipment(c.Request.Context(), id, req.ToCommand())
	if err != nil {
		httperr.Abort(c, err, "Create shipment failed")
		return
	}
	if res.Order == nil {
		c.JSON(http.StatusUnprocessableEntity, resdto.CreateShipmentResponse{Error: res.Rejected})
		return
	}
	body, err := resdto.FromOrder(res.Order, queries.AccessFull)
	if err != nil {
		httperr.Abort(c, err, "Create shipment failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.CreateShipmentResponse{Success: true, Order: body})
}

// @Summary Cancel order
// @Description Cancel an order that has not shipped yet
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.CancelRequest false "Reason"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req reqdto.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	o, err := h.cmds.Cancel(c.Request.Context(), id, req.Reason)
	h.respond(c, o, err, "Cancel failed")
}

func (h *OrderHandler) respond(c *gin.Context, o *order.Order, err error, fallback string) {
	if err != nil {
		httperr.Abort(c, err, fallback)
		return
	}
	res, err := resdto.FromOrder(o, queries.AccessFull)
	if err != nil {
		httperr.Abort(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, res)
}

func orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
