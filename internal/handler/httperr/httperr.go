package httperr

import (
	"net/http"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/commands"
	"order-tracker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps a usecase error onto its HTTP status. Unrecognized errors are
// reported as fallback with a 500.
func Abort(c *gin.Context, err error, fallback string) {
	status, msg := Classify(err)
	if status == http.StatusInternalServerError {
		msg = fallback
	}
	AbortWithError(c, status, err, msg, nil)
}

func Classify(err error) (int, string) {
	switch {
	case errs.Is(err, commands.ErrOrderNotFound), errs.Is(err, queries.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errs.Is(err, order.ErrAlreadyTerminal):
		return http.StatusConflict, "Order is already in a terminal state"
	case errs.Is(err, order.ErrPaymentRequired):
		return http.StatusConflict, "Payment must be completed first"
	case errs.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict, "Invalid status transition"
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errs.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errs.Is(err, errs.ErrRateLimitExceeded):
		return http.StatusTooManyRequests, "Too many requests"
	case errs.Is(err, carrier.ErrCarrierUnavailable):
		return http.StatusBadGateway, "Carrier unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
