package broadcast

import (
	"order-tracker/internal/domain/order"

	"github.com/google/uuid"
)

// OrderEvent is the minimal payload broadcast after an order mutation commits.
type OrderEvent struct {
	OrderID        uuid.UUID `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"paymentStatus"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
}

func (e OrderEvent) EventKey() string { return e.OrderID.String() }

func NewOrderEvent(o *order.Order) OrderEvent {
	return OrderEvent{
		OrderID:        o.ID(),
		OrderNumber:    o.Number(),
		Status:         o.Status().String(),
		PaymentStatus:  o.PaymentStatus().String(),
		TrackingNumber: o.TrackingNumber(),
		Carrier:        o.Carrier(),
	}
}
