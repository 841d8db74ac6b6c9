//go:build unit || e2e

package builder

import (
	"time"

	"order-tracker/internal/domain/order"
	reqdto "order-tracker/internal/handler/dto/request"
	"order-tracker/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
)

var fake = faker.New()

type OrderBuilder struct {
	CustomerID    uuid.UUID
	Items         []order.LineItem
	ShippingCost  int64
	Discount      int64
	PaymentMethod order.PaymentMethod
	Address       order.Address
	Now           time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		CustomerID: uuid.New(),
		Items: []order.LineItem{
			{ProductID: "whey-1kg", Name: "Whey Protein 1kg", UnitPrice: 249900, Quantity: 1, WeightGrams: 1100},
			{ProductID: "shaker", Name: "Shaker Bottle", UnitPrice: 29900, Quantity: 2, Variant: "black"},
		},
		ShippingCost:  0,
		Discount:      0,
		PaymentMethod: order.PaymentMethodOnline,
		Address: order.Address{
			Name:       fake.Person().Name(),
			Phone:      "9876543210",
			Line1:      fake.Address().StreetAddress(),
			City:       fake.Address().City(),
			State:      "Karnataka",
			PostalCode: "560001",
			Country:    "IN",
		},
		Now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithPaymentMethod(m order.PaymentMethod) *OrderBuilder {
	b.PaymentMethod = m
	return b
}

func (b *OrderBuilder) WithItems(items ...order.LineItem) *OrderBuilder {
	b.Items = items
	return b
}

// Build methods
func (b *OrderBuilder) BuildDomain() (*order.Order, error) {
	return order.New(order.NewParams{
		CustomerID:    b.CustomerID,
		Items:         b.Items,
		ShippingCost:  b.ShippingCost,
		Discount:      b.Discount,
		PaymentMethod: b.PaymentMethod,
		Address:       b.Address,
	}, b.Now)
}

// BuildInStatus reconstructs an order that has reached status with every
// milestone up to it stamped one hour apart, starting at Now.
func (b *OrderBuilder) BuildInStatus(status order.Status, payment order.PaymentStatus) *order.Order {
	return b.BuildReconstructed(status, payment, nil)
}

func (b *OrderBuilder) BuildReconstructed(status order.Status, payment order.PaymentStatus, mutate func(*order.ReconstructParams)) *order.Order {
	var subtotal int64
	for _, li := range b.Items {
		subtotal += li.LineTotal()
	}
	at := func(h int) *time.Time {
		t := b.Now.Add(time.Duration(h) * time.Hour)
		return &t
	}

	p := order.ReconstructParams{
		ID:            uuid.New(),
		Number:        order.NewOrderNumber(),
		CustomerID:    b.CustomerID,
		Items:         b.Items,
		Subtotal:      subtotal,
		ShippingCost:  b.ShippingCost,
		Discount:      b.Discount,
		Total:         subtotal + b.ShippingCost - b.Discount,
		Status:        status,
		PaymentStatus: payment,
		PaymentMethod: b.PaymentMethod,
		Address:       b.Address,
		CreatedAt:     b.Now,
		UpdatedAt:     b.Now,
	}
	if payment.Settled() {
		p.PaymentAt = at(0)
	}
	if status.Reached(order.StatusConfirmed) {
		p.ConfirmedAt = at(1)
	}
	if status.Reached(order.StatusShipped) {
		p.ShippedAt = at(2)
		p.Shipment = &order.Shipment{TrackingNumber: "AWB1001", Carrier: "shiprocket", CourierName: "Delhivery Surface"}
	}
	if status.Reached(order.StatusDelivered) {
		p.DeliveredAt = at(3)
	}
	if status == order.StatusCancelled {
		p.CancelledAt = at(1)
	}
	if mutate != nil {
		mutate(&p)
	}
	return order.Reconstruct(p)
}

func (b *OrderBuilder) BuildPlaceRequestDTO() reqdto.PlaceOrderRequest {
	items := make([]reqdto.LineItemRequest, len(b.Items))
	for i, li := range b.Items {
		items[i] = reqdto.LineItemRequest{
			ProductID:   li.ProductID,
			Name:        li.Name,
			UnitPrice:   money.ToDecimal(li.UnitPrice),
			Quantity:    li.Quantity,
			Variant:     li.Variant,
			WeightGrams: li.WeightGrams,
		}
	}
	return reqdto.PlaceOrderRequest{
		CustomerID:    b.CustomerID,
		Items:         items,
		ShippingCost:  money.ToDecimal(b.ShippingCost),
		Discount:      money.ToDecimal(b.Discount),
		PaymentMethod: string(b.PaymentMethod),
		Address: reqdto.AddressRequest{
			Name:       b.Address.Name,
			Phone:      b.Address.Phone,
			Line1:      b.Address.Line1,
			Line2:      b.Address.Line2,
			City:       b.Address.City,
			State:      b.Address.State,
			PostalCode: b.Address.PostalCode,
			Country:    b.Address.Country,
		},
	}
}
