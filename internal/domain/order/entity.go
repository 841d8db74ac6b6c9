package order

import (
	"strings"
	"time"

	"order-tracker/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"
)

var (
	ErrEmptyItems      = errs.Mark(errs.New("order must contain at least one item"), errs.ErrValidation)
	ErrInvalidItem     = errs.Mark(errs.New("invalid line item"), errs.ErrValidation)
	ErrInvalidAddress  = errs.Mark(errs.New("invalid shipping address"), errs.ErrValidation)
	ErrInvalidAmount   = errs.Mark(errs.New("invalid order amount"), errs.ErrValidation)
	ErrInvalidShipment = errs.Mark(errs.New("invalid shipment details"), errs.ErrValidation)
)

type LineItem struct {
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	Variant     string `json:"variant,omitempty"`
	WeightGrams int    `json:"weightGrams,omitempty"`
}

func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Shipment holds carrier-side metadata recorded when the order ships.
// Charges are in minor units.
type Shipment struct {
	TrackingNumber string
	Carrier        string
	CourierName    string
	FreightCharge  int64
	CODCharge      int64
	OtherCharges   int64
}

type Order struct {
	id            uuid.UUID
	number        string
	customerID    uuid.UUID
	items         []LineItem
	subtotal      int64
	shippingCost  int64
	discount      int64
	total         int64
	status        Status
	paymentStatus PaymentStatus
	paymentMethod PaymentMethod
	address       Address
	shipment      *Shipment
	cancelReason  string

	createdAt          time.Time
	updatedAt          time.Time
	paymentAt          *time.Time
	confirmedAt        *time.Time
	shippedAt          *time.Time
	deliveredAt        *time.Time
	cancelledAt        *time.Time
	expectedDeliveryAt *time.Time
}

type NewParams struct {
	CustomerID    uuid.UUID
	Items         []LineItem
	ShippingCost  int64
	Discount      int64
	PaymentMethod PaymentMethod
	Address       Address
}

// New places an order. COD orders are confirmed on placement with payment
// still pending; online orders wait in pending for payment confirmation.
func New(p NewParams, now time.Time) (*Order, error) {
	if len(p.Items) == 0 {
		return nil, ErrEmptyItems
	}
	var subtotal int64
	items := make([]LineItem, len(p.Items))
	for i, li := range p.Items {
		if strings.TrimSpace(li.Name) == "" || li.Quantity <= 0 || li.UnitPrice < 0 || li.WeightGrams < 0 {
			return nil, errs.Wrapf(ErrInvalidItem, "item %d", i)
		}
		items[i] = li
		subtotal += li.LineTotal()
	}
	if err := validateAddress(p.Address); err != nil {
		return nil, err
	}
	if !p.PaymentMethod.IsValid() {
		return nil, errs.Mark(ErrInvalidPaymentMethod, errs.ErrValidation)
	}
	if p.ShippingCost < 0 || p.Discount < 0 || p.Discount > subtotal+p.ShippingCost {
		return nil, ErrInvalidAmount
	}

	o := &Order{
		id:            uuid.New(),
		number:        NewOrderNumber(),
		customerID:    p.CustomerID,
		items:         items,
		subtotal:      subtotal,
		shippingCost:  p.ShippingCost,
		discount:      p.Discount,
		total:         subtotal + p.ShippingCost - p.Discount,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		paymentMethod: p.PaymentMethod,
		address:       p.Address,
		createdAt:     now,
		updatedAt:     now,
	}
	if p.PaymentMethod == PaymentMethodCOD {
		o.status = StatusConfirmed
		o.confirmedAt = stamp(now)
	}
	return o, nil
}

func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(cuid.Slug())
}

func validateAddress(a Address) error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return errs.Wrap(ErrInvalidAddress, "name is required")
	case strings.TrimSpace(a.Phone) == "":
		return errs.Wrap(ErrInvalidAddress, "phone is required")
	case strings.TrimSpace(a.Line1) == "":
		return errs.Wrap(ErrInvalidAddress, "address line is required")
	case strings.TrimSpace(a.City) == "":
		return errs.Wrap(ErrInvalidAddress, "city is required")
	case strings.TrimSpace(a.PostalCode) == "":
		return errs.Wrap(ErrInvalidAddress, "postal code is required")
	}
	return nil
}

type ReconstructParams struct {
	ID                 uuid.UUID
	Number             string
	CustomerID         uuid.UUID
	Items              []LineItem
	Subtotal           int64
	ShippingCost       int64
	Discount           int64
	Total              int64
	Status             Status
	PaymentStatus      PaymentStatus
	PaymentMethod      PaymentMethod
	Address            Address
	Shipment           *Shipment
	CancelReason       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PaymentAt          *time.Time
	ConfirmedAt        *time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	ExpectedDeliveryAt *time.Time
}

// Reconstruct rebuilds an order from storage without re-running validation.
func Reconstruct(p ReconstructParams) *Order {
	return &Order{
		id:                 p.ID,
		number:             p.Number,
		customerID:         p.CustomerID,
		items:              p.Items,
		subtotal:           p.Subtotal,
		shippingCost:       p.ShippingCost,
		discount:           p.Discount,
		total:              p.Total,
		status:             p.Status,
		paymentStatus:      p.PaymentStatus,
		paymentMethod:      p.PaymentMethod,
		address:            p.Address,
		shipment:           p.Shipment,
		cancelReason:       p.CancelReason,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		paymentAt:          p.PaymentAt,
		confirmedAt:        p.ConfirmedAt,
		shippedAt:          p.ShippedAt,
		deliveredAt:        p.DeliveredAt,
		cancelledAt:        p.CancelledAt,
		expectedDeliveryAt: p.ExpectedDeliveryAt,
	}
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) Number() string               { return o.number }
func (o *Order) CustomerID() uuid.UUID        { return o.customerID }
func (o *Order) Subtotal() int64              { return o.subtotal }
func (o *Order) ShippingCost() int64          { return o.shippingCost }
func (o *Order) Discount() int64              { return o.discount }
func (o *Order) Total() int64                 { return o.total }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) Address() Address             { return o.address }
func (o *Order) CancelReason() string         { return o.cancelReason }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
func (o *Order) PaymentAt() *time.Time        { return copyTime(o.paymentAt) }
func (o *Order) ConfirmedAt() *time.Time      { return copyTime(o.confirmedAt) }
func (o *Order) ShippedAt() *time.Time        { return copyTime(o.shippedAt) }
func (o *Order) DeliveredAt() *time.Time      { return copyTime(o.deliveredAt) }
func (o *Order) CancelledAt() *time.Time      { return copyTime(o.cancelledAt) }
func (o *Order) ExpectedDeliveryAt() *time.Time {
	return copyTime(o.expectedDeliveryAt)
}

func (o *Order) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Shipment() *Shipment {
	if o.shipment == nil {
		return nil
	}
	s := *o.shipment
	return &s
}

func (o *Order) TrackingNumber() string {
	if o.shipment == nil {
		return ""
	}
	return o.shipment.TrackingNumber
}

func (o *Order) Carrier() string {
	if o.shipment == nil {
		return ""
	}
	return o.shipment.Carrier
}

func (o *Order) IsCOD() bool {
	return o.paymentMethod == PaymentMethodCOD
}

// TotalWeightGrams falls back to defaultGrams per unit for items without a weight.
func (o *Order) TotalWeightGrams(defaultGrams int) int {
	total := 0
	for _, li := range o.items {
		w := li.WeightGrams
		if w == 0 {
			w = defaultGrams
		}
		total += w * li.Quantity
	}
	return total
}

func stamp(t time.Time) *time.Time {
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
