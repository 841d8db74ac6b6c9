package response

import (
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/pkg/money"
	"order-tracker/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

// Amounts are rendered as fixed two-decimal rupee strings.

type AddressResponse struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type ItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Variant   string  `json:"variant,omitempty"`
	UnitPrice *string `json:"unit_price,omitempty"`
	LineTotal *string `json:"line_total,omitempty"`
}

type ShipmentResponse struct {
	TrackingNumber string  `json:"tracking_number"`
	Carrier        string  `json:"carrier"`
	CourierName    string  `json:"courier_name,omitempty"`
	FreightCharge  *string `json:"freight_charge,omitempty"`
	CODCharge      *string `json:"cod_charge,omitempty"`
	OtherCharges   *string `json:"other_charges,omitempty"`
}

type OrderResponse struct {
	ID                 string            `json:"id,omitempty"`
	OrderNumber        string            `json:"order_number"`
	Status             string            `json:"status"`
	PaymentStatus      string            `json:"payment_status,omitempty"`
	PaymentMethod      string            `json:"payment_method,omitempty"`
	Items              []ItemResponse    `json:"items"`
	Subtotal           *string           `json:"subtotal,omitempty"`
	ShippingCost       *string           `json:"shipping_cost,omitempty"`
	Discount           *string           `json:"discount,omitempty"`
	Total              *string           `json:"total,omitempty"`
	Address            AddressResponse   `json:"address"`
	Shipment           *ShipmentResponse `json:"shipment,omitempty"`
	CancelReason       string            `json:"cancel_reason,omitempty"`
	AllowedTransitions []string          `json:"allowed_transitions,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	PaymentAt          *time.Time        `json:"payment_at,omitempty"`
	ConfirmedAt        *time.Time        `json:"confirmed_at,omitempty"`
	ShippedAt          *time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time        `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	ExpectedDeliveryAt *time.Time        `json:"expected_delivery_at,omitempty"`
}

// FromOrder projects o for the given access level. Public callers see no
// amounts and only the destination city; verified callers additionally see
// the delivery address; full access shows everything.
func FromOrder(o *order.Order, access queries.AccessLevel) (*OrderResponse, error) {
	full := access == queries.AccessFull

	res := &OrderResponse{
		OrderNumber:        o.Number(),
		Status:             o.Status().String(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		PaymentAt:          o.PaymentAt(),
		ConfirmedAt:        o.ConfirmedAt(),
		ShippedAt:          o.ShippedAt(),
		DeliveredAt:        o.DeliveredAt(),
		CancelledAt:        o.CancelledAt(),
		ExpectedDeliveryAt: o.ExpectedDeliveryAt(),
	}

	addr := o.Address()
	if access == queries.AccessPublic {
		res.Address = AddressResponse{City: addr.City, State: addr.State, PostalCode: addr.PostalCode, Country: addr.Country}
	} else if err := copier.Copy(&res.Address, &addr); err != nil {
		return nil, errs.Wrapf(err, "project address of order %s", o.Number())
	}

	res.Items = make([]ItemResponse, 0, len(o.Items()))
	for _, li := range o.Items() {
		item := ItemResponse{ProductID: li.ProductID, Name: li.Name, Quantity: li.Quantity, Variant: li.Variant}
		if full {
			item.UnitPrice = amount(li.UnitPrice)
			item.LineTotal = amount(li.LineTotal())
		}
		res.Items = append(res.Items, item)
	}

	if s := o.Shipment(); s != nil {
		res.Shipment = &ShipmentResponse{TrackingNumber: s.TrackingNumber, Carrier: s.Carrier, CourierName: s.CourierName}
		if full {
			res.Shipment.FreightCharge = amount(s.FreightCharge)
			res.Shipment.CODCharge = amount(s.CODCharge)
			res.Shipment.OtherCharges = amount(s.OtherCharges)
		}
	}

	if full {
		res.ID = o.ID().String()
		res.PaymentStatus = o.PaymentStatus().String()
		res.PaymentMethod = o.PaymentMethod().String()
		res.Subtotal = amount(o.Subtotal())
		res.ShippingCost = amount(o.ShippingCost())
		res.Discount = amount(o.Discount())
		res.Total = amount(o.Total())
		res.CancelReason = o.CancelReason()
		for _, s := range order.AllowedTargets(o.Status()) {
			res.AllowedTransitions = append(res.AllowedTransitions, s.String())
		}
	}
	return res, nil
}

type TrackingEventResponse struct {
	Label     string    `json:"label"`
	Status    string    `json:"status,omitempty"`
	Milestone string    `json:"milestone,omitempty"`
	Location  string    `json:"location,omitempty"`
	Remark    string    `json:"remark,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
	IsLive    bool      `json:"is_live"`
}

func FromEvents(events []tracking.Event) ([]TrackingEventResponse, error) {
	out := make([]TrackingEventResponse, 0, len(events))
	if err := copier.Copy(&out, &events); err != nil {
		return nil, errs.Wrap(err, "project tracking events")
	}
	return out, nil
}

type TrackingResponse struct {
	TrackingNumber    string                  `json:"tracking_number"`
	Carrier           string                  `json:"carrier"`
	CourierName       string                  `json:"courier_name,omitempty"`
	Status            string                  `json:"status"`
	EstimatedDelivery *time.Time              `json:"estimated_delivery,omitempty"`
	Events            []TrackingEventResponse `json:"events"`
	Source            string                  `json:"source"`
	IsMockData        bool                    `json:"isMockData"`
	TrackingURL       string                  `json:"tracking_url"`
	Progress          int                     `json:"progress"`
	NextPollSeconds   int64                   `json:"next_poll_seconds"`
	FetchedAt         time.Time               `json:"fetched_at"`
}

func FromTracking(r *queries.TrackingResult) (*TrackingResponse, error) {
	t := r.Tracking
	events, err := FromEvents(t.Events)
	if err != nil {
		return nil, err
	}
	return &TrackingResponse{
		TrackingNumber:    t.TrackingNumber,
		Carrier:           t.Carrier,
		CourierName:       t.CourierName,
		Status:            t.Status.String(),
		EstimatedDelivery: t.EstimatedDelivery,
		Events:            events,
		Source:            string(t.Source),
		IsMockData:        t.IsMockData(),
		TrackingURL:       r.TrackingURL,
		Progress:          r.Progress,
		NextPollSeconds:   int64(r.NextPoll.Seconds()),
		FetchedAt:         t.FetchedAt,
	}, nil
}

type HistoryResponse struct {
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status"`
	FromPayment string    `json:"from_payment,omitempty"`
	ToPayment   string    `json:"to_payment"`
	Note        string    `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type TimelineResponse struct {
	Access   string                  `json:"access"`
	Order    *OrderResponse          `json:"order"`
	Events   []TrackingEventResponse `json:"events"`
	Tracking *TrackingResponse       `json:"tracking,omitempty"`
	History  []HistoryResponse       `json:"history,omitempty"`
}

// FromTimeline applies the access projection. Public callers get the
// milestone entries only, without the live carrier feed.
func FromTimeline(tl *queries.OrderTimeline) (*TimelineResponse, error) {
	o, err := FromOrder(tl.Order, tl.Access)
	if err != nil {
		return nil, err
	}
	res := &TimelineResponse{Access: string(tl.Access), Order: o}

	events := tl.Events
	if tl.Access == queries.AccessPublic {
		events = make([]tracking.Event, 0, len(tl.Events))
		for _, e := range tl.Events {
			if !e.IsLive {
				events = append(events, e)
			}
		}
	} else if tl.Tracking != nil {
		if res.Tracking, err = FromTracking(tl.Tracking); err != nil {
			return nil, err
		}
	}
	if res.Events, err = FromEvents(events); err != nil {
		return nil, err
	}

	for _, c := range tl.History {
		res.History = append(res.History, HistoryResponse{
			FromStatus:  c.FromStatus.String(),
			ToStatus:    c.ToStatus.String(),
			FromPayment: c.FromPayment.String(),
			ToPayment:   c.ToPayment.String(),
			Note:        c.Note,
			OccurredAt:  c.OccurredAt,
		})
	}
	return res, nil
}

type QuoteResponse struct {
	CourierID        int     `json:"courier_id"`
	CourierName      string  `json:"courier_name"`
	Carrier          string  `json:"carrier"`
	FreightCharge    string  `json:"freight_charge"`
	CODCharge        string  `json:"cod_charge"`
	OtherCharges     string  `json:"other_charges"`
	Total            string  `json:"total"`
	EstimatedTransit string  `json:"estimated_transit,omitempty"`
	EstimatedDays    int     `json:"estimated_days,omitempty"`
	IsSurface        bool    `json:"is_surface"`
	IsAir            bool    `json:"is_air"`
	Rating           float64 `json:"rating,omitempty"`
}

func FromQuote(q shipping.Quote) QuoteResponse {
	return QuoteResponse{
		CourierID:        q.CourierID,
		CourierName:      q.CourierName,
		Carrier:          q.Carrier,
		FreightCharge:    money.Format(q.FreightCharge),
		CODCharge:        money.Format(q.CODCharge),
		OtherCharges:     money.Format(q.OtherCharges),
		Total:            money.Format(q.Total),
		EstimatedTransit: q.EstimatedTransit,
		EstimatedDays:    q.EstimatedDays,
		IsSurface:        q.IsSurface,
		IsAir:            q.IsAir,
		Rating:           q.Rating,
	}
}

type RateResponse struct {
	Quotes            []QuoteResponse `json:"quotes"`
	Subtotal          string          `json:"subtotal"`
	CoveredAmount     string          `json:"covered_amount"`
	EffectiveShipping string          `json:"effective_shipping"`
	CheapestRate      *QuoteResponse  `json:"cheapest_rate"`
	Threshold         string          `json:"threshold"`
	IsFallback        bool            `json:"is_fallback"`
}

func FromRates(r *queries.RateResult) *RateResponse {
	res := &RateResponse{
		Quotes:            make([]QuoteResponse, 0, len(r.Quotes)),
		Subtotal:          money.Format(r.Subtotal),
		CoveredAmount:     money.Format(r.Coverage.CoveredAmount),
		EffectiveShipping: money.Format(r.Coverage.EffectiveShipping),
		Threshold:         money.Format(r.Coverage.Threshold),
		IsFallback:        r.IsFallback,
	}
	for _, q := range r.Quotes {
		res.Quotes = append(res.Quotes, FromQuote(q))
	}
	if r.Coverage.CheapestRate != nil {
		q := FromQuote(*r.Coverage.CheapestRate)
		res.CheapestRate = &q
	}
	return res
}

type CreateShipmentResponse struct {
	Success bool           `json:"success"`
	Order   *OrderResponse `json:"order,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func amount(minor int64) *string {
	s := money.Format(minor)
	return &s
}
