package carrier

import (
	"context"
	"regexp"
	"strings"
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/pkg/errs"
)

//go:generate mockgen -source=carrier.go -destination=../../../tests/mock/carrier/carrier_mock.go -package=carriermock

var (
	ErrCarrierUnavailable  = errs.New("carrier unavailable")
	ErrTrackingUnavailable = errs.New("tracking unavailable")
	ErrUnknownCarrier      = errs.Mark(errs.New("unknown carrier"), errs.ErrValidation)
	ErrInvalidRequest      = errs.Mark(errs.New("invalid carrier request"), errs.ErrValidation)
)

// Carrier is the capability surface shared by every courier integration.
type Carrier interface {
	Code() string
	Quote(ctx context.Context, req QuoteRequest) ([]shipping.Quote, error)
	TrackShipment(ctx context.Context, trackingNumber string) (tracking.CanonicalTracking, error)
	CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error)
	TrackingURL(trackingNumber string) string
}

type CartItem struct {
	Quantity    int
	UnitPrice   int64
	WeightGrams int
}

type QuoteRequest struct {
	PickupPostalCode      string
	DestinationPostalCode string
	Items                 []CartItem
	CollectOnDelivery     bool
	DeclaredValue         int64
	DefaultWeightGrams    int
}

var postalCodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func ValidPostalCode(s string) bool {
	return postalCodePattern.MatchString(strings.TrimSpace(s))
}

func (r QuoteRequest) Validate() error {
	if !ValidPostalCode(r.DestinationPostalCode) {
		return errs.Wrapf(ErrInvalidRequest, "destination postal code %q", r.DestinationPostalCode)
	}
	if len(r.Items) == 0 {
		return errs.Wrap(ErrInvalidRequest, "cart is empty")
	}
	for i, it := range r.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 || it.WeightGrams < 0 {
			return errs.Wrapf(ErrInvalidRequest, "cart item %d", i)
		}
	}
	if r.DeclaredValue < 0 {
		return errs.Wrap(ErrInvalidRequest, "declared value must be non-negative")
	}
	return nil
}

// WeightGrams is the total cart weight, using DefaultWeightGrams per unit
// for items without one. The result is never below one gram.
func (r QuoteRequest) WeightGrams() int {
	total := 0
	for _, it := range r.Items {
		w := it.WeightGrams
		if w == 0 {
			w = r.DefaultWeightGrams
		}
		total += w * it.Quantity
	}
	return max(total, 1)
}

// ItemsValue is the cart value, used when no declared value is supplied.
func (r QuoteRequest) ItemsValue() int64 {
	var v int64
	for _, it := range r.Items {
		v += it.UnitPrice * int64(it.Quantity)
	}
	return v
}

type ShipmentRequest struct {
	OrderNumber   string
	OrderDate     time.Time
	Address       order.Address
	Items         []order.LineItem
	PaymentMethod order.PaymentMethod
	DeclaredValue int64
	WeightGrams   int
	LengthCM      float64
	BreadthCM     float64
	HeightCM      float64
	CourierID     int
}

// Validate runs before any carrier call.
func (r ShipmentRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.OrderNumber) == "":
		return errs.Wrap(ErrInvalidRequest, "order number is required")
	case r.DeclaredValue <= 0:
		return errs.Wrap(ErrInvalidRequest, "declared value is required")
	case r.WeightGrams <= 0:
		return errs.Wrap(ErrInvalidRequest, "weight is required")
	case strings.TrimSpace(r.Address.Name) == "",
		strings.TrimSpace(r.Address.Phone) == "",
		strings.TrimSpace(r.Address.Line1) == "",
		strings.TrimSpace(r.Address.City) == "",
		strings.TrimSpace(r.Address.State) == "",
		strings.TrimSpace(r.Address.PostalCode) == "":
		return errs.Wrap(ErrInvalidRequest, "delivery address is incomplete")
	case len(r.Items) == 0:
		return errs.Wrap(ErrInvalidRequest, "shipment has no items")
	}
	return nil
}

func (r ShipmentRequest) dimensions() (l, b, h float64) {
	l, b, h = r.LengthCM, r.BreadthCM, r.HeightCM
	if l <= 0 {
		l = 20
	}
	if b <= 0 {
		b = 15
	}
	if h <= 0 {
		h = 10
	}
	return l, b, h
}

// ShipmentResult reports a carrier-side rejection through Success and Error
// rather than as a Go error.
type ShipmentResult struct {
	Success           bool
	AWBNumber         string
	CourierName       string
	EstimatedDelivery *time.Time
	Error             string
}
