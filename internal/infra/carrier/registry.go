package carrier

import (
	"context"
	"sort"
	"strings"
	"time"

	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/pkg/errs"
)

// Observer receives one sample per carrier call.
type Observer interface {
	ObserveCarrierCall(carrier, operation, outcome string, elapsed time.Duration)
}

// Registry is the closed set of carriers the service can talk to.
type Registry struct {
	carriers map[string]Carrier
	codes    []string
	primary  string
}

func NewRegistry(primary string, obs Observer, carriers ...Carrier) (*Registry, error) {
	r := &Registry{carriers: make(map[string]Carrier, len(carriers))}
	for _, c := range carriers {
		code := strings.ToLower(c.Code())
		if _, dup := r.carriers[code]; dup {
			return nil, errs.Newf("carrier %q registered twice", code)
		}
		if obs != nil {
			c = &observed{Carrier: c, obs: obs}
		}
		r.carriers[code] = c
		r.codes = append(r.codes, code)
	}
	sort.Strings(r.codes)

	r.primary = strings.ToLower(primary)
	if _, ok := r.carriers[r.primary]; !ok {
		return nil, errs.Wrapf(ErrUnknownCarrier, "primary carrier %q", primary)
	}
	return r, nil
}

// Get resolves a carrier code; the empty code selects the primary carrier.
func (r *Registry) Get(code string) (Carrier, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		code = r.primary
	}
	c, ok := r.carriers[code]
	if !ok {
		return nil, errs.Wrapf(ErrUnknownCarrier, "carrier %q", code)
	}
	return c, nil
}

func (r *Registry) Primary() Carrier {
	return r.carriers[r.primary]
}

func (r *Registry) All() []Carrier {
	out := make([]Carrier, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.carriers[code])
	}
	return out
}

func (r *Registry) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

type observed struct {
	Carrier
	obs Observer
}

func (o *observed) Quote(ctx context.Context, req QuoteRequest) ([]shipping.Quote, error) {
	start := time.Now()
	q, err := o.Carrier.Quote(ctx, req)
	o.obs.ObserveCarrierCall(o.Code(), "quote", outcome(err), time.Since(start))
	return q, err
}

func (o *observed) TrackShipment(ctx context.Context, trackingNumber string) (tracking.CanonicalTracking, error) {
	start := time.Now()
	t, err := o.Carrier.TrackShipment(ctx, trackingNumber)
	o.obs.ObserveCarrierCall(o.Code(), "track", outcome(err), time.Since(start))
	return t, err
}

func (o *observed) CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error) {
	start := time.Now()
	res, err := o.Carrier.CreateShipment(ctx, req)
	result := outcome(err)
	if err == nil && !res.Success {
		result = "rejected"
	}
	o.obs.ObserveCarrierCall(o.Code(), "create_shipment", result, time.Since(start))
	return res, err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
