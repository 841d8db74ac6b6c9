package queries

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=rates.go -destination=../../../tests/mock/queries/rates_mock.go -package=queriesmock

var ErrUnknownCourier = errs.Mark(errs.New("selected courier was not quoted"), errs.ErrValidation)

type RateObserver interface {
	RateFallback()
}

type RatePolicy struct {
	PickupPostalCode       string
	FreeShippingThreshold  int64
	FlatShippingFee        int64
	DefaultItemWeightGrams int
	Timeout                time.Duration
}

type RateRequest struct {
	DestinationPostalCode string
	Items                 []carrier.CartItem
	CollectOnDelivery     bool
	DeclaredValue         int64
	SelectedCarrier       string
	SelectedCourierID     int
}

type RateResult struct {
	Quotes     []shipping.Quote
	Coverage   shipping.CoverageResult
	Subtotal   int64
	IsFallback bool
}

type RateQueries interface {
	Quote(ctx context.Context, req RateRequest) (*RateResult, error)
}

type rateQueriesImpl struct {
	carriers CarrierResolver
	policy   RatePolicy
	observer RateObserver
	logger   *slog.Logger
}

func NewRateQueries(carriers CarrierResolver, policy RatePolicy, observer RateObserver, logger *slog.Logger) RateQueries {
	if logger == nil {
		logger = slog.Default()
	}
	return &rateQueriesImpl{carriers: carriers, policy: policy, observer: observer, logger: logger}
}

// Quote asks every carrier concurrently. Carriers that fail are left out;
// when none answers, or none offers a courier, the flat fee policy applies
// and IsFallback is set.
func (q *rateQueriesImpl) Quote(ctx context.Context, req RateRequest) (*RateResult, error) {
	cr := carrier.QuoteRequest{
		PickupPostalCode:      q.policy.PickupPostalCode,
		DestinationPostalCode: strings.TrimSpace(req.DestinationPostalCode),
		Items:                 req.Items,
		CollectOnDelivery:     req.CollectOnDelivery,
		DeclaredValue:         req.DeclaredValue,
		DefaultWeightGrams:    q.policy.DefaultItemWeightGrams,
	}
	if err := cr.Validate(); err != nil {
		return nil, err
	}
	subtotal := cr.ItemsValue()

	quotes, err := q.collect(ctx, cr)
	if err != nil {
		q.logger.Warn("no carrier could quote, applying flat fee", "destination", cr.DestinationPostalCode, "error", err)
		return q.fallback(subtotal), nil
	}
	if len(quotes) == 0 {
		q.logger.Warn("destination not serviceable by any carrier, applying flat fee", "destination", cr.DestinationPostalCode)
		return q.fallback(subtotal), nil
	}
	shipping.SortQuotes(quotes)

	var selected *shipping.Quote
	if req.SelectedCourierID != 0 {
		for i := range quotes {
			if quotes[i].CourierID == req.SelectedCourierID &&
				(req.SelectedCarrier == "" || strings.EqualFold(quotes[i].Carrier, req.SelectedCarrier)) {
				selected = &quotes[i]
				break
			}
		}
		if selected == nil {
			return nil, errs.Wrapf(ErrUnknownCourier, "courier %d", req.SelectedCourierID)
		}
	}

	return &RateResult{
		Quotes:   quotes,
		Coverage: shipping.ComputeCoverage(subtotal, selected, quotes, q.policy.FreeShippingThreshold),
		Subtotal: subtotal,
	}, nil
}

func (q *rateQueriesImpl) fallback(subtotal int64) *RateResult {
	if q.observer != nil {
		q.observer.RateFallback()
	}
	return &RateResult{
		Quotes:     []shipping.Quote{},
		Coverage:   shipping.FlatCoverage(subtotal, q.policy.FreeShippingThreshold, q.policy.FlatShippingFee),
		Subtotal:   subtotal,
		IsFallback: true,
	}
}

func (q *rateQueriesImpl) collect(ctx context.Context, req carrier.QuoteRequest) ([]shipping.Quote, error) {
	carriers := q.carriers.All()
	if len(carriers) == 0 {
		return nil, errs.Wrap(carrier.ErrCarrierUnavailable, "no carriers configured")
	}
	if q.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.policy.Timeout)
		defer cancel()
	}

	var (
		mu       sync.Mutex
		quotes   []shipping.Quote
		failures []error
	)
	var g errgroup.Group
	for _, c := range carriers {
		g.Go(func() error {
			got, err := c.Quote(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, errs.Wrapf(err, "carrier %s", c.Code()))
				return nil
			}
			quotes = append(quotes, got...)
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == len(carriers) {
		return nil, errs.Mark(errs.Wrapf(failures[0], "%d of %d carriers failed", len(failures), len(carriers)), carrier.ErrCarrierUnavailable)
	}
	for _, err := range failures {
		q.logger.Warn("carrier quote failed", "error", err)
	}
	return quotes, nil
}
