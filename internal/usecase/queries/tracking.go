package queries

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/clock"
	"order-tracker/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=tracking.go -destination=../../../tests/mock/queries/tracking_mock.go -package=queriesmock

var ErrInvalidTrackingNumber = errs.Mark(errs.New("invalid tracking number"), errs.ErrValidation)

var trackingNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]{4,40}$`)

type CarrierResolver interface {
	Get(code string) (carrier.Carrier, error)
	All() []carrier.Carrier
}

type TrackingCache interface {
	Get(carrier, trackingNumber string) (tracking.CanonicalTracking, bool)
	Put(t tracking.CanonicalTracking)
}

type TrackingObserver interface {
	TrackingServed(source string)
}

// TrackingResult is a canonical tracking answer decorated for clients.
type TrackingResult struct {
	Tracking    tracking.CanonicalTracking
	TrackingURL string
	Progress    int
	NextPoll    time.Duration
}

type TrackingQueries interface {
	Track(ctx context.Context, trackingNumber, carrierCode string) (*TrackingResult, error)
}

type trackingQueriesImpl struct {
	carriers CarrierResolver
	cache    TrackingCache
	observer TrackingObserver
	clock    clock.Clock
	timeout  time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

func NewTrackingQueries(
	carriers CarrierResolver,
	cache TrackingCache,
	observer TrackingObserver,
	clk clock.Clock,
	timeout time.Duration,
	logger *slog.Logger,
) TrackingQueries {
	if logger == nil {
		logger = slog.Default()
	}
	return &trackingQueriesImpl{
		carriers: carriers,
		cache:    cache,
		observer: observer,
		clock:    clk,
		timeout:  timeout,
		logger:   logger,
	}
}

// Track never fails because of the carrier: when the live lookup fails the
// last cached answer is served, and without one a synthetic history. Only an
// invalid tracking number or an unknown carrier is an error.
func (q *trackingQueriesImpl) Track(ctx context.Context, trackingNumber, carrierCode string) (*TrackingResult, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if !trackingNumberPattern.MatchString(trackingNumber) {
		return nil, errs.Wrapf(ErrInvalidTrackingNumber, "%q", trackingNumber)
	}
	c, err := q.carriers.Get(carrierCode)
	if err != nil {
		return nil, err
	}

	key := c.Code() + "/" + trackingNumber
	v, err, _ := q.group.Do(key, func() (any, error) {
		// Shared by every waiting caller, so it must not die with the first one.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
		defer cancel()
		return c.TrackShipment(callCtx, trackingNumber)
	})

	var result tracking.CanonicalTracking
	switch {
	case err == nil:
		result = v.(tracking.CanonicalTracking).WithSource(tracking.SourceLive)
		if q.cache != nil {
			q.cache.Put(result)
		}
	default:
		result = q.fallback(c.Code(), trackingNumber, err)
	}
	if q.observer != nil {
		q.observer.TrackingServed(string(result.Source))
	}

	return &TrackingResult{
		Tracking:    result,
		TrackingURL: c.TrackingURL(trackingNumber),
		Progress:    result.Status.Progress(),
		NextPoll:    result.Status.NextPollInterval(),
	}, nil
}

func (q *trackingQueriesImpl) fallback(carrierCode, trackingNumber string, cause error) tracking.CanonicalTracking {
	if q.cache != nil {
		if cached, ok := q.cache.Get(carrierCode, trackingNumber); ok {
			q.logger.Warn("carrier tracking failed, serving cached result",
				"carrier", carrierCode, "tracking_number", trackingNumber, "error", cause)
			return cached.WithSource(tracking.SourceCached)
		}
	}
	q.logger.Warn("carrier tracking failed, serving synthetic history",
		"carrier", carrierCode, "tracking_number", trackingNumber, "error", cause)
	return tracking.Synthetic(trackingNumber, carrierCode, q.clock.Now())
}
