//go:build unit

package queries_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/infra/cache"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/clock"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/queries"
	carriermock "order-tracker/tests/mock/carrier"
	queriesmock "order-tracker/tests/mock/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 4, 15, 20, 0, 0, time.UTC)

func liveTracking(awb string) tracking.CanonicalTracking {
	at := now.Add(-3 * time.Hour)
	return tracking.CanonicalTracking{
		TrackingNumber: awb,
		Carrier:        "shiprocket",
		Status:         tracking.StatusInTransit,
		Events:         []tracking.Event{tracking.NewCarrierEvent(tracking.StatusInTransit, "Bengaluru Hub", "Bag received", at)},
		Source:         tracking.SourceLive,
		FetchedAt:      now,
	}
}

type trackingFixture struct {
	carrier  *carriermock.MockCarrier
	carriers *queriesmock.MockCarrierResolver
	observer *queriesmock.MockTrackingObserver
	cache    *cache.TrackingCache
	q        queries.TrackingQueries
}

func newTrackingFixture(t *testing.T) *trackingFixture {
	ctrl := gomock.NewController(t)
	f := &trackingFixture{
		carrier:  carriermock.NewMockCarrier(ctrl),
		carriers: queriesmock.NewMockCarrierResolver(ctrl),
		observer: queriesmock.NewMockTrackingObserver(ctrl),
		cache:    cache.NewTrackingCache(16, time.Minute),
	}
	f.carrier.EXPECT().Code().Return("shiprocket").AnyTimes()
	f.carrier.EXPECT().TrackingURL(gomock.Any()).DoAndReturn(func(awb string) string {
		return "https://shiprocket.co/tracking/" + awb
	}).AnyTimes()
	f.carriers.EXPECT().Get(gomock.Any()).Return(f.carrier, nil).AnyTimes()
	f.q = queries.NewTrackingQueries(f.carriers, f.cache, f.observer, clock.NewMockClock(now), time.Second, nil)
	return f
}

func TestTrackingQueries_Track(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name           string
		primeCache     bool
		carrierErr     error
		expectedSource tracking.Source
		expectedMock   bool
	}{
		{
			name:           "success: live result",
			expectedSource: tracking.SourceLive,
		},
		{
			name:           "success: carrier outage serves the cached result",
			primeCache:     true,
			carrierErr:     carrier.ErrCarrierUnavailable,
			expectedSource: tracking.SourceCached,
		},
		{
			name:           "success: carrier outage without cache serves synthetic history",
			carrierErr:     carrier.ErrCarrierUnavailable,
			expectedSource: tracking.SourceSynthetic,
			expectedMock:   true,
		},
		{
			name:           "success: unknown tracking number serves synthetic history",
			carrierErr:     carrier.ErrTrackingUnavailable,
			expectedSource: tracking.SourceSynthetic,
			expectedMock:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTrackingFixture(t)
			if tc.primeCache {
				f.cache.Put(liveTracking("AWB1001"))
			}
			if tc.carrierErr != nil {
				f.carrier.EXPECT().TrackShipment(gomock.Any(), "AWB1001").Return(tracking.CanonicalTracking{}, tc.carrierErr)
			} else {
				f.carrier.EXPECT().TrackShipment(gomock.Any(), "AWB1001").Return(liveTracking("AWB1001"), nil)
			}
			f.observer.EXPECT().TrackingServed(string(tc.expectedSource))

			res, err := f.q.Track(ctx, " AWB1001 ", "")

			require.NoError(t, err)
			assert.Equal(t, tc.expectedSource, res.Tracking.Source)
			assert.Equal(t, tc.expectedMock, res.Tracking.IsMockData())
			assert.Equal(t, "https://shiprocket.co/tracking/AWB1001", res.TrackingURL)
			assert.Equal(t, res.Tracking.Status.Progress(), res.Progress)
			assert.Equal(t, res.Tracking.Status.NextPollInterval(), res.NextPoll)
			assert.NotEmpty(t, res.Tracking.Events)
		})
	}
}

func TestTrackingQueries_LiveResultIsCached(t *testing.T) {
	f := newTrackingFixture(t)
	f.carrier.EXPECT().TrackShipment(gomock.Any(), "AWB1001").Return(liveTracking("AWB1001"), nil)
	f.observer.EXPECT().TrackingServed("live")

	_, err := f.q.Track(context.Background(), "AWB1001", "shiprocket")
	require.NoError(t, err)

	cached, ok := f.cache.Get("shiprocket", "AWB1001")
	require.True(t, ok)
	assert.Equal(t, tracking.StatusInTransit, cached.Status)
}

func TestTrackingQueries_InvalidInput(t *testing.T) {
	testCases := []struct {
		name string
		awb  string
	}{
		{name: "error: empty", awb: ""},
		{name: "error: too short", awb: "AB"},
		{name: "error: illegal characters", awb: "AWB 10/01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTrackingFixture(t)
			_, err := f.q.Track(context.Background(), tc.awb, "")
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}
}

func TestTrackingQueries_UnknownCarrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	carriers := queriesmock.NewMockCarrierResolver(ctrl)
	carriers.EXPECT().Get("fedex").Return(nil, errs.Wrap(carrier.ErrUnknownCarrier, "carrier fedex"))
	q := queries.NewTrackingQueries(carriers, nil, nil, clock.NewMockClock(now), time.Second, nil)

	_, err := q.Track(context.Background(), "AWB1001", "fedex")

	assert.True(t, errs.Is(err, carrier.ErrUnknownCarrier))
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestTrackingQueries_ConcurrentLookupsShareOneCall(t *testing.T) {
	f := newTrackingFixture(t)
	release := make(chan struct{})
	var calls atomic.Int32
	f.carrier.EXPECT().TrackShipment(gomock.Any(), "AWB1001").
		DoAndReturn(func(context.Context, string) (tracking.CanonicalTracking, error) {
			calls.Add(1)
			<-release
			return liveTracking("AWB1001"), nil
		}).MinTimes(1).MaxTimes(5)
	f.observer.EXPECT().TrackingServed("live").Times(5)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.q.Track(context.Background(), "AWB1001", "")
			assert.NoError(t, err)
			assert.Equal(t, tracking.SourceLive, res.Tracking.Source)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
