//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/queries"
	carriermock "order-tracker/tests/mock/carrier"
	queriesmock "order-tracker/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var policy = queries.RatePolicy{
	PickupPostalCode:       "110001",
	FreeShippingThreshold:  99900,
	FlatShippingFee:        9900,
	DefaultItemWeightGrams: 500,
	Timeout:                time.Second,
}

func rateRequest(unitPrice int64) queries.RateRequest {
	return queries.RateRequest{
		DestinationPostalCode: "560001",
		Items:                 []carrier.CartItem{{Quantity: 2, UnitPrice: unitPrice}},
	}
}

func newCarrier(ctrl *gomock.Controller, code string, quotes []shipping.Quote, err error) *carriermock.MockCarrier {
	c := carriermock.NewMockCarrier(ctrl)
	c.EXPECT().Code().Return(code).AnyTimes()
	c.EXPECT().Quote(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req carrier.QuoteRequest) ([]shipping.Quote, error) {
			if req.PickupPostalCode != policy.PickupPostalCode || req.DefaultWeightGrams != policy.DefaultItemWeightGrams {
				return nil, errs.New("unexpected request")
			}
			return quotes, err
		})
	return c
}

func TestRateQueries_Quote(t *testing.T) {
	ctx := context.Background()
	surface := shipping.Quote{CourierID: 9001, CourierName: "Delhivery Surface", Carrier: "delhivery", Total: 7500, IsSurface: true}
	express := shipping.Quote{CourierID: 9002, CourierName: "Delhivery Express", Carrier: "delhivery", Total: 12000, IsAir: true}
	bluedart := shipping.Quote{CourierID: 24, CourierName: "Bluedart", Carrier: "shiprocket", Total: 9800, IsAir: true}

	testCases := []struct {
		name             string
		unitPrice        int64
		delhivery        error
		shiprocket       error
		selected         int
		expectedQuotes   []shipping.Quote
		expectedCovered  int64
		expectedEffectiv int64
		expectedCheapest *shipping.Quote
		expectFallback   bool
	}{
		{
			name:             "success: below threshold surfaces the cheapest quote",
			unitPrice:        20000,
			expectedQuotes:   []shipping.Quote{surface, bluedart, express},
			expectedEffectiv: 7500,
			expectedCheapest: &surface,
		},
		{
			name:             "success: above threshold the merchant covers the cheapest quote",
			unitPrice:        60000,
			expectedQuotes:   []shipping.Quote{surface, bluedart, express},
			expectedCovered:  7500,
			expectedCheapest: &surface,
		},
		{
			name:             "success: selected quote below threshold is paid by the customer",
			unitPrice:        20000,
			selected:         24,
			expectedQuotes:   []shipping.Quote{surface, bluedart, express},
			expectedEffectiv: 9800,
		},
		{
			name:             "success: one failing carrier is left out",
			unitPrice:        20000,
			delhivery:        carrier.ErrCarrierUnavailable,
			expectedQuotes:   []shipping.Quote{bluedart},
			expectedEffectiv: 9800,
			expectedCheapest: &bluedart,
		},
		{
			name:             "success: all carriers failing falls back to the flat fee",
			unitPrice:        20000,
			delhivery:        carrier.ErrCarrierUnavailable,
			shiprocket:       carrier.ErrCarrierUnavailable,
			expectedQuotes:   []shipping.Quote{},
			expectedEffectiv: 9900,
			expectFallback:   true,
		},
		{
			name:            "success: flat fee fallback above threshold is free",
			unitPrice:       60000,
			delhivery:       carrier.ErrCarrierUnavailable,
			shiprocket:      carrier.ErrCarrierUnavailable,
			expectedQuotes:  []shipping.Quote{},
			expectedCovered: 9900,
			expectFallback:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			var dq, sq []shipping.Quote
			if tc.delhivery == nil {
				dq = []shipping.Quote{express, surface}
			}
			if tc.shiprocket == nil {
				sq = []shipping.Quote{bluedart}
			}
			carriers := queriesmock.NewMockCarrierResolver(ctrl)
			carriers.EXPECT().All().Return([]carrier.Carrier{
				newCarrier(ctrl, "delhivery", dq, tc.delhivery),
				newCarrier(ctrl, "shiprocket", sq, tc.shiprocket),
			})
			observer := queriesmock.NewMockRateObserver(ctrl)
			if tc.expectFallback {
				observer.EXPECT().RateFallback()
			}
			q := queries.NewRateQueries(carriers, policy, observer, nil)

			req := rateRequest(tc.unitPrice)
			req.SelectedCourierID = tc.selected
			res, err := q.Quote(ctx, req)

			require.NoError(t, err)
			if diff := cmp.Diff(tc.expectedQuotes, res.Quotes); diff != "" {
				t.Errorf("quotes mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.unitPrice*2, res.Subtotal)
			assert.Equal(t, tc.expectFallback, res.IsFallback)
			assert.Equal(t, tc.expectedCovered, res.Coverage.CoveredAmount)
			assert.Equal(t, tc.expectedEffectiv, res.Coverage.EffectiveShipping)
			assert.Equal(t, policy.FreeShippingThreshold, res.Coverage.Threshold)
			assert.Equal(t, tc.expectedCheapest, res.Coverage.CheapestRate)
		})
	}
}

func TestRateQueries_Validation(t *testing.T) {
	testCases := []struct {
		name string
		req  queries.RateRequest
	}{
		{name: "error: malformed postal code", req: queries.RateRequest{DestinationPostalCode: "56001", Items: []carrier.CartItem{{Quantity: 1}}}},
		{name: "error: empty cart", req: queries.RateRequest{DestinationPostalCode: "560001"}},
		{name: "error: zero quantity", req: queries.RateRequest{DestinationPostalCode: "560001", Items: []carrier.CartItem{{Quantity: 0, UnitPrice: 100}}}},
		{name: "error: negative declared value", req: queries.RateRequest{DestinationPostalCode: "560001", Items: []carrier.CartItem{{Quantity: 1}}, DeclaredValue: -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			q := queries.NewRateQueries(queriesmock.NewMockCarrierResolver(ctrl), policy, nil, nil)

			_, err := q.Quote(context.Background(), tc.req)

			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}
}

func TestRateQueries_UnknownSelectedCourier(t *testing.T) {
	ctrl := gomock.NewController(t)
	carriers := queriesmock.NewMockCarrierResolver(ctrl)
	carriers.EXPECT().All().Return([]carrier.Carrier{
		newCarrier(ctrl, "shiprocket", []shipping.Quote{{CourierID: 24, Carrier: "shiprocket", Total: 100}}, nil),
	})
	q := queries.NewRateQueries(carriers, policy, nil, nil)

	req := rateRequest(1000)
	req.SelectedCourierID = 77
	_, err := q.Quote(context.Background(), req)

	assert.True(t, errs.Is(err, queries.ErrUnknownCourier))
}

func TestRateQueries_NoCourierServesDestination(t *testing.T) {
	ctrl := gomock.NewController(t)
	carriers := queriesmock.NewMockCarrierResolver(ctrl)
	carriers.EXPECT().All().Return([]carrier.Carrier{
		newCarrier(ctrl, "delhivery", []shipping.Quote{}, nil),
		newCarrier(ctrl, "shiprocket", nil, nil),
	})
	observer := queriesmock.NewMockRateObserver(ctrl)
	observer.EXPECT().RateFallback()
	q := queries.NewRateQueries(carriers, policy, observer, nil)

	res, err := q.Quote(context.Background(), rateRequest(20000))

	require.NoError(t, err)
	assert.True(t, res.IsFallback)
	assert.Empty(t, res.Quotes)
	assert.Equal(t, int64(40000), res.Subtotal)
	assert.Equal(t, int64(0), res.Coverage.CoveredAmount)
	assert.Equal(t, policy.FlatShippingFee, res.Coverage.EffectiveShipping, "below the threshold shipping is never free")
	assert.Nil(t, res.Coverage.CheapestRate)
}
