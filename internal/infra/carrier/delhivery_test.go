//go:build unit

package carrier_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDelhivery(t *testing.T, mux *http.ServeMux) *carrier.Delhivery {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return carrier.NewDelhivery(carrier.DelhiveryConfig{
		BaseURL:          server.URL,
		Token:            "dl-token",
		PickupLocation:   "Primary",
		PickupPostalCode: "110001",
	}, server.Client())
}

func TestDelhiveryQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kinko/v1/invoice/charges/.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token dl-token", r.Header.Get("Authorization"))
		assert.Equal(t, "800", r.URL.Query().Get("cgm"))
		switch r.URL.Query().Get("md") {
		case "S":
			writeJSON(w, http.StatusOK, []map[string]any{{"total_amount": 85.5, "charge_DL": 70, "charge_COD": 0}})
		default:
			writeJSON(w, http.StatusOK, []map[string]any{{"total_amount": 140, "charge_DL": 120, "charge_COD": 0}})
		}
	})
	d := newDelhivery(t, mux)

	quotes, err := d.Quote(context.Background(), quoteRequest())
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "Delhivery Surface", quotes[0].CourierName)
	assert.True(t, quotes[0].IsSurface)
	assert.Equal(t, int64(8550), quotes[0].Total)
	assert.Equal(t, int64(7000), quotes[0].FreightCharge)
	assert.Equal(t, int64(1550), quotes[0].OtherCharges)

	assert.Equal(t, "Delhivery Express", quotes[1].CourierName)
	assert.True(t, quotes[1].IsAir)
	assert.Equal(t, int64(14000), quotes[1].Total)
}

func TestDelhiveryQuotePartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kinko/v1/invoice/charges/.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("md") == "E" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"total_amount": 85, "charge_DL": 85}})
	})
	d := newDelhivery(t, mux)

	quotes, err := d.Quote(context.Background(), quoteRequest())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.True(t, quotes[0].IsSurface)
}

func TestDelhiveryQuoteBothModesFail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kinko/v1/invoice/charges/.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	d := newDelhivery(t, mux)

	_, err := d.Quote(context.Background(), quoteRequest())
	require.Error(t, err)
	assert.True(t, errs.Is(err, carrier.ErrCarrierUnavailable))
}

func TestDelhiveryTrackShipment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/packages/json/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DL555", r.URL.Query().Get("waybill"))
		writeJSON(w, http.StatusOK, map[string]any{
			"ShipmentData": []map[string]any{{
				"Shipment": map[string]any{
					"AWB":                  "DL555",
					"Status":               map[string]any{"Status": "Dispatched", "StatusType": "UD"},
					"ExpectedDeliveryDate": "2025-03-04T18:00:00",
					"Scans": []map[string]any{
						{"ScanDetail": map[string]any{"Scan": "Manifested", "ScanType": "UD", "ScanDateTime": "2025-03-01T11:00:00", "ScannedLocation": "Delhi_Hub"}},
						{"ScanDetail": map[string]any{"Scan": "Dispatched", "ScanType": "UD", "ScanDateTime": "2025-03-04T08:30:00.000", "ScannedLocation": "Bengaluru_DC", "Instructions": "Out for delivery"}},
					},
				},
			}},
		})
	})
	d := newDelhivery(t, mux)

	got, err := d.TrackShipment(context.Background(), "DL555")
	require.NoError(t, err)
	assert.Equal(t, tracking.StatusOutForDelivery, got.Status)
	assert.Equal(t, carrier.CodeDelhivery, got.Carrier)
	require.NotNil(t, got.EstimatedDelivery)
	require.Len(t, got.Events, 2)
	assert.Equal(t, tracking.StatusOrderPlaced, got.Events[0].Status)
	assert.Equal(t, "Out for delivery", got.Events[1].Remark)
}

func TestDelhiveryTrackShipmentUnknownWaybill(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/packages/json/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ShipmentData": []any{}, "Error": "No such waybill or Order Id found"})
	})
	d := newDelhivery(t, mux)

	_, err := d.TrackShipment(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errs.Is(err, carrier.ErrTrackingUnavailable))
}

func TestDelhiveryCreateShipment(t *testing.T) {
	t.Run("returns the waybill", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/cmu/create.json", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "json", r.PostForm.Get("format"))
			assert.Contains(t, r.PostForm.Get("data"), `"payment_mode":"COD"`)
			writeJSON(w, http.StatusOK, map[string]any{
				"success":  true,
				"packages": []map[string]any{{"waybill": "DL777", "status": "Success"}},
			})
		})
		d := newDelhivery(t, mux)

		req := shipmentRequest()
		req.PaymentMethod = order.PaymentMethodCOD
		res, err := d.CreateShipment(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "DL777", res.AWBNumber)
	})

	t.Run("reports remarks on rejection", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/cmu/create.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success":  false,
				"packages": []map[string]any{{"status": "Fail", "remarks": []string{"Non serviceable pincode"}}},
			})
		})
		d := newDelhivery(t, mux)

		res, err := d.CreateShipment(context.Background(), shipmentRequest())
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Non serviceable pincode", res.Error)
	})
}
