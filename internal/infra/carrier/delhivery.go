package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/pkg/money"

	"golang.org/x/sync/errgroup"
)

const CodeDelhivery = "delhivery"

// Delhivery has no courier ids of its own; the two service modes get fixed ones.
const (
	delhiverySurfaceID = 9001
	delhiveryExpressID = 9002
)

type DelhiveryConfig struct {
	BaseURL          string
	Token            string
	PickupLocation   string
	PickupPostalCode string
}

type Delhivery struct {
	api apiClient
	cfg DelhiveryConfig
	now func() time.Time
}

func NewDelhivery(cfg DelhiveryConfig, client *http.Client) *Delhivery {
	return &Delhivery{
		api: newAPIClient(client, cfg.BaseURL),
		cfg: cfg,
		now: time.Now,
	}
}

func (d *Delhivery) Code() string { return CodeDelhivery }

func (d *Delhivery) TrackingURL(trackingNumber string) string {
	return "https://www.delhivery.com/track/package/" + url.PathEscape(trackingNumber)
}

func (d *Delhivery) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Token "+d.cfg.Token)
	return h
}

type delhiveryCharge struct {
	TotalAmount float64 `json:"total_amount"`
	ChargeDL    float64 `json:"charge_DL"`
	ChargeCOD   float64 `json:"charge_COD"`
}

// Quote asks for surface and express charges concurrently. One failing mode
// still yields the other; both failing is ErrCarrierUnavailable.
func (d *Delhivery) Quote(ctx context.Context, req QuoteRequest) ([]shipping.Quote, error) {
	if d.cfg.Token == "" {
		return nil, errs.Wrap(ErrCarrierUnavailable, "delhivery token is not configured")
	}
	pickup := req.PickupPostalCode
	if pickup == "" {
		pickup = d.cfg.PickupPostalCode
	}

	modes := []struct {
		md      string
		id      int
		name    string
		surface bool
		days    int
	}{
		{md: "S", id: delhiverySurfaceID, name: "Delhivery Surface", surface: true, days: 5},
		{md: "E", id: delhiveryExpressID, name: "Delhivery Express", surface: false, days: 2},
	}
	results := make([]*shipping.Quote, len(modes))
	failures := make([]error, len(modes))

	var g errgroup.Group
	for i, m := range modes {
		g.Go(func() error {
			q := url.Values{}
			q.Set("md", m.md)
			q.Set("ss", "Delivered")
			q.Set("o_pin", pickup)
			q.Set("d_pin", req.DestinationPostalCode)
			q.Set("cgm", strconv.Itoa(req.WeightGrams()))
			if req.CollectOnDelivery {
				q.Set("pt", "COD")
				declared := req.DeclaredValue
				if declared == 0 {
					declared = req.ItemsValue()
				}
				q.Set("cod", money.Format(declared))
			} else {
				q.Set("pt", "Pre-paid")
			}

			var charges []delhiveryCharge
			if err := d.api.do(ctx, http.MethodGet, "/api/kinko/v1/invoice/charges/.json?"+q.Encode(), d.header(), nil, &charges); err != nil {
				failures[i] = err
				return nil
			}
			if len(charges) == 0 {
				return nil
			}
			c := charges[0]
			quote := shipping.Quote{
				CourierID:     m.id,
				CourierName:   m.name,
				Carrier:       CodeDelhivery,
				FreightCharge: money.FromMajor(c.ChargeDL),
				Total:         money.FromMajor(c.TotalAmount),
				EstimatedDays: m.days,
				IsSurface:     m.surface,
				IsAir:         !m.surface,
			}
			if req.CollectOnDelivery {
				quote.CODCharge = money.FromMajor(c.ChargeCOD)
			}
			if quote.Total < quote.ChargeSum() {
				quote.Total = quote.ChargeSum()
			}
			quote.OtherCharges = quote.Total - quote.FreightCharge - quote.CODCharge
			results[i] = &quote
			return nil
		})
	}
	_ = g.Wait()

	if failures[0] != nil && failures[1] != nil {
		return nil, errs.Mark(errs.Wrap(failures[0], "delhivery charges"), ErrCarrierUnavailable)
	}
	var quotes []shipping.Quote
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

type delhiveryTrackResponse struct {
	ShipmentData []struct {
		Shipment struct {
			AWB    string `json:"AWB"`
			Status struct {
				Status         string `json:"Status"`
				StatusType     string `json:"StatusType"`
				StatusDateTime string `json:"StatusDateTime"`
				StatusLocation string `json:"StatusLocation"`
				Instructions   string `json:"Instructions"`
			} `json:"Status"`
			ExpectedDeliveryDate string `json:"ExpectedDeliveryDate"`
			PromisedDeliveryDate string `json:"PromisedDeliveryDate"`
			Scans                []struct {
				ScanDetail struct {
					Scan            string `json:"Scan"`
					ScanType        string `json:"ScanType"`
					ScanDateTime    string `json:"ScanDateTime"`
					ScannedLocation string `json:"ScannedLocation"`
					Instructions    string `json:"Instructions"`
				} `json:"ScanDetail"`
			} `json:"Scans"`
		} `json:"Shipment"`
	} `json:"ShipmentData"`
	Error string `json:"Error"`
}

func (d *Delhivery) TrackShipment(ctx context.Context, trackingNumber string) (tracking.CanonicalTracking, error) {
	if d.cfg.Token == "" {
		return tracking.CanonicalTracking{}, errs.Wrap(ErrTrackingUnavailable, "delhivery token is not configured")
	}
	q := url.Values{}
	q.Set("waybill", trackingNumber)

	var resp delhiveryTrackResponse
	if err := d.api.do(ctx, http.MethodGet, "/api/v1/packages/json/?"+q.Encode(), d.header(), nil, &resp); err != nil {
		return tracking.CanonicalTracking{}, errs.Mark(errs.Wrap(err, "delhivery track"), ErrTrackingUnavailable)
	}
	if len(resp.ShipmentData) == 0 {
		msg := resp.Error
		if msg == "" {
			msg = "no shipment data"
		}
		return tracking.CanonicalTracking{}, errs.Wrapf(ErrTrackingUnavailable, "delhivery: %s", msg)
	}

	sh := resp.ShipmentData[0].Shipment
	result := tracking.CanonicalTracking{
		TrackingNumber: trackingNumber,
		Carrier:        CodeDelhivery,
		CourierName:    "Delhivery",
		Status:         MapDelhiveryStatus(sh.Status.Status, sh.Status.StatusType),
		Source:         tracking.SourceLive,
		FetchedAt:      d.now(),
	}
	for _, s := range sh.Scans {
		at, ok := parseCarrierTime(s.ScanDetail.ScanDateTime)
		if !ok {
			continue
		}
		status := MapDelhiveryStatus(s.ScanDetail.Scan, s.ScanDetail.ScanType)
		result.Events = append(result.Events, tracking.NewCarrierEvent(status, s.ScanDetail.ScannedLocation, s.ScanDetail.Instructions, at))
	}
	result.EstimatedDelivery = timePtr(sh.ExpectedDeliveryDate)
	if result.EstimatedDelivery == nil {
		result.EstimatedDelivery = timePtr(sh.PromisedDeliveryDate)
	}
	return result, nil
}

type delhiveryShipment struct {
	Name          string `json:"name"`
	Add           string `json:"add"`
	Pin           string `json:"pin"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	Order         string `json:"order"`
	PaymentMode   string `json:"payment_mode"`
	ProductsDesc  string `json:"products_desc"`
	CODAmount     string `json:"cod_amount"`
	OrderDate     string `json:"order_date"`
	TotalAmount   string `json:"total_amount"`
	Quantity      string `json:"quantity"`
	ShipmentWidth string `json:"shipment_width"`
	ShipmentHt    string `json:"shipment_height"`
	ShipmentLen   string `json:"shipment_length"`
	Weight        string `json:"weight"`
	ShippingMode  string `json:"shipping_mode"`
}

func (d *Delhivery) CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error) {
	if err := req.Validate(); err != nil {
		return ShipmentResult{}, err
	}
	if d.cfg.Token == "" {
		return ShipmentResult{}, errs.Wrap(ErrCarrierUnavailable, "delhivery token is not configured")
	}

	names := make([]string, len(req.Items))
	units := 0
	for i, li := range req.Items {
		names[i] = li.Name
		units += li.Quantity
	}
	l, b, h := req.dimensions()
	shipment := delhiveryShipment{
		Name:          req.Address.Name,
		Add:           strings.TrimSpace(req.Address.Line1 + " " + req.Address.Line2),
		Pin:           req.Address.PostalCode,
		City:          req.Address.City,
		State:         req.Address.State,
		Country:       countryName(req.Address.Country),
		Phone:         req.Address.Phone,
		Order:         req.OrderNumber,
		PaymentMode:   "Prepaid",
		ProductsDesc:  strings.Join(names, ", "),
		OrderDate:     req.OrderDate.In(ist).Format("2006-01-02 15:04:05"),
		TotalAmount:   money.Format(req.DeclaredValue),
		Quantity:      strconv.Itoa(units),
		ShipmentLen:   strconv.FormatFloat(l, 'f', -1, 64),
		ShipmentWidth: strconv.FormatFloat(b, 'f', -1, 64),
		ShipmentHt:    strconv.FormatFloat(h, 'f', -1, 64),
		Weight:        strconv.Itoa(req.WeightGrams),
		ShippingMode:  "Surface",
	}
	if req.CourierID == delhiveryExpressID {
		shipment.ShippingMode = "Express"
	}
	if req.PaymentMethod == order.PaymentMethodCOD {
		shipment.PaymentMode = "COD"
		shipment.CODAmount = money.Format(req.DeclaredValue)
	}

	data, err := json.Marshal(map[string]any{
		"shipments":       []delhiveryShipment{shipment},
		"pickup_location": map[string]string{"name": d.cfg.PickupLocation},
	})
	if err != nil {
		return ShipmentResult{}, errs.Wrap(err, "marshal delhivery manifest")
	}
	form := url.Values{}
	form.Set("format", "json")
	form.Set("data", string(data))

	header := d.header()
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		Success  bool   `json:"success"`
		RMK      string `json:"rmk"`
		Packages []struct {
			Waybill string   `json:"waybill"`
			Status  string   `json:"status"`
			Remarks []string `json:"remarks"`
		} `json:"packages"`
	}
	if err := d.api.do(ctx, http.MethodPost, "/api/cmu/create.json", header, strings.NewReader(form.Encode()), &resp); err != nil {
		if msg, ok := rejection(err); ok {
			return ShipmentResult{Error: msg}, nil
		}
		return ShipmentResult{}, errs.Mark(errs.Wrap(err, "delhivery create"), ErrCarrierUnavailable)
	}
	if !resp.Success || len(resp.Packages) == 0 || resp.Packages[0].Waybill == "" {
		msg := resp.RMK
		if len(resp.Packages) > 0 && len(resp.Packages[0].Remarks) > 0 {
			msg = strings.Join(resp.Packages[0].Remarks, "; ")
		}
		if msg == "" {
			msg = "manifest rejected"
		}
		return ShipmentResult{Error: msg}, nil
	}
	return ShipmentResult{
		Success:     true,
		AWBNumber:   resp.Packages[0].Waybill,
		CourierName: "Delhivery",
	}, nil
}

// MapDelhiveryStatus translates a Delhivery status and its status type
// (UD forward, PP pickup pending, PU picked up, DL delivered, RT return,
// CN cancelled). Unknown combinations are an Exception.
func MapDelhiveryStatus(status, statusType string) tracking.Status {
	s := strings.ToLower(strings.Join(strings.Fields(status), " "))
	switch strings.ToUpper(strings.TrimSpace(statusType)) {
	case "DL":
		if strings.Contains(s, "rto") {
			return tracking.StatusException
		}
		return tracking.StatusDelivered
	case "RT", "CN":
		return tracking.StatusException
	case "PP":
		return tracking.StatusOrderPlaced
	case "PU":
		return tracking.StatusPickedUp
	}

	switch s {
	case "manifested", "not picked", "open", "scheduled":
		return tracking.StatusOrderPlaced
	case "picked up", "picked":
		return tracking.StatusPickedUp
	case "in transit", "pending", "reached at destination hub":
		return tracking.StatusInTransit
	case "dispatched", "out for delivery":
		return tracking.StatusOutForDelivery
	case "delivered":
		return tracking.StatusDelivered
	}
	return tracking.StatusException
}
