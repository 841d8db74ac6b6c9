package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/shipping"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/pkg/money"
)

const (
	CodeShiprocket = "shiprocket"

	// Shiprocket tokens are valid for ten days; refresh well before that.
	shiprocketTokenTTL = 9 * 24 * time.Hour
)

type ShiprocketConfig struct {
	BaseURL          string
	Email            string
	Password         string
	PickupLocation   string
	PickupPostalCode string
}

type Shiprocket struct {
	api apiClient
	cfg ShiprocketConfig
	now func() time.Time

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewShiprocket(cfg ShiprocketConfig, client *http.Client) *Shiprocket {
	return &Shiprocket{
		api: newAPIClient(client, cfg.BaseURL),
		cfg: cfg,
		now: time.Now,
	}
}

func (s *Shiprocket) Code() string { return CodeShiprocket }

func (s *Shiprocket) TrackingURL(trackingNumber string) string {
	return "https://shiprocket.co/tracking/" + url.PathEscape(trackingNumber)
}

func (s *Shiprocket) login(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.tokenExp) {
		return s.token, nil
	}
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return "", errs.Wrap(ErrCarrierUnavailable, "shiprocket credentials are not configured")
	}

	var resp struct {
		Token string `json:"token"`
	}
	in := map[string]string{"email": s.cfg.Email, "password": s.cfg.Password}
	if err := s.api.doJSON(ctx, http.MethodPost, "/auth/login", nil, in, &resp); err != nil {
		return "", errs.Mark(errs.Wrap(err, "shiprocket login"), ErrCarrierUnavailable)
	}
	if resp.Token == "" {
		return "", errs.Wrap(ErrCarrierUnavailable, "shiprocket login returned no token")
	}
	s.token = resp.Token
	s.tokenExp = s.now().Add(shiprocketTokenTTL)
	return s.token, nil
}

func (s *Shiprocket) dropToken() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// call issues an authenticated request, logging in again once on 401.
func (s *Shiprocket) call(ctx context.Context, method, path string, in, out any) error {
	for attempt := 0; ; attempt++ {
		token, err := s.login(ctx)
		if err != nil {
			return err
		}
		header := http.Header{}
		header.Set("Authorization", "Bearer "+token)

		err = s.api.doJSON(ctx, method, path, header, in, out)
		var ue *UpstreamError
		if attempt == 0 && errs.As(err, &ue) && ue.StatusCode == http.StatusUnauthorized {
			s.dropToken()
			continue
		}
		return err
	}
}

type shiprocketCourier struct {
	CourierCompanyID      int         `json:"courier_company_id"`
	CourierName           string      `json:"courier_name"`
	FreightCharge         float64     `json:"freight_charge"`
	CODCharges            float64     `json:"cod_charges"`
	Rate                  float64     `json:"rate"`
	ETD                   string      `json:"etd"`
	EstimatedDeliveryDays json.Number `json:"estimated_delivery_days"`
	IsSurface             bool        `json:"is_surface"`
	Rating                float64     `json:"rating"`
}

func (s *Shiprocket) Quote(ctx context.Context, req QuoteRequest) ([]shipping.Quote, error) {
	pickup := req.PickupPostalCode
	if pickup == "" {
		pickup = s.cfg.PickupPostalCode
	}
	declared := req.DeclaredValue
	if declared == 0 {
		declared = req.ItemsValue()
	}
	q := url.Values{}
	q.Set("pickup_postcode", pickup)
	q.Set("delivery_postcode", req.DestinationPostalCode)
	q.Set("weight", strconv.FormatFloat(float64(req.WeightGrams())/1000, 'f', 3, 64))
	q.Set("cod", boolFlag(req.CollectOnDelivery))
	q.Set("declared_value", money.Format(declared))

	var resp struct {
		Status int `json:"status"`
		Data   struct {
			AvailableCourierCompanies []shiprocketCourier `json:"available_courier_companies"`
		} `json:"data"`
	}
	if err := s.call(ctx, http.MethodGet, "/courier/serviceability/?"+q.Encode(), nil, &resp); err != nil {
		var ue *UpstreamError
		if errs.As(err, &ue) && ue.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, errs.Mark(errs.Wrap(err, "shiprocket serviceability"), ErrCarrierUnavailable)
	}

	quotes := make([]shipping.Quote, 0, len(resp.Data.AvailableCourierCompanies))
	for _, c := range resp.Data.AvailableCourierCompanies {
		quotes = append(quotes, s.toQuote(c, req.CollectOnDelivery))
	}
	return quotes, nil
}

func (s *Shiprocket) toQuote(c shiprocketCourier, cod bool) shipping.Quote {
	q := shipping.Quote{
		CourierID:        c.CourierCompanyID,
		CourierName:      c.CourierName,
		Carrier:          CodeShiprocket,
		FreightCharge:    money.FromMajor(c.FreightCharge),
		EstimatedTransit: c.ETD,
		IsSurface:        c.IsSurface,
		IsAir:            !c.IsSurface,
		Rating:           c.Rating,
	}
	if cod {
		q.CODCharge = money.FromMajor(c.CODCharges)
	}
	if days, err := c.EstimatedDeliveryDays.Int64(); err == nil {
		q.EstimatedDays = int(days)
	}
	q.Total = money.FromMajor(c.Rate)
	if q.Total < q.ChargeSum() {
		q.Total = q.ChargeSum()
	}
	q.OtherCharges = q.Total - q.FreightCharge - q.CODCharge
	return q
}

type shiprocketTrackResponse struct {
	TrackingData struct {
		TrackStatus    int `json:"track_status"`
		ShipmentStatus int `json:"shipment_status"`
		ShipmentTrack  []struct {
			AWBCode       string `json:"awb_code"`
			CourierName   string `json:"courier_name"`
			CurrentStatus string `json:"current_status"`
			EDD           string `json:"edd"`
		} `json:"shipment_track"`
		Activities []struct {
			Date     string `json:"date"`
			Status   string `json:"status"`
			Activity string `json:"activity"`
			Location string `json:"location"`
			Label    string `json:"sr-status-label"`
		} `json:"shipment_track_activities"`
		ETD   string `json:"etd"`
		Error string `json:"error"`
	} `json:"tracking_data"`
}

func (s *Shiprocket) TrackShipment(ctx context.Context, trackingNumber string) (tracking.CanonicalTracking, error) {
	var resp shiprocketTrackResponse
	path := "/courier/track/awb/" + url.PathEscape(trackingNumber)
	if err := s.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return tracking.CanonicalTracking{}, errs.Mark(errs.Wrap(err, "shiprocket track"), ErrTrackingUnavailable)
	}
	td := resp.TrackingData
	if len(td.Activities) == 0 && len(td.ShipmentTrack) == 0 {
		msg := td.Error
		if msg == "" {
			msg = "no tracking data"
		}
		return tracking.CanonicalTracking{}, errs.Wrapf(ErrTrackingUnavailable, "shiprocket: %s", msg)
	}

	result := tracking.CanonicalTracking{
		TrackingNumber: trackingNumber,
		Carrier:        CodeShiprocket,
		Status:         tracking.StatusOrderPlaced,
		Source:         tracking.SourceLive,
		FetchedAt:      s.now(),
	}
	for _, a := range td.Activities {
		at, ok := parseCarrierTime(a.Date)
		if !ok {
			continue
		}
		native := a.Label
		if native == "" {
			native = a.Status
		}
		result.Events = append(result.Events, tracking.NewCarrierEvent(MapShiprocketStatus(native), a.Location, a.Activity, at))
	}
	if len(td.ShipmentTrack) > 0 {
		st := td.ShipmentTrack[0]
		result.CourierName = st.CourierName
		result.EstimatedDelivery = timePtr(st.EDD)
		if st.CurrentStatus != "" {
			result.Status = MapShiprocketStatus(st.CurrentStatus)
		}
	} else if latest, ok := result.Latest(); ok {
		result.Status = latest.Status
	}
	if result.EstimatedDelivery == nil {
		result.EstimatedDelivery = timePtr(td.ETD)
	}
	return result, nil
}

type shiprocketOrderItem struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Units        int    `json:"units"`
	SellingPrice string `json:"selling_price"`
}

func (s *Shiprocket) CreateShipment(ctx context.Context, req ShipmentRequest) (ShipmentResult, error) {
	if err := req.Validate(); err != nil {
		return ShipmentResult{}, err
	}
	items := make([]shiprocketOrderItem, len(req.Items))
	for i, li := range req.Items {
		sku := li.ProductID
		if li.Variant != "" {
			sku += "-" + li.Variant
		}
		items[i] = shiprocketOrderItem{Name: li.Name, SKU: sku, Units: li.Quantity, SellingPrice: money.Format(li.UnitPrice)}
	}
	first, last := splitName(req.Address.Name)
	l, b, h := req.dimensions()
	payload := map[string]any{
		"order_id":              req.OrderNumber,
		"order_date":            req.OrderDate.In(ist).Format("2006-01-02 15:04"),
		"pickup_location":       s.cfg.PickupLocation,
		"billing_customer_name": first,
		"billing_last_name":     last,
		"billing_address":       req.Address.Line1,
		"billing_address_2":     req.Address.Line2,
		"billing_city":          req.Address.City,
		"billing_pincode":       req.Address.PostalCode,
		"billing_state":         req.Address.State,
		"billing_country":       countryName(req.Address.Country),
		"billing_phone":         req.Address.Phone,
		"shipping_is_billing":   true,
		"order_items":           items,
		"payment_method":        paymentMode(req.PaymentMethod),
		"sub_total":             money.Format(req.DeclaredValue),
		"length":                l,
		"breadth":               b,
		"height":                h,
		"weight":                float64(req.WeightGrams) / 1000,
	}

	var created struct {
		OrderID    int64 `json:"order_id"`
		ShipmentID int64 `json:"shipment_id"`
	}
	if err := s.call(ctx, http.MethodPost, "/orders/create/adhoc", payload, &created); err != nil {
		if msg, ok := rejection(err); ok {
			return ShipmentResult{Error: msg}, nil
		}
		return ShipmentResult{}, errs.Mark(errs.Wrap(err, "shiprocket create order"), ErrCarrierUnavailable)
	}
	if created.ShipmentID == 0 {
		return ShipmentResult{Error: "carrier did not return a shipment id"}, nil
	}

	assign := map[string]any{"shipment_id": created.ShipmentID}
	if req.CourierID > 0 {
		assign["courier_id"] = req.CourierID
	}
	var assigned struct {
		AWBAssignStatus int    `json:"awb_assign_status"`
		Message         string `json:"message"`
		Response        struct {
			Data struct {
				AWBCode     string `json:"awb_code"`
				CourierName string `json:"courier_name"`
				ETD         string `json:"etd"`
			} `json:"data"`
		} `json:"response"`
	}
	if err := s.call(ctx, http.MethodPost, "/courier/assign/awb", assign, &assigned); err != nil {
		if msg, ok := rejection(err); ok {
			return ShipmentResult{Error: msg}, nil
		}
		return ShipmentResult{}, errs.Mark(errs.Wrap(err, "shiprocket assign awb"), ErrCarrierUnavailable)
	}
	data := assigned.Response.Data
	if assigned.AWBAssignStatus != 1 || data.AWBCode == "" {
		msg := assigned.Message
		if msg == "" {
			msg = "awb assignment failed"
		}
		return ShipmentResult{Error: msg}, nil
	}
	return ShipmentResult{
		Success:           true,
		AWBNumber:         data.AWBCode,
		CourierName:       data.CourierName,
		EstimatedDelivery: timePtr(data.ETD),
	}, nil
}

var shiprocketStatuses = map[string]tracking.Status{
	"NEW":                           tracking.StatusOrderPlaced,
	"AWB ASSIGNED":                  tracking.StatusOrderPlaced,
	"LABEL GENERATED":               tracking.StatusOrderPlaced,
	"PICKUP SCHEDULED":              tracking.StatusOrderPlaced,
	"PICKUP GENERATED":              tracking.StatusOrderPlaced,
	"PICKUP QUEUED":                 tracking.StatusOrderPlaced,
	"PICKUP RESCHEDULED":            tracking.StatusOrderPlaced,
	"MANIFEST GENERATED":            tracking.StatusOrderPlaced,
	"OUT FOR PICKUP":                tracking.StatusOrderPlaced,
	"PICKED UP":                     tracking.StatusPickedUp,
	"SHIPPED":                       tracking.StatusPickedUp,
	"IN TRANSIT":                    tracking.StatusInTransit,
	"IN TRANSIT-EN-ROUTE":           tracking.StatusInTransit,
	"IN TRANSIT-AT DESTINATION HUB": tracking.StatusInTransit,
	"REACHED AT DESTINATION HUB":    tracking.StatusInTransit,
	"REACHED DESTINATION HUB":       tracking.StatusInTransit,
	"MISROUTED":                     tracking.StatusInTransit,
	"OUT FOR DELIVERY":              tracking.StatusOutForDelivery,
	"DELIVERED":                     tracking.StatusDelivered,
}

// MapShiprocketStatus translates a Shiprocket status label. Anything not
// recognized, including RTO and cancellation states, is an Exception.
func MapShiprocketStatus(native string) tracking.Status {
	key := strings.ToUpper(strings.Join(strings.Fields(native), " "))
	if s, ok := shiprocketStatuses[key]; ok {
		return s
	}
	return tracking.StatusException
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func paymentMode(m order.PaymentMethod) string {
	if m == order.PaymentMethodCOD {
		return "COD"
	}
	return "Prepaid"
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func countryName(code string) string {
	switch strings.ToUpper(code) {
	case "", "IN", "IND":
		return "India"
	default:
		return code
	}
}
