package request

import (
	"time"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/money"
	"order-tracker/internal/usecase/commands"
	"order-tracker/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amounts on the wire are rupees with up to two decimals.

type LineItemRequest struct {
	ProductID   string          `json:"product_id" binding:"required,max=64"`
	Name        string          `json:"name" binding:"required,max=200"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	Variant     string          `json:"variant" binding:"max=100"`
	WeightGrams int             `json:"weight_grams" binding:"min=0"`
}

type AddressRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Phone      string `json:"phone" binding:"required,max=20"`
	Line1      string `json:"line1" binding:"required,max=300"`
	Line2      string `json:"line2" binding:"max=300"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=10"`
	Country    string `json:"country" binding:"max=2"`
}

type PlaceOrderRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	Items         []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingCost  decimal.Decimal   `json:"shipping_cost"`
	Discount      decimal.Decimal   `json:"discount"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=cod online"`
	Address       AddressRequest    `json:"address" binding:"required"`
}

func (r *PlaceOrderRequest) ToCommand() commands.PlaceOrderRequest {
	items := make([]order.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = order.LineItem{
			ProductID:   it.ProductID,
			Name:        it.Name,
			UnitPrice:   money.FromDecimal(it.UnitPrice),
			Quantity:    it.Quantity,
			Variant:     it.Variant,
			WeightGrams: it.WeightGrams,
		}
	}
	country := r.Address.Country
	if country == "" {
		country = "IN"
	}
	return commands.PlaceOrderRequest{
		CustomerID:    r.CustomerID,
		Items:         items,
		ShippingCost:  money.FromDecimal(r.ShippingCost),
		Discount:      money.FromDecimal(r.Discount),
		PaymentMethod: r.PaymentMethod,
		Address: order.Address{
			Name:       r.Address.Name,
			Phone:      r.Address.Phone,
			Line1:      r.Address.Line1,
			Line2:      r.Address.Line2,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    country,
		},
	}
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type RecordShipmentRequest struct {
	TrackingNumber   string          `json:"tracking_number" binding:"required,max=40"`
	Carrier          string          `json:"carrier" binding:"required,max=40"`
	CourierName      string          `json:"courier_name" binding:"max=100"`
	FreightCharge    decimal.Decimal `json:"freight_charge"`
	CODCharge        decimal.Decimal `json:"cod_charge"`
	OtherCharges     decimal.Decimal `json:"other_charges"`
	ExpectedDelivery *time.Time      `json:"expected_delivery"`
}

func (r *RecordShipmentRequest) ToDetails() order.ShipmentDetails {
	return order.ShipmentDetails{
		TrackingNumber:   r.TrackingNumber,
		Carrier:          r.Carrier,
		CourierName:      r.CourierName,
		FreightCharge:    money.FromDecimal(r.FreightCharge),
		CODCharge:        money.FromDecimal(r.CODCharge),
		OtherCharges:     money.FromDecimal(r.OtherCharges),
		ExpectedDelivery: r.ExpectedDelivery,
	}
}

type CreateShipmentRequest struct {
	Carrier   string  `json:"carrier" binding:"max=40"`
	CourierID int     `json:"courier_id" binding:"min=0"`
	LengthCM  float64 `json:"length_cm" binding:"min=0"`
	BreadthCM float64 `json:"breadth_cm" binding:"min=0"`
	HeightCM  float64 `json:"height_cm" binding:"min=0"`
}

func (r *CreateShipmentRequest) ToCommand() commands.CreateShipmentRequest {
	return commands.CreateShipmentRequest{
		Carrier:   r.Carrier,
		CourierID: r.CourierID,
		LengthCM:  r.LengthCM,
		BreadthCM: r.BreadthCM,
		HeightCM:  r.HeightCM,
	}
}

type CartItemRequest struct {
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
	WeightGrams int             `json:"weight_grams" binding:"min=0"`
}

type RateRequest struct {
	DestinationPostalCode string            `json:"destination_postal_code" binding:"required"`
	Items                 []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	CollectOnDelivery     bool              `json:"cod"`
	DeclaredValue         decimal.Decimal   `json:"declared_value"`
	SelectedCarrier       string            `json:"selected_carrier"`
	SelectedCourierID     int               `json:"selected_courier_id" binding:"min=0"`
}

func (r *RateRequest) ToQuery() queries.RateRequest {
	items := make([]carrier.CartItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = carrier.CartItem{
			Quantity:    it.Quantity,
			UnitPrice:   money.FromDecimal(it.Price),
			WeightGrams: it.WeightGrams,
		}
	}
	return queries.RateRequest{
		DestinationPostalCode: r.DestinationPostalCode,
		Items:                 items,
		CollectOnDelivery:     r.CollectOnDelivery,
		DeclaredValue:         money.FromDecimal(r.DeclaredValue),
		SelectedCarrier:       r.SelectedCarrier,
		SelectedCourierID:     r.SelectedCourierID,
	}
}
