package commands

import (
	"context"
	"log/slog"
	"strings"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/domain/order"
	"order-tracker/internal/infra"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/clock"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=order.go -destination=../../../tests/mock/commands/order_mock.go -package=commandsmock

var (
	ErrOrderNotFound  = errs.New("order not found")
	ErrShipmentExists = errs.Mark(errs.New("order already has a shipment"), order.ErrInvalidTransition)
)

// Publisher fans committed order events out to open streams.
type Publisher interface {
	Publish(event string, payload any) int
}

// CarrierResolver resolves a carrier code; the empty code is the primary.
type CarrierResolver interface {
	Get(code string) (carrier.Carrier, error)
}

type OrderCommands interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error)
	Transition(ctx context.Context, id uuid.UUID, to order.Status) (*order.Order, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, to order.PaymentStatus) (*order.Order, error)
	RecordShipment(ctx context.Context, id uuid.UUID, d order.ShipmentDetails) (*order.Order, error)
	CreateShipment(ctx context.Context, id uuid.UUID, req CreateShipmentRequest) (*CreateShipmentResult, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*order.Order, error)
}

type PlaceOrderRequest struct {
	CustomerID    uuid.UUID
	Items         []order.LineItem
	ShippingCost  int64
	Discount      int64
	PaymentMethod string
	Address       order.Address
}

type CreateShipmentRequest struct {
	Carrier   string
	CourierID int
	LengthCM  float64
	BreadthCM float64
	HeightCM  float64
}

// CreateShipmentResult carries either the shipped order or the carrier's
// rejection message.
type CreateShipmentResult struct {
	Order    *order.Order
	Rejected string
}

type orderUseCaseImpl struct {
	uow                shared.UnitOfWork
	clock              clock.Clock
	publisher          Publisher
	carriers           CarrierResolver
	defaultWeightGrams int
	logger             *slog.Logger
}

func NewOrderUseCase(
	uow shared.UnitOfWork,
	clk clock.Clock,
	publisher Publisher,
	carriers CarrierResolver,
	defaultWeightGrams int,
	logger *slog.Logger,
) OrderCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderUseCaseImpl{
		uow:                uow,
		clock:              clk,
		publisher:          publisher,
		carriers:           carriers,
		defaultWeightGrams: defaultWeightGrams,
		logger:             logger,
	}
}

func (uc *orderUseCaseImpl) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	now := uc.clock.Now()
	o, err := order.New(order.NewParams{
		CustomerID:    req.CustomerID,
		Items:         req.Items,
		ShippingCost:  req.ShippingCost,
		Discount:      req.Discount,
		PaymentMethod: method,
		Address:       req.Address,
	}, now)
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Orders().Create(ctx, tx.DB(), o); err != nil {
			return err
		}
		return tx.Orders().AppendHistory(ctx, tx.DB(), order.Change{
			OrderID:    o.ID(),
			ToStatus:   o.Status(),
			ToPayment:  o.PaymentStatus(),
			Note:       "order placed",
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order placed", "order_number", o.Number(), "status", o.Status(), "payment_method", o.PaymentMethod())
	uc.publish(broadcast.EventCreated, o)
	return o, nil
}

func (uc *orderUseCaseImpl) Transition(ctx context.Context, id uuid.UUID, to order.Status) (*order.Order, error) {
	return uc.mutate(ctx, id, func(o *order.Order) (order.Change, bool, error) {
		c, err := o.Transition(to, uc.clock.Now())
		return c, err == nil, err
	})
}

func (uc *orderUseCaseImpl) UpdatePayment(ctx context.Context, id uuid.UUID, to order.PaymentStatus) (*order.Order, error) {
	return uc.mutate(ctx, id, func(o *order.Order) (order.Change, bool, error) {
		return o.UpdatePayment(to, uc.clock.Now())
	})
}

func (uc *orderUseCaseImpl) RecordShipment(ctx context.Context, id uuid.UUID, d order.ShipmentDetails) (*order.Order, error) {
	return uc.mutate(ctx, id, func(o *order.Order) (order.Change, bool, error) {
		return o.RecordShipment(d, uc.clock.Now())
	})
}

func (uc *orderUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID, reason string) (*order.Order, error) {
	return uc.mutate(ctx, id, func(o *order.Order) (order.Change, bool, error) {
		c, err := o.Cancel(reason, uc.clock.Now())
		return c, err == nil, err
	})
}

// CreateShipment books the shipment with the carrier outside any transaction
// and then records the returned AWB under the row lock, where the
// no-existing-shipment check is repeated. A carrier-side rejection is
// reported in the result and leaves the order untouched.
func (uc *orderUseCaseImpl) CreateShipment(ctx context.Context, id uuid.UUID, req CreateShipmentRequest) (*CreateShipmentResult, error) {
	o, err := uc.uow.Reads().OrderByID(ctx, id)
	if err != nil {
		return nil, uc.notFound(err)
	}
	switch {
	case o.Shipment() != nil:
		return nil, errs.Wrapf(ErrShipmentExists, "order %s ships as %s", o.Number(), o.TrackingNumber())
	case o.Status().IsTerminal():
		return nil, errs.Mark(errs.Wrapf(order.ErrAlreadyTerminal, "order %s is %s", o.Number(), o.Status()), order.ErrInvalidTransition)
	case o.Status() == order.StatusPending && o.PaymentStatus() != order.PaymentCompleted:
		return nil, errs.Wrapf(order.ErrPaymentRequired, "order %s", o.Number())
	}

	c, err := uc.carriers.Get(req.Carrier)
	if err != nil {
		return nil, err
	}
	shipReq := carrier.ShipmentRequest{
		OrderNumber:   o.Number(),
		OrderDate:     o.CreatedAt(),
		Address:       o.Address(),
		Items:         o.Items(),
		PaymentMethod: o.PaymentMethod(),
		DeclaredValue: o.Total(),
		WeightGrams:   o.TotalWeightGrams(uc.defaultWeightGrams),
		LengthCM:      req.LengthCM,
		BreadthCM:     req.BreadthCM,
		HeightCM:      req.HeightCM,
		CourierID:     req.CourierID,
	}
	res, err := c.CreateShipment(ctx, shipReq)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		uc.logger.Warn("carrier rejected shipment", "order_number", o.Number(), "carrier", c.Code(), "reason", res.Error)
		return &CreateShipmentResult{Rejected: strings.TrimSpace(res.Error)}, nil
	}

	details := order.ShipmentDetails{
		TrackingNumber:   res.AWBNumber,
		Carrier:          c.Code(),
		CourierName:      res.CourierName,
		ExpectedDelivery: res.EstimatedDelivery,
	}
	shipped, err := uc.mutate(ctx, id, func(locked *order.Order) (order.Change, bool, error) {
		// Another booking may have committed while the carrier call was in flight.
		if s := locked.Shipment(); s != nil && s.TrackingNumber != strings.TrimSpace(details.TrackingNumber) {
			return order.Change{}, false, errs.Wrapf(ErrShipmentExists, "order %s ships as %s", locked.Number(), s.TrackingNumber)
		}
		return locked.RecordShipment(details, uc.clock.Now())
	})
	if errs.Is(err, ErrShipmentExists) {
		uc.logger.Warn("carrier booking lost to a concurrent shipment", "order_number", o.Number(), "carrier", c.Code(), "awb", res.AWBNumber)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "record shipment %s", res.AWBNumber)
	}
	return &CreateShipmentResult{Order: shipped}, nil
}

// mutate loads the order under a row lock, applies fn and persists the result
// together with its history row. Events go out only after commit and only
// when fn reports a change.
func (uc *orderUseCaseImpl) mutate(ctx context.Context, id uuid.UUID, fn func(o *order.Order) (order.Change, bool, error)) (*order.Order, error) {
	var (
		o       *order.Order
		change  order.Change
		changed bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		o, err = tx.Orders().FindByIDForUpdate(ctx, tx.DB(), id)
		if err != nil {
			return uc.notFound(err)
		}
		change, changed, err = fn(o)
		if err != nil || !changed {
			return err
		}
		if err := tx.Orders().Update(ctx, tx.DB(), o); err != nil {
			return uc.notFound(err)
		}
		return tx.Orders().AppendHistory(ctx, tx.DB(), change)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	uc.logger.Info("order updated",
		"order_number", o.Number(),
		"from_status", change.FromStatus,
		"to_status", change.ToStatus,
		"from_payment", change.FromPayment,
		"to_payment", change.ToPayment,
	)
	uc.publish(broadcast.EventUpdated, o)
	return o, nil
}

func (uc *orderUseCaseImpl) publish(event string, o *order.Order) {
	if uc.publisher == nil {
		return
	}
	uc.publisher.Publish(event, broadcast.NewOrderEvent(o))
}

func (uc *orderUseCaseImpl) notFound(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, ErrOrderNotFound)
	case infra.IsKind(err, infra.KindDBFailure):
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return err
}
