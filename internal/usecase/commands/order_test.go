//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/domain/order"
	"order-tracker/internal/infra"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/pkg/clock"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/commands"
	"order-tracker/internal/usecase/shared"
	"order-tracker/tests/common/builder"
	carriermock "order-tracker/tests/mock/carrier"
	commandsmock "order-tracker/tests/mock/commands"
	sharedmock "order-tracker/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	uow       *sharedmock.MockUnitOfWork
	tx        *sharedmock.MockTx
	repo      *sharedmock.MockOrderRepository
	reads     *sharedmock.MockOrderReads
	publisher *commandsmock.MockPublisher
	carriers  *commandsmock.MockCarrierResolver
	uc        commands.OrderCommands
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		uow:       sharedmock.NewMockUnitOfWork(ctrl),
		tx:        sharedmock.NewMockTx(ctrl),
		repo:      sharedmock.NewMockOrderRepository(ctrl),
		reads:     sharedmock.NewMockOrderReads(ctrl),
		publisher: commandsmock.NewMockPublisher(ctrl),
		carriers:  commandsmock.NewMockCarrierResolver(ctrl),
	}
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.uow.EXPECT().Reads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().Orders().Return(f.repo).AnyTimes()
	f.tx.EXPECT().DB().Return(nil).AnyTimes()

	f.uc = commands.NewOrderUseCase(f.uow, clock.NewMockClock(now), f.publisher, f.carriers, 500, nil)
	return f
}

// =============================================================================
// PlaceOrder
// =============================================================================

func TestOrderCommands_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name           string
		method         string
		expectedStatus order.Status
	}{
		{name: "success: online order waits for payment", method: "online", expectedStatus: order.StatusPending},
		{name: "success: COD order is confirmed on placement", method: "cod", expectedStatus: order.StatusConfirmed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			b := builder.NewOrderBuilder()

			f.repo.EXPECT().Create(ctx, nil, gomock.Any()).Return(nil)
			f.repo.EXPECT().AppendHistory(ctx, nil, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ any, c order.Change) error {
					assert.Equal(t, tc.expectedStatus, c.ToStatus)
					assert.Empty(t, c.FromStatus)
					return nil
				})
			f.publisher.EXPECT().Publish(broadcast.EventCreated, gomock.Any()).
				DoAndReturn(func(_ string, payload any) int {
					ev, ok := payload.(broadcast.OrderEvent)
					require.True(t, ok)
					assert.Equal(t, string(tc.expectedStatus), ev.Status)
					return 1
				})

			o, err := f.uc.PlaceOrder(ctx, commands.PlaceOrderRequest{
				CustomerID:    b.CustomerID,
				Items:         b.Items,
				PaymentMethod: tc.method,
				Address:       b.Address,
			})

			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, o.Status())
			assert.Equal(t, order.PaymentPending, o.PaymentStatus())
			assert.Equal(t, now, o.CreatedAt())
		})
	}
}

func TestOrderCommands_PlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	b := builder.NewOrderBuilder()

	_, err := f.uc.PlaceOrder(context.Background(), commands.PlaceOrderRequest{
		Items:         b.Items,
		PaymentMethod: "bitcoin",
		Address:       b.Address,
	})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrValidation))

	_, err = f.uc.PlaceOrder(context.Background(), commands.PlaceOrderRequest{
		PaymentMethod: "cod",
		Address:       b.Address,
	})
	assert.True(t, errs.Is(err, order.ErrEmptyItems))
}

// =============================================================================
// Transition
// =============================================================================

func TestOrderCommands_Transition(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		from        order.Status
		payment     order.PaymentStatus
		method      order.PaymentMethod
		to          order.Status
		expectErr   error
		expectEvent bool
	}{
		{
			name:        "success: paid order is confirmed",
			from:        order.StatusPending,
			payment:     order.PaymentCompleted,
			method:      order.PaymentMethodOnline,
			to:          order.StatusConfirmed,
			expectEvent: true,
		},
		{
			name:      "error: unpaid online order cannot be confirmed",
			from:      order.StatusPending,
			payment:   order.PaymentPending,
			method:    order.PaymentMethodOnline,
			to:        order.StatusConfirmed,
			expectErr: order.ErrPaymentRequired,
		},
		{
			name:      "error: delivered order is terminal",
			from:      order.StatusDelivered,
			payment:   order.PaymentCompleted,
			method:    order.PaymentMethodOnline,
			to:        order.StatusShipped,
			expectErr: order.ErrAlreadyTerminal,
		},
		{
			name:      "error: skipping shipped is rejected",
			from:      order.StatusConfirmed,
			payment:   order.PaymentCompleted,
			method:    order.PaymentMethodOnline,
			to:        order.StatusDelivered,
			expectErr: order.ErrInvalidTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			o := builder.NewOrderBuilder().WithPaymentMethod(tc.method).BuildInStatus(tc.from, tc.payment)

			f.repo.EXPECT().FindByIDForUpdate(ctx, nil, o.ID()).Return(o, nil)
			if tc.expectEvent {
				f.repo.EXPECT().Update(ctx, nil, o).Return(nil)
				f.repo.EXPECT().AppendHistory(ctx, nil, gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(broadcast.EventUpdated, gomock.Any()).Return(2)
			}

			got, err := f.uc.Transition(ctx, o.ID(), tc.to)

			if tc.expectErr != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.expectErr), "got %v", err)
				assert.Nil(t, got)
				assert.Equal(t, tc.from, o.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, got.Status())
			assert.Equal(t, now, *got.ConfirmedAt())
		})
	}
}

func TestOrderCommands_TransitionNotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), nil, id).
		Return(nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound))

	_, err := f.uc.Transition(context.Background(), id, order.StatusShipped)

	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrOrderNotFound))
}

func TestOrderCommands_FailedCommitDoesNotBroadcast(t *testing.T) {
	f := newFixture(t)
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)

	f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), nil, o.ID()).Return(o, nil)
	f.repo.EXPECT().Update(gomock.Any(), nil, o).Return(nil)
	f.repo.EXPECT().AppendHistory(gomock.Any(), nil, gomock.Any()).Return(errors.New("disk full"))

	_, err := f.uc.Cancel(context.Background(), o.ID(), "customer request")
	require.Error(t, err)
}

// =============================================================================
// UpdatePayment / RecordShipment / Cancel
// =============================================================================

func TestOrderCommands_UpdatePaymentNoopSkipsBroadcast(t *testing.T) {
	f := newFixture(t)
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusPending, order.PaymentCompleted)
	f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), nil, o.ID()).Return(o, nil)

	got, err := f.uc.UpdatePayment(context.Background(), o.ID(), order.PaymentCompleted)

	require.NoError(t, err)
	assert.Same(t, o, got)
}

func TestOrderCommands_UpdatePayment(t *testing.T) {
	f := newFixture(t)
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusPending, order.PaymentPending)
	f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), nil, o.ID()).Return(o, nil)
	f.repo.EXPECT().Update(gomock.Any(), nil, o).Return(nil)
	f.repo.EXPECT().AppendHistory(gomock.Any(), nil, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, c order.Change) error {
			assert.Equal(t, order.PaymentPending, c.FromPayment)
			assert.Equal(t, order.PaymentCompleted, c.ToPayment)
			return nil
		})
	f.publisher.EXPECT().Publish(broadcast.EventUpdated, gomock.Any()).Return(0)

	got, err := f.uc.UpdatePayment(context.Background(), o.ID(), order.PaymentCompleted)

	require.NoError(t, err)
	assert.Equal(t, order.PaymentCompleted, got.PaymentStatus())
	assert.Equal(t, now, *got.PaymentAt())
}

func TestOrderCommands_RecordShipmentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)
	f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), nil, o.ID()).Return(o, nil)

	got, err := f.uc.RecordShipment(context.Background(), o.ID(), order.ShipmentDetails{
		TrackingNumber: o.TrackingNumber(),
		Carrier:        o.Carrier(),
	})

	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, got.Status())
}

func TestOrderCommands_CancelShippedOrder(t *testing.T) {
	f := newFixture(t)
	o := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)
	f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), nil, o.ID()).Return(o, nil)

	_, err := f.uc.Cancel(context.Background(), o.ID(), "changed my mind")

	require.Error(t, err)
	assert.True(t, errs.Is(err, order.ErrInvalidTransition))
	assert.True(t, errs.Is(err, order.ErrAlreadyTerminal))
}

// =============================================================================
// CreateShipment
// =============================================================================

func TestOrderCommands_CreateShipment(t *testing.T) {
	ctx := context.Background()
	eta := now.Add(72 * time.Hour)

	t.Run("success: carrier booking is recorded", func(t *testing.T) {
		f := newFixture(t)
		ctrl := gomock.NewController(t)
		c := carriermock.NewMockCarrier(ctrl)
		o := builder.NewOrderBuilder().WithPaymentMethod(order.PaymentMethodCOD).BuildInStatus(order.StatusConfirmed, order.PaymentPending)

		f.reads.EXPECT().OrderByID(ctx, o.ID()).Return(o, nil)
		f.carriers.EXPECT().Get("").Return(c, nil)
		c.EXPECT().Code().Return("shiprocket").AnyTimes()
		c.EXPECT().CreateShipment(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, req carrier.ShipmentRequest) (carrier.ShipmentResult, error) {
				assert.Equal(t, o.Number(), req.OrderNumber)
				assert.Equal(t, o.Total(), req.DeclaredValue)
				assert.Equal(t, order.PaymentMethodCOD, req.PaymentMethod)
				assert.Positive(t, req.WeightGrams)
				return carrier.ShipmentResult{Success: true, AWBNumber: "SR123", CourierName: "Bluedart", EstimatedDelivery: &eta}, nil
			})
		f.repo.EXPECT().FindByIDForUpdate(ctx, nil, o.ID()).Return(o, nil)
		f.repo.EXPECT().Update(ctx, nil, o).Return(nil)
		f.repo.EXPECT().AppendHistory(ctx, nil, gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(broadcast.EventUpdated, gomock.Any()).Return(1)

		res, err := f.uc.CreateShipment(ctx, o.ID(), commands.CreateShipmentRequest{})

		require.NoError(t, err)
		require.NotNil(t, res.Order)
		assert.Empty(t, res.Rejected)
		assert.Equal(t, order.StatusShipped, res.Order.Status())
		assert.Equal(t, "SR123", res.Order.TrackingNumber())
		assert.Equal(t, eta, *res.Order.ExpectedDeliveryAt())
	})

	t.Run("error: carrier rejection leaves the order untouched", func(t *testing.T) {
		f := newFixture(t)
		ctrl := gomock.NewController(t)
		c := carriermock.NewMockCarrier(ctrl)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)

		f.reads.EXPECT().OrderByID(ctx, o.ID()).Return(o, nil)
		f.carriers.EXPECT().Get("delhivery").Return(c, nil)
		c.EXPECT().Code().Return("delhivery").AnyTimes()
		c.EXPECT().CreateShipment(ctx, gomock.Any()).Return(carrier.ShipmentResult{Error: "pincode not serviceable"}, nil)

		res, err := f.uc.CreateShipment(ctx, o.ID(), commands.CreateShipmentRequest{Carrier: "delhivery"})

		require.NoError(t, err)
		assert.Nil(t, res.Order)
		assert.Equal(t, "pincode not serviceable", res.Rejected)
		assert.Equal(t, order.StatusConfirmed, o.Status())
	})

	t.Run("error: carrier outage is returned", func(t *testing.T) {
		f := newFixture(t)
		ctrl := gomock.NewController(t)
		c := carriermock.NewMockCarrier(ctrl)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)

		f.reads.EXPECT().OrderByID(ctx, o.ID()).Return(o, nil)
		f.carriers.EXPECT().Get("").Return(c, nil)
		c.EXPECT().CreateShipment(ctx, gomock.Any()).Return(carrier.ShipmentResult{}, carrier.ErrCarrierUnavailable)

		_, err := f.uc.CreateShipment(ctx, o.ID(), commands.CreateShipmentRequest{})

		assert.True(t, errs.Is(err, carrier.ErrCarrierUnavailable))
	})

	t.Run("error: already shipped order", func(t *testing.T) {
		f := newFixture(t)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)
		f.reads.EXPECT().OrderByID(ctx, o.ID()).Return(o, nil)

		_, err := f.uc.CreateShipment(ctx, o.ID(), commands.CreateShipmentRequest{})

		assert.True(t, errs.Is(err, commands.ErrShipmentExists))
		assert.True(t, errs.Is(err, order.ErrInvalidTransition))
	})

	t.Run("error: shipment committed while the carrier call was in flight", func(t *testing.T) {
		f := newFixture(t)
		ctrl := gomock.NewController(t)
		c := carriermock.NewMockCarrier(ctrl)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusConfirmed, order.PaymentCompleted)
		concurrent := builder.NewOrderBuilder().BuildInStatus(order.StatusShipped, order.PaymentCompleted)

		f.reads.EXPECT().OrderByID(ctx, o.ID()).Return(o, nil)
		f.carriers.EXPECT().Get("").Return(c, nil)
		c.EXPECT().Code().Return("delhivery").AnyTimes()
		c.EXPECT().CreateShipment(ctx, gomock.Any()).Return(carrier.ShipmentResult{Success: true, AWBNumber: "DL777"}, nil)
		f.repo.EXPECT().FindByIDForUpdate(ctx, nil, o.ID()).Return(concurrent, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.repo.EXPECT().AppendHistory(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.uc.CreateShipment(ctx, o.ID(), commands.CreateShipmentRequest{})

		assert.True(t, errs.Is(err, commands.ErrShipmentExists))
		assert.Equal(t, "AWB1001", concurrent.TrackingNumber())
	})

	t.Run("error: unpaid online order", func(t *testing.T) {
		f := newFixture(t)
		o := builder.NewOrderBuilder().BuildInStatus(order.StatusPending, order.PaymentPending)
		f.reads.EXPECT().OrderByID(ctx, o.ID()).Return(o, nil)

		_, err := f.uc.CreateShipment(ctx, o.ID(), commands.CreateShipmentRequest{})

		assert.True(t, errs.Is(err, order.ErrPaymentRequired))
	})
}
