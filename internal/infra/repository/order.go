package repository

import (
	"context"
	"encoding/json"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/infra"
	"order-tracker/internal/infra/db"
	"order-tracker/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, customer_id, items, subtotal, shipping_cost, discount, total,
	status, payment_status, payment_method, shipping_address,
	tracking_number, carrier, courier_name, freight_charge, cod_charge, other_charges, cancel_reason,
	payment_at, confirmed_at, shipped_at, delivered_at, cancelled_at, expected_delivery_at,
	created_at, updated_at`

const insertOrder = `INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
	$20, $21, $22, $23, $24, $25, $26, $27)`

const updateOrder = `UPDATE orders SET
	status = $2, payment_status = $3,
	tracking_number = $4, carrier = $5, courier_name = $6,
	freight_charge = $7, cod_charge = $8, other_charges = $9, cancel_reason = $10,
	payment_at = $11, confirmed_at = $12, shipped_at = $13, delivered_at = $14,
	cancelled_at = $15, expected_delivery_at = $16, updated_at = $17
WHERE id = $1`

const insertHistory = `INSERT INTO order_status_history
	(order_id, from_status, to_status, from_payment_status, to_payment_status, note, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectHistory = `SELECT order_id, from_status, to_status, from_payment_status, to_payment_status, note, occurred_at
FROM order_status_history WHERE order_id = $1 ORDER BY occurred_at, id`

// OrderRepository is the write side used inside transactions.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) error {
	items, err := json.Marshal(o.Items())
	if err != nil {
		return infra.WrapRepoErr("failed to encode order items", err)
	}
	addr, err := json.Marshal(o.Address())
	if err != nil {
		return infra.WrapRepoErr("failed to encode shipping address", err)
	}
	sh := shipmentColumns(o.Shipment())

	_, err = tx.Exec(ctx, insertOrder,
		o.ID(), o.Number(), pgconv.UUIDToPgtype(o.CustomerID()), items,
		o.Subtotal(), o.ShippingCost(), o.Discount(), o.Total(),
		string(o.Status()), string(o.PaymentStatus()), string(o.PaymentMethod()), addr,
		sh.trackingNumber, sh.carrier, sh.courierName, sh.freight, sh.cod, sh.other,
		pgconv.TextToPgtype(o.CancelReason()),
		pgconv.TimePtrToPgtype(o.PaymentAt()), pgconv.TimePtrToPgtype(o.ConfirmedAt()),
		pgconv.TimePtrToPgtype(o.ShippedAt()), pgconv.TimePtrToPgtype(o.DeliveredAt()),
		pgconv.TimePtrToPgtype(o.CancelledAt()), pgconv.TimePtrToPgtype(o.ExpectedDeliveryAt()),
		o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}
	return nil
}

// FindByIDForUpdate locks the row for the rest of the transaction.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*order.Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	o, err := scanOrder(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load order for update", err)
	}
	return o, nil
}

func (r *OrderRepository) Update(ctx context.Context, tx db.DBTX, o *order.Order) error {
	sh := shipmentColumns(o.Shipment())
	tag, err := tx.Exec(ctx, updateOrder,
		o.ID(), string(o.Status()), string(o.PaymentStatus()),
		sh.trackingNumber, sh.carrier, sh.courierName, sh.freight, sh.cod, sh.other,
		pgconv.TextToPgtype(o.CancelReason()),
		pgconv.TimePtrToPgtype(o.PaymentAt()), pgconv.TimePtrToPgtype(o.ConfirmedAt()),
		pgconv.TimePtrToPgtype(o.ShippedAt()), pgconv.TimePtrToPgtype(o.DeliveredAt()),
		pgconv.TimePtrToPgtype(o.CancelledAt()), pgconv.TimePtrToPgtype(o.ExpectedDeliveryAt()),
		o.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) AppendHistory(ctx context.Context, tx db.DBTX, c order.Change) error {
	_, err := tx.Exec(ctx, insertHistory,
		c.OrderID,
		pgconv.TextToPgtype(string(c.FromStatus)), string(c.ToStatus),
		pgconv.TextToPgtype(string(c.FromPayment)), string(c.ToPayment),
		c.Note, c.OccurredAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append order history", err)
	}
	return nil
}

// OrderReadStore serves reads outside of write transactions.
type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(conn db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: conn}
}

func (s *OrderReadStore) OrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (s *OrderReadStore) OrderByNumber(ctx context.Context, number string) (*order.Order, error) {
	return s.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number)
}

func (s *OrderReadStore) findOne(ctx context.Context, query string, arg any) (*order.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load order", err)
	}
	return o, nil
}

func (s *OrderReadStore) History(ctx context.Context, id uuid.UUID) ([]order.Change, error) {
	rows, err := s.db.Query(ctx, selectHistory, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order history", err)
	}
	changes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Change, error) {
		var (
			c                         order.Change
			fromStatus, fromPayment   pgtype.Text
			toStatus, toPayment, note string
		)
		if err := row.Scan(&c.OrderID, &fromStatus, &toStatus, &fromPayment, &toPayment, &note, &c.OccurredAt); err != nil {
			return c, err
		}
		c.FromStatus = order.Status(pgconv.StringFromPgtype(fromStatus))
		c.ToStatus = order.Status(toStatus)
		c.FromPayment = order.PaymentStatus(pgconv.StringFromPgtype(fromPayment))
		c.ToPayment = order.PaymentStatus(toPayment)
		c.Note = note
		return c, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order history", err)
	}
	return changes, nil
}

type shipmentCols struct {
	trackingNumber, carrier, courierName pgtype.Text
	freight, cod, other                  pgtype.Int8
}

func shipmentColumns(s *order.Shipment) shipmentCols {
	if s == nil {
		return shipmentCols{}
	}
	return shipmentCols{
		trackingNumber: pgconv.TextToPgtype(s.TrackingNumber),
		carrier:        pgconv.TextToPgtype(s.Carrier),
		courierName:    pgconv.TextToPgtype(s.CourierName),
		freight:        pgconv.Int8ToPgtype(s.FreightCharge, true),
		cod:            pgconv.Int8ToPgtype(s.CODCharge, true),
		other:          pgconv.Int8ToPgtype(s.OtherCharges, true),
	}
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		p                                  order.ReconstructParams
		customerID                         pgtype.UUID
		items, addr                        []byte
		status, paymentStatus, method      string
		sh                                 shipmentCols
		cancelReason                       pgtype.Text
		paymentAt, confirmedAt, shippedAt  pgtype.Timestamptz
		deliveredAt, cancelledAt, expected pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID, &p.Number, &customerID, &items, &p.Subtotal, &p.ShippingCost, &p.Discount, &p.Total,
		&status, &paymentStatus, &method, &addr,
		&sh.trackingNumber, &sh.carrier, &sh.courierName, &sh.freight, &sh.cod, &sh.other, &cancelReason,
		&paymentAt, &confirmedAt, &shippedAt, &deliveredAt, &cancelledAt, &expected,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &p.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addr, &p.Address); err != nil {
		return nil, err
	}

	p.CustomerID = pgconv.UUIDFromPgtype(customerID)
	p.Status = order.Status(status)
	p.PaymentStatus = order.PaymentStatus(paymentStatus)
	p.PaymentMethod = order.PaymentMethod(method)
	p.CancelReason = pgconv.StringFromPgtype(cancelReason)
	p.PaymentAt = pgconv.TimePtrFromPgtype(paymentAt)
	p.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	p.ShippedAt = pgconv.TimePtrFromPgtype(shippedAt)
	p.DeliveredAt = pgconv.TimePtrFromPgtype(deliveredAt)
	p.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	p.ExpectedDeliveryAt = pgconv.TimePtrFromPgtype(expected)

	if sh.trackingNumber.Valid {
		p.Shipment = &order.Shipment{
			TrackingNumber: sh.trackingNumber.String,
			Carrier:        pgconv.StringFromPgtype(sh.carrier),
			CourierName:    pgconv.StringFromPgtype(sh.courierName),
			FreightCharge:  pgconv.Int64FromPgtype(sh.freight),
			CODCharge:      pgconv.Int64FromPgtype(sh.cod),
			OtherCharges:   pgconv.Int64FromPgtype(sh.other),
		}
	}
	return order.Reconstruct(p), nil
}
