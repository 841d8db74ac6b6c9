package order

import (
	"strings"
	"time"

	"order-tracker/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition  = errs.New("invalid status transition")
	ErrAlreadyTerminal    = errs.New("order is already in a terminal state")
	ErrPaymentRequired    = errs.Mark(errs.New("payment must be completed before confirmation"), ErrInvalidTransition)
	ErrInvalidPaymentMove = errs.Mark(errs.New("invalid payment status change"), ErrInvalidTransition)
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

var paymentMoves = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentFailed:    {PaymentCompleted, PaymentPending},
	PaymentCompleted: {PaymentRefunded},
}

// CanTransition reports whether to is adjacent to from in the status graph.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func AllowedTargets(from Status) []Status {
	out := make([]Status, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

func canMovePayment(from, to PaymentStatus) bool {
	for _, p := range paymentMoves[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Change describes one committed mutation, used for the status history.
type Change struct {
	OrderID     uuid.UUID
	FromStatus  Status
	ToStatus    Status
	FromPayment PaymentStatus
	ToPayment   PaymentStatus
	Note        string
	OccurredAt  time.Time
}

type ShipmentDetails struct {
	TrackingNumber   string
	Carrier          string
	CourierName      string
	FreightCharge    int64
	CODCharge        int64
	OtherCharges     int64
	ExpectedDelivery *time.Time
}

// Transition moves the order to an adjacent status and stamps the matching
// milestone. On error the order is left untouched.
func (o *Order) Transition(to Status, now time.Time) (Change, error) {
	if !to.IsValid() {
		return Change{}, errs.Mark(errs.Wrapf(ErrInvalidStatus, "status %q", to), errs.ErrValidation)
	}
	if to == StatusCancelled {
		return o.Cancel("", now)
	}
	if err := o.checkTransition(to); err != nil {
		return Change{}, err
	}

	change := o.begin(now)
	o.status = to
	switch to {
	case StatusConfirmed:
		stampOnce(&o.confirmedAt, now)
	case StatusShipped:
		stampOnce(&o.shippedAt, now)
	case StatusDelivered:
		stampOnce(&o.deliveredAt, now)
		if o.IsCOD() && o.paymentStatus == PaymentPending {
			o.paymentStatus = PaymentCompleted
			stampOnce(&o.paymentAt, now)
			change.Note = "cash collected on delivery"
		}
	}
	o.updatedAt = now
	return o.finish(change), nil
}

// RecordShipment attaches carrier metadata and forces the order into shipped.
// Re-recording the tracking number already on file is a no-op and reports
// changed=false.
func (o *Order) RecordShipment(d ShipmentDetails, now time.Time) (change Change, changed bool, err error) {
	d.TrackingNumber = strings.TrimSpace(d.TrackingNumber)
	d.Carrier = strings.TrimSpace(d.Carrier)
	if d.TrackingNumber == "" || d.Carrier == "" {
		return Change{}, false, errs.Wrap(ErrInvalidShipment, "tracking number and carrier are required")
	}
	if d.FreightCharge < 0 || d.CODCharge < 0 || d.OtherCharges < 0 {
		return Change{}, false, errs.Wrap(ErrInvalidShipment, "charges must be non-negative")
	}
	if o.shipment != nil && o.shipment.TrackingNumber == d.TrackingNumber {
		return Change{}, false, nil
	}

	switch o.status {
	case StatusDelivered, StatusCancelled:
		return Change{}, false, errs.Mark(
			errs.Wrapf(ErrAlreadyTerminal, "cannot record shipment on %s order", o.status),
			ErrInvalidTransition,
		)
	case StatusPending:
		if !o.paymentSatisfied() {
			return Change{}, false, errs.Wrapf(ErrPaymentRequired, "order %s", o.number)
		}
	}

	change = o.begin(now)
	if o.status == StatusPending {
		stampOnce(&o.confirmedAt, now)
	}
	o.shipment = &Shipment{
		TrackingNumber: d.TrackingNumber,
		Carrier:        d.Carrier,
		CourierName:    d.CourierName,
		FreightCharge:  d.FreightCharge,
		CODCharge:      d.CODCharge,
		OtherCharges:   d.OtherCharges,
	}
	if d.ExpectedDelivery != nil {
		o.expectedDeliveryAt = stamp(*d.ExpectedDelivery)
	}
	o.status = StatusShipped
	stampOnce(&o.shippedAt, now)
	o.updatedAt = now

	change.Note = "shipment " + d.Carrier + "/" + d.TrackingNumber
	return o.finish(change), true, nil
}

// Cancel is legal only before shipment.
func (o *Order) Cancel(reason string, now time.Time) (Change, error) {
	if o.status != StatusPending && o.status != StatusConfirmed {
		return Change{}, errs.Mark(
			errs.Wrapf(ErrAlreadyTerminal, "cannot cancel %s order", o.status),
			ErrInvalidTransition,
		)
	}

	change := o.begin(now)
	o.status = StatusCancelled
	o.cancelReason = strings.TrimSpace(reason)
	stampOnce(&o.cancelledAt, now)
	o.updatedAt = now

	change.Note = o.cancelReason
	return o.finish(change), nil
}

// UpdatePayment moves the payment axis. Setting the current value again
// reports changed=false.
func (o *Order) UpdatePayment(to PaymentStatus, now time.Time) (change Change, changed bool, err error) {
	if !to.IsValid() {
		return Change{}, false, errs.Mark(errs.Wrapf(ErrInvalidPaymentStatus, "payment status %q", to), errs.ErrValidation)
	}
	if to == o.paymentStatus {
		return Change{}, false, nil
	}
	if !canMovePayment(o.paymentStatus, to) {
		return Change{}, false, errs.Wrapf(ErrInvalidPaymentMove, "%s -> %s", o.paymentStatus, to)
	}

	change = o.begin(now)
	o.paymentStatus = to
	if to == PaymentCompleted {
		stampOnce(&o.paymentAt, now)
	}
	o.updatedAt = now
	return o.finish(change), true, nil
}

func (o *Order) checkTransition(to Status) error {
	if !CanTransition(o.status, to) {
		err := errs.Wrapf(ErrInvalidTransition, "%s -> %s", o.status, to)
		if o.status.IsTerminal() {
			err = errs.Mark(err, ErrAlreadyTerminal)
		}
		return err
	}
	if o.status == StatusPending && to == StatusConfirmed && !o.paymentSatisfied() {
		return errs.Wrapf(ErrPaymentRequired, "order %s", o.number)
	}
	return nil
}

func (o *Order) paymentSatisfied() bool {
	return o.IsCOD() || o.paymentStatus == PaymentCompleted
}

func (o *Order) begin(now time.Time) Change {
	return Change{
		OrderID:     o.id,
		FromStatus:  o.status,
		FromPayment: o.paymentStatus,
		OccurredAt:  now,
	}
}

func (o *Order) finish(c Change) Change {
	c.ToStatus = o.status
	c.ToPayment = o.paymentStatus
	return c
}

func stampOnce(field **time.Time, now time.Time) {
	if *field == nil {
		*field = stamp(now)
	}
}
