package order

import "order-tracker/internal/pkg/errs"

var (
	ErrInvalidStatus        = errs.New("invalid order status")
	ErrInvalidPaymentStatus = errs.New("invalid payment status")
	ErrInvalidPaymentMethod = errs.New("invalid payment method")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// rank orders the forward path; cancelled sits outside it.
var rank = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusShipped:   2,
	StatusDelivered: 3,
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Reached reports whether an order in status s has reached or passed target on
// the forward path. A cancelled order has only reached cancelled.
func (s Status) Reached(target Status) bool {
	if s == StatusCancelled || target == StatusCancelled {
		return s == target
	}
	cur, ok := rank[s]
	if !ok {
		return false
	}
	want, ok := rank[target]
	return ok && cur >= want
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errs.Wrapf(ErrInvalidStatus, "status %q", s)
	}
	return st, nil
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

// Settled is true once money has been received, including later refunds.
func (p PaymentStatus) Settled() bool {
	return p == PaymentCompleted || p == PaymentRefunded
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	p := PaymentStatus(s)
	if !p.IsValid() {
		return "", errs.Wrapf(ErrInvalidPaymentStatus, "payment status %q", s)
	}
	return p, nil
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) String() string { return string(m) }

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", errs.Wrapf(ErrInvalidPaymentMethod, "payment method %q", s)
	}
	return m, nil
}
