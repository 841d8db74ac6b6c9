package tracking

import "time"

// Status is the carrier-independent tracking vocabulary.
type Status string

const (
	StatusOrderPlaced    Status = "Order Placed"
	StatusPickedUp       Status = "Picked Up"
	StatusInTransit      Status = "In Transit"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusException      Status = "Exception"
)

var Statuses = []Status{
	StatusOrderPlaced,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusException,
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusOrderPlaced, StatusPickedUp, StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusException:
		return true
	default:
		return false
	}
}

// Progress is a completion percentage for progress bars.
func (s Status) Progress() int {
	switch s {
	case StatusOrderPlaced:
		return 10
	case StatusPickedUp:
		return 30
	case StatusInTransit:
		return 60
	case StatusOutForDelivery:
		return 85
	case StatusDelivered:
		return 100
	default:
		return 50
	}
}

// NextPollInterval is how long a client should wait before asking again.
// Zero means the shipment is final and polling can stop.
func (s Status) NextPollInterval() time.Duration {
	switch s {
	case StatusDelivered:
		return 0
	case StatusOutForDelivery:
		return 5 * time.Minute
	case StatusException:
		return 15 * time.Minute
	case StatusInTransit:
		return 30 * time.Minute
	case StatusPickedUp:
		return time.Hour
	default:
		return 2 * time.Hour
	}
}
