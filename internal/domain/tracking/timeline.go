package tracking

import (
	"slices"
	"time"

	"order-tracker/internal/domain/order"
)

type milestoneDef struct {
	milestone Milestone
	label     string
	at        func(*order.Order) *time.Time
	completed func(*order.Order) bool
}

// milestoneOrder is the fixed causal order of internally derived entries.
var milestoneOrder = []milestoneDef{
	{
		milestone: MilestonePlaced,
		label:     "Order Placed",
		at:        placedAt,
		completed: func(*order.Order) bool { return true },
	},
	{
		milestone: MilestonePayment,
		label:     "Payment Confirmed",
		at:        (*order.Order).PaymentAt,
		completed: func(o *order.Order) bool { return o.PaymentStatus().Settled() },
	},
	{
		milestone: MilestoneConfirmed,
		label:     "Order Confirmed",
		at:        (*order.Order).ConfirmedAt,
		completed: func(o *order.Order) bool { return o.Status().Reached(order.StatusConfirmed) || o.Status() == order.StatusCancelled },
	},
	{
		milestone: MilestoneShipped,
		label:     "Shipped",
		at:        (*order.Order).ShippedAt,
		completed: func(o *order.Order) bool { return o.Status().Reached(order.StatusShipped) },
	},
	{
		milestone: MilestoneDelivered,
		label:     "Delivered",
		at:        (*order.Order).DeliveredAt,
		completed: func(o *order.Order) bool { return o.Status().Reached(order.StatusDelivered) },
	},
	{
		milestone: MilestoneCancelled,
		label:     "Cancelled",
		at:        (*order.Order).CancelledAt,
		completed: func(o *order.Order) bool { return o.Status() == order.StatusCancelled },
	},
}

func placedAt(o *order.Order) *time.Time {
	t := o.CreatedAt()
	return &t
}

// BuildTimeline merges the order's own milestones with a carrier history into
// one list sorted ascending by timestamp. Entries without a timestamp are
// dropped; on equal timestamps internal entries precede carrier entries.
// Synthetic histories are never merged: IsLive marks carrier scans only.
// Redaction for different audiences is left to the caller.
func BuildTimeline(o *order.Order, live *CanonicalTracking) []Event {
	if live != nil && live.IsMockData() {
		live = nil
	}

	capacity := len(milestoneOrder)
	if live != nil {
		capacity += len(live.Events)
	}
	events := make([]Event, 0, capacity)

	seen := make(map[Milestone]bool, len(milestoneOrder))
	for _, def := range milestoneOrder {
		at := def.at(o)
		if at == nil || at.IsZero() || seen[def.milestone] {
			continue
		}
		seen[def.milestone] = true
		events = append(events, Event{
			Label:     def.label,
			Milestone: def.milestone,
			Timestamp: *at,
			Completed: def.completed(o),
		})
	}

	if live != nil {
		for _, e := range live.Events {
			if e.Timestamp.IsZero() {
				continue
			}
			e.IsLive = true
			e.Milestone = ""
			events = append(events, e)
		}
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return events
}
