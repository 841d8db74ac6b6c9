package tracking

import (
	"time"
)

type Source string

const (
	SourceLive      Source = "live"
	SourceCached    Source = "cached"
	SourceSynthetic Source = "synthetic"
)

type Milestone string

const (
	MilestonePlaced    Milestone = "placed"
	MilestonePayment   Milestone = "payment"
	MilestoneConfirmed Milestone = "confirmed"
	MilestoneShipped   Milestone = "shipped"
	MilestoneDelivered Milestone = "delivered"
	MilestoneCancelled Milestone = "cancelled"
)

// Event is one entry of a timeline. Carrier-sourced entries have IsLive set
// and an empty Milestone.
type Event struct {
	Label     string
	Status    Status
	Milestone Milestone
	Location  string
	Remark    string
	Timestamp time.Time
	Completed bool
	IsLive    bool
}

// CanonicalTracking is a carrier response normalized to the canonical
// vocabulary. Source tells live data apart from cached or synthetic data.
type CanonicalTracking struct {
	TrackingNumber    string
	Carrier           string
	CourierName       string
	Status            Status
	EstimatedDelivery *time.Time
	Events            []Event
	Source            Source
	FetchedAt         time.Time
}

func (t CanonicalTracking) IsMockData() bool {
	return t.Source == SourceSynthetic
}

// Latest returns the most recent event by timestamp.
func (t CanonicalTracking) Latest() (Event, bool) {
	var (
		latest Event
		found  bool
	)
	for _, e := range t.Events {
		if !found || e.Timestamp.After(latest.Timestamp) {
			latest, found = e, true
		}
	}
	return latest, found
}

// WithSource returns a copy tagged with src.
func (t CanonicalTracking) WithSource(src Source) CanonicalTracking {
	t.Source = src
	events := make([]Event, len(t.Events))
	copy(events, t.Events)
	t.Events = events
	return t
}

// NewCarrierEvent builds a live entry for a carrier scan.
func NewCarrierEvent(status Status, location, remark string, at time.Time) Event {
	if !status.IsValid() {
		status = StatusException
	}
	return Event{
		Label:     string(status),
		Status:    status,
		Location:  location,
		Remark:    remark,
		Timestamp: at,
		Completed: true,
		IsLive:    true,
	}
}
