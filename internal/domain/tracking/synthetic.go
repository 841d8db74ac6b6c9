package tracking

import (
	"hash/fnv"
	"time"
)

var syntheticPath = []struct {
	status   Status
	location string
	remark   string
}{
	{StatusOrderPlaced, "Origin facility", "Shipment details received"},
	{StatusPickedUp, "Origin facility", "Picked up from seller"},
	{StatusInTransit, "Regional hub", "Departed from hub"},
	{StatusOutForDelivery, "Destination facility", "Out for delivery"},
}

// Synthetic fabricates a plausible history for when no carrier data can be
// obtained. The result is flagged as synthetic and is stable for a given
// tracking number within the same hour.
func Synthetic(trackingNumber, carrier string, now time.Time) CanonicalTracking {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingNumber))
	steps := 2 + int(h.Sum32()%uint32(len(syntheticPath)-1))

	base := now.Truncate(time.Hour)
	events := make([]Event, 0, steps)
	for i := 0; i < steps; i++ {
		p := syntheticPath[i]
		at := base.Add(-time.Duration(steps-1-i) * 18 * time.Hour)
		e := NewCarrierEvent(p.status, p.location, p.remark, at)
		events = append(events, e)
	}
	eta := base.Add(48 * time.Hour)

	return CanonicalTracking{
		TrackingNumber:    trackingNumber,
		Carrier:           carrier,
		Status:            events[len(events)-1].Status,
		EstimatedDelivery: &eta,
		Events:            events,
		Source:            SourceSynthetic,
		FetchedAt:         now,
	}
}
