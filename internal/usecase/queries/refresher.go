package queries

import (
	"context"
	"log/slog"
	"time"

	"order-tracker/internal/broadcast"
)

// Pusher queues a message on one open stream.
type Pusher interface {
	Push(event string, payload any) error
}

type TrackingUpdate struct {
	TrackingNumber string     `json:"trackingNumber"`
	Carrier        string     `json:"carrier"`
	Status         string     `json:"status"`
	Progress       int        `json:"progress"`
	Location       string     `json:"location,omitempty"`
	Remark         string     `json:"remark,omitempty"`
	LatestAt       *time.Time `json:"latestAt,omitempty"`
	Source         string     `json:"source"`
	IsMockData     bool       `json:"isMockData"`
}

type StreamError struct {
	Message string `json:"message"`
}

// TrackingRefresher polls tracking for one order stream.
type TrackingRefresher struct {
	tracking TrackingQueries
	interval time.Duration
	logger   *slog.Logger
}

func NewTrackingRefresher(tq TrackingQueries, interval time.Duration, logger *slog.Logger) *TrackingRefresher {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingRefresher{tracking: tq, interval: interval, logger: logger}
}

// Watch emits a tracking_update whenever the latest carrier event changes,
// starting with the current state. It returns when ctx is done or the
// stream stops accepting messages.
func (r *TrackingRefresher) Watch(ctx context.Context, p Pusher, trackingNumber, carrierCode string) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var last string
	for {
		if !r.poll(ctx, p, trackingNumber, carrierCode, &last) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *TrackingRefresher) poll(ctx context.Context, p Pusher, trackingNumber, carrierCode string, last *string) bool {
	res, err := r.tracking.Track(ctx, trackingNumber, carrierCode)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.logger.Warn("tracking refresh failed", "tracking_number", trackingNumber, "error", err)
		return p.Push(broadcast.EventError, StreamError{Message: "tracking lookup failed"}) == nil
	}

	update := NewTrackingUpdate(res)
	fingerprint := update.Status + "|" + update.Source
	if update.LatestAt != nil {
		fingerprint += "|" + update.LatestAt.UTC().Format(time.RFC3339Nano)
	}
	if fingerprint == *last {
		return true
	}
	*last = fingerprint
	return p.Push(broadcast.EventTrackingUpdate, update) == nil
}

func NewTrackingUpdate(res *TrackingResult) TrackingUpdate {
	t := res.Tracking
	u := TrackingUpdate{
		TrackingNumber: t.TrackingNumber,
		Carrier:        t.Carrier,
		Status:         t.Status.String(),
		Progress:       res.Progress,
		Source:         string(t.Source),
		IsMockData:     t.IsMockData(),
	}
	if latest, ok := t.Latest(); ok {
		at := latest.Timestamp
		u.Location = latest.Location
		u.Remark = latest.Remark
		u.LatestAt = &at
	}
	return u
}
