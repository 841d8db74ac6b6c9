package queries

import (
	"context"
	"strings"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/domain/user"
	"order-tracker/internal/infra"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=timeline.go -destination=../../../tests/mock/queries/timeline_mock.go -package=queriesmock

var ErrOrderNotFound = errs.New("order not found")

// AccessLevel decides how much of an order a caller may see. Each level
// reveals strictly more than the one before it.
type AccessLevel string

const (
	AccessPublic   AccessLevel = "public"
	AccessVerified AccessLevel = "verified"
	AccessFull     AccessLevel = "full"
)

// Viewer is the authenticated caller, if any.
type Viewer struct {
	UserID uuid.UUID
	Role   user.Role
}

func (v *Viewer) canSee(o *order.Order) bool {
	return v != nil && (v.Role.IsAdmin() || v.UserID == o.CustomerID())
}

type OrderTimeline struct {
	Order    *order.Order
	Events   []tracking.Event
	Tracking *TrackingResult
	History  []order.Change
	Access   AccessLevel
}

type TimelineQueries interface {
	ByNumber(ctx context.Context, number, phone string, viewer *Viewer) (*OrderTimeline, error)
	ByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*OrderTimeline, error)
	Authorize(ctx context.Context, id uuid.UUID, viewer Viewer) (*order.Order, error)
}

type timelineQueriesImpl struct {
	reads    shared.OrderReads
	tracking TrackingQueries
}

func NewTimelineQueries(uow shared.UnitOfWork, tq TrackingQueries) TimelineQueries {
	return &timelineQueriesImpl{reads: uow.Reads(), tracking: tq}
}

// ByNumber serves the public order lookup. A matching phone number upgrades
// the caller to verified; the owner or an admin gets full access.
func (q *timelineQueriesImpl) ByNumber(ctx context.Context, number, phone string, viewer *Viewer) (*OrderTimeline, error) {
	o, err := q.reads.OrderByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, notFound(err)
	}

	access := AccessPublic
	switch {
	case viewer.canSee(o):
		access = AccessFull
	case PhoneMatches(o.Address().Phone, phone):
		access = AccessVerified
	}
	return q.build(ctx, o, access)
}

// ByID is the authenticated lookup and always yields full access.
func (q *timelineQueriesImpl) ByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*OrderTimeline, error) {
	o, err := q.Authorize(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	return q.build(ctx, o, AccessFull)
}

// Authorize loads the order without touching the carrier and fails unless
// the viewer owns it or is an admin.
func (q *timelineQueriesImpl) Authorize(ctx context.Context, id uuid.UUID, viewer Viewer) (*order.Order, error) {
	o, err := q.reads.OrderByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !viewer.canSee(o) {
		return nil, errs.Wrapf(errs.ErrForbidden, "order %s", o.Number())
	}
	return o, nil
}

func (q *timelineQueriesImpl) build(ctx context.Context, o *order.Order, access AccessLevel) (*OrderTimeline, error) {
	tl := &OrderTimeline{Order: o, Access: access}

	var live *tracking.CanonicalTracking
	if awb := o.TrackingNumber(); awb != "" && q.tracking != nil {
		// A carrier that is no longer configured leaves the timeline without
		// a live feed.
		if res, err := q.tracking.Track(ctx, awb, o.Carrier()); err == nil {
			tl.Tracking = res
			live = &res.Tracking
		}
	}
	tl.Events = tracking.BuildTimeline(o, live)

	if access == AccessFull {
		history, err := q.reads.History(ctx, o.ID())
		if err != nil {
			return nil, err
		}
		tl.History = history
	}
	return tl, nil
}

// PhoneMatches compares the last ten digits of both numbers so that country
// prefixes and formatting do not matter.
func PhoneMatches(stored, given string) bool {
	a, b := lastDigits(stored, 10), lastDigits(given, 10)
	return len(b) >= 10 && a == b
}

func lastDigits(s string, n int) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	d := sb.String()
	if len(d) > n {
		d = d[len(d)-n:]
	}
	return d
}

func notFound(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrOrderNotFound)
	}
	return err
}
