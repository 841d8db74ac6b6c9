package cache

import (
	"strings"
	"time"

	"order-tracker/internal/domain/tracking"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TrackingCache keeps the last live result per carrier and tracking number.
type TrackingCache struct {
	lru *expirable.LRU[string, tracking.CanonicalTracking]
}

func NewTrackingCache(size int, ttl time.Duration) *TrackingCache {
	if size <= 0 {
		size = 1024
	}
	return &TrackingCache{lru: expirable.NewLRU[string, tracking.CanonicalTracking](size, nil, ttl)}
}

func (c *TrackingCache) Get(carrier, trackingNumber string) (tracking.CanonicalTracking, bool) {
	t, ok := c.lru.Get(key(carrier, trackingNumber))
	if !ok {
		return tracking.CanonicalTracking{}, false
	}
	return t.WithSource(t.Source), true
}

func (c *TrackingCache) Put(t tracking.CanonicalTracking) {
	c.lru.Add(key(t.Carrier, t.TrackingNumber), t.WithSource(tracking.SourceLive))
}

func (c *TrackingCache) Len() int {
	return c.lru.Len()
}

func key(carrier, trackingNumber string) string {
	return strings.ToLower(carrier) + "/" + strings.TrimSpace(trackingNumber)
}
