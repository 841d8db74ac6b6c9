//go:build unit

package cache_test

import (
	"testing"
	"time"

	"order-tracker/internal/domain/tracking"
	"order-tracker/internal/infra/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingCache(t *testing.T) {
	c := cache.NewTrackingCache(2, time.Minute)
	live := tracking.CanonicalTracking{
		TrackingNumber: "AWB1",
		Carrier:        "shiprocket",
		Status:         tracking.StatusInTransit,
		Source:         tracking.SourceLive,
		Events:         []tracking.Event{{Label: "In Transit", Status: tracking.StatusInTransit}},
	}

	c.Put(live)

	got, ok := c.Get("Shiprocket", "AWB1")
	require.True(t, ok)
	assert.Equal(t, tracking.StatusInTransit, got.Status)

	got.Events[0].Label = "mutated"
	again, _ := c.Get("shiprocket", "AWB1")
	assert.Equal(t, "In Transit", again.Events[0].Label, "cached entry is not aliased by callers")

	_, ok = c.Get("delhivery", "AWB1")
	assert.False(t, ok)
}

func TestTrackingCacheEvictsOldest(t *testing.T) {
	c := cache.NewTrackingCache(2, time.Minute)
	for _, awb := range []string{"A", "B", "C"} {
		c.Put(tracking.CanonicalTracking{TrackingNumber: awb, Carrier: "shiprocket"})
	}

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("shiprocket", "A")
	assert.False(t, ok)
}

func TestTrackingCacheExpires(t *testing.T) {
	c := cache.NewTrackingCache(4, 20*time.Millisecond)
	c.Put(tracking.CanonicalTracking{TrackingNumber: "A", Carrier: "shiprocket"})

	require.Eventually(t, func() bool {
		_, ok := c.Get("shiprocket", "A")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
