package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"order-tracker/internal/handler/httperr"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. A bucket expires once
// its client has been idle for the configured period, so the table stays
// bounded while active clients keep their drained buckets.
type RateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients *expirable.LRU[string, *rate.Limiter]
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	size := cfg.Clients
	if size <= 0 {
		size = 10000
	}
	burst := max(cfg.Burst, 1)
	idle := time.Duration(float64(burst)/math.Max(cfg.RPS, 0.001)*float64(time.Second)) + time.Minute
	if cfg.Idle > 0 {
		idle = cfg.Idle
	}
	return &RateLimiter{
		limit:   rate.Limit(cfg.RPS),
		burst:   burst,
		clients: expirable.NewLRU[string, *rate.Limiter](size, nil, idle),
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.clients.Get(key); ok {
		// Get does not extend the TTL; re-adding does.
		l.clients.Add(key, lim)
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.clients.Add(key, lim)
	return lim
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := l.limiter(c.ClientIP()).Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			httperr.AbortWithError(c, http.StatusTooManyRequests,
				errs.Wrapf(errs.ErrRateLimitExceeded, "client %s", c.ClientIP()), "Too many requests", nil)
			return
		}
		c.Next()
	}
}
