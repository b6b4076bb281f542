package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pedscds/pedscds/internal/platform/auth"
)

// RateLimitConfig bounds request throughput per caller.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig returns the limits used when none are configured.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

// bucket is a token bucket refilled lazily on each probe.
type bucket struct {
	mu     sync.Mutex
	tokens float64
	filled time.Time
}

func (b *bucket) take(cfg RateLimitConfig, now time.Time) (ok bool, retryAfter int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.filled).Seconds() * cfg.RequestsPerSecond
	if max := float64(cfg.BurstSize); b.tokens > max {
		b.tokens = max
	}
	b.filled = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if cfg.RequestsPerSecond <= 0 {
		return false, 1
	}
	return false, int(math.Ceil((1 - b.tokens) / cfg.RequestsPerSecond))
}

// RateLimit enforces a per-caller token bucket. Buckets are keyed on the
// authenticated clinician when known, otherwise on the client IP, so one
// busy simulation session cannot starve the live encounters.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if userID := auth.UserIDFromContext(c.Request().Context()); userID != "" {
				key = userID + ":" + key
			}

			mu.Lock()
			b, ok := buckets[key]
			if !ok {
				b = &bucket{tokens: float64(cfg.BurstSize), filled: time.Now()}
				buckets[key] = b
			}
			mu.Unlock()

			allowed, retryAfter := b.take(cfg, time.Now())
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			if !allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
