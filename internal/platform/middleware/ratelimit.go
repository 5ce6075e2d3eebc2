package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig sets the sustained rate and burst allowance applied to
// each caller.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig is generous enough for a busy reception desk
// while still capping a misbehaving public client.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// bucket is a token bucket refilled lazily on each take.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64 // tokens per second
	refilled time.Time
}

func newBucket(rate float64, burst int) *bucket {
	return &bucket{
		tokens:   float64(burst),
		capacity: float64(burst),
		rate:     rate,
		refilled: time.Now(),
	}
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.refilled).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.refilled = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// retryAfter estimates whole seconds until the next token, for the
// Retry-After header. Always at least 1.
func (b *bucket) retryAfter() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rate <= 0 {
		return 1
	}
	return int((1-b.tokens)/b.rate) + 1
}

type bucketStore struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	cfg     RateLimitConfig
}

func newBucketStore(cfg RateLimitConfig) *bucketStore {
	return &bucketStore{buckets: make(map[string]*bucket), cfg: cfg}
}

func (s *bucketStore) get(key string) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[key]; ok {
		return b
	}
	b = newBucket(s.cfg.RequestsPerSecond, s.cfg.BurstSize)
	s.buckets[key] = b
	return b
}

// RateLimit throttles callers with a token bucket per tenant-and-IP pair.
// Scoping by tenant keeps one clinic's traffic spike from starving the
// others; the IP component separates the clinic's staff from a scripted
// public client on the same tenant.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newBucketStore(cfg)
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if tenant, _ := c.Get("tenant_id").(string); tenant != "" {
				key = tenant + ":" + key
			}

			b := store.get(key)
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			if !b.take() {
				h.Set("Retry-After", strconv.Itoa(b.retryAfter()))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
