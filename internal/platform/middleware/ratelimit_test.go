package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
)

func rateLimitedHandler(cfg RateLimitConfig) (echo.HandlerFunc, *echo.Echo) {
	e := echo.New()
	h := RateLimit(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return h, e
}

func limitedRequest(e *echo.Echo, h echo.HandlerFunc, tenant string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if tenant != "" {
		c.Set("tenant_id", tenant)
	}
	return rec, h(c)
}

func TestRateLimit_BurstWithinLimit(t *testing.T) {
	h, e := rateLimitedHandler(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	for i := 0; i < 5; i++ {
		rec, err := limitedRequest(e, h, "clinica_vida")
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "10" {
			t.Errorf("request %d: expected X-RateLimit-Limit 10, got %q", i+1, got)
		}
	}
}

func TestRateLimit_ExhaustedBucketAnswers429(t *testing.T) {
	h, e := rateLimitedHandler(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	for i := 0; i < 2; i++ {
		if _, err := limitedRequest(e, h, "clinica_vida"); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}

	rec, err := limitedRequest(e, h, "clinica_vida")
	if err == nil {
		t.Fatal("expected the third request throttled")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}

	retryAfter, parseErr := strconv.Atoi(rec.Header().Get("Retry-After"))
	if parseErr != nil {
		t.Fatalf("Retry-After is not an integer: %q", rec.Header().Get("Retry-After"))
	}
	if retryAfter < 1 {
		t.Errorf("expected Retry-After >= 1, got %d", retryAfter)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0, got %q", got)
	}
}

func TestRateLimit_TenantsGetSeparateBuckets(t *testing.T) {
	h, e := rateLimitedHandler(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	if _, err := limitedRequest(e, h, "clinica_vida"); err != nil {
		t.Fatalf("clinica_vida first request: unexpected error: %v", err)
	}
	if _, err := limitedRequest(e, h, "clinica_vida"); err == nil {
		t.Fatal("clinica_vida second request: expected throttling")
	}
	// The other clinic's bucket is untouched.
	if _, err := limitedRequest(e, h, "clinica_sol"); err != nil {
		t.Fatalf("clinica_sol first request: unexpected error: %v", err)
	}
}

func TestRateLimit_DefaultConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 100 {
		t.Errorf("expected 100 requests per second, got %f", cfg.RequestsPerSecond)
	}
	if cfg.BurstSize != 200 {
		t.Errorf("expected burst of 200, got %d", cfg.BurstSize)
	}
}

func TestBucket_RetryAfterWithZeroRate(t *testing.T) {
	b := newBucket(0, 1)
	b.take()
	if got := b.retryAfter(); got != 1 {
		t.Errorf("expected retryAfter 1 when the bucket never refills, got %d", got)
	}
}

func TestBucketStore_SameKeySameBucket(t *testing.T) {
	store := newBucketStore(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	a := store.get("clinica_vida:10.0.0.1")
	if a == nil {
		t.Fatal("expected a bucket")
	}
	if b := store.get("clinica_vida:10.0.0.1"); a != b {
		t.Error("expected the same bucket for the same key")
	}
	if b := store.get("clinica_sol:10.0.0.1"); a == b {
		t.Error("expected a different bucket for a different key")
	}
}
