package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hitLogin(t *testing.T, h http.Handler, addr string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = addr
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_FullBucketServesBurst(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	h := rl.Limit(10)(okHandler())

	for i := 0; i < 10; i++ {
		rec := hitLogin(t, h, "10.0.0.1:40000")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_DrainedBucketRejects(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	h := rl.Limit(5)(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(t, h, "10.0.0.2:40000").Code)
	}

	rec := hitLogin(t, h, "10.0.0.2:40000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"), "429 must carry a Retry-After hint")
}

func TestRateLimiter_BucketsArePerClient(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	h := rl.Limit(2)(okHandler())

	hitLogin(t, h, "10.0.0.3:40000")
	hitLogin(t, h, "10.0.0.3:40000")
	assert.Equal(t, http.StatusTooManyRequests, hitLogin(t, h, "10.0.0.3:40000").Code)

	// A different client address still has a full bucket.
	assert.Equal(t, http.StatusOK, hitLogin(t, h, "10.0.0.4:40000").Code)
}

func TestRateLimiter_RefillRestoresService(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	// 60 per minute refills one token per second.
	h := rl.Limit(60)(okHandler())

	for i := 0; i < 60; i++ {
		hitLogin(t, h, "10.0.0.5:40000")
	}
	assert.Equal(t, http.StatusTooManyRequests, hitLogin(t, h, "10.0.0.5:40000").Code)

	time.Sleep(1100 * time.Millisecond)

	assert.Equal(t, http.StatusOK, hitLogin(t, h, "10.0.0.5:40000").Code)
}
