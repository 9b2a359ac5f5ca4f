package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddlewarePerIP(t *testing.T) {
	// 2 requests per window gives a burst of 1, so the second immediate
	// request from the same address is rejected.
	h := RateLimitMiddleware(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1:1234").Code)

	rec := hit("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// A different address has its own bucket.
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1234").Code)
}

func TestIPLimiterEvictsIdleClients(t *testing.T) {
	l := newIPLimiter(10, time.Minute)
	l.getLimiter("10.0.0.1")

	// Age the bucket and the sweep clock past the ttl, then trigger a
	// lookup from another address.
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	l.lastSweep = time.Now().Add(-time.Hour)
	l.getLimiter("10.0.0.2")

	_, ok := l.clients["10.0.0.1"]
	assert.False(t, ok, "idle bucket should have been swept")
	_, ok = l.clients["10.0.0.2"]
	assert.True(t, ok)
}
