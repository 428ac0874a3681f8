package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// clientWindow is one IP's counters for the current window
type clientWindow struct {
	start    time.Time
	requests int
	failures int
}

// ClientTracker keeps fixed-window request and auth-failure counts per
// client IP. Idle clients age out of a bounded LRU.
type ClientTracker struct {
	mu          sync.Mutex
	clients     *expirable.LRU[string, *clientWindow]
	maxRequests int
	now         func() time.Time
}

// NewClientTracker allows MaxRequestsPerWindow per IP
func NewClientTracker() *ClientTracker {
	return NewClientTrackerWithLimit(MaxRequestsPerWindow, time.Now)
}

// NewClientTrackerWithLimit takes an explicit limit and clock
func NewClientTrackerWithLimit(maxRequests int, now func() time.Time) *ClientTracker {
	return &ClientTracker{
		clients:     expirable.NewLRU[string, *clientWindow](TrackedClientsMax, nil, 2*RateWindow),
		maxRequests: maxRequests,
		now:         now,
	}
}

// window returns ip's counters, starting a fresh window when the old one
// has elapsed. Caller holds mu.
func (t *ClientTracker) window(ip string) *clientWindow {
	now := t.now()
	w, ok := t.clients.Get(ip)
	if !ok || now.Sub(w.start) > RateWindow {
		w = &clientWindow{start: now}
		t.clients.Add(ip, w)
	}
	return w
}

// RecordFailedAuth charges a failed login to ip and returns the count in
// the current window.
func (t *ClientTracker) RecordFailedAuth(ip string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.window(ip)
	w.failures++
	if w.failures == FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failures)
	}
	return w.failures
}

// RecordRequest counts a request and reports whether ip is still within
// its limit. The second return is when the window resets.
func (t *ClientTracker) RecordRequest(ip string) (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.window(ip)
	w.requests++
	resetAt := w.start.Add(RateWindow)
	if w.requests <= t.maxRequests {
		return true, resetAt
	}
	if (w.requests-t.maxRequests)%HighRateLogEvery == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", w.requests)
	}
	return false, resetAt
}

// RateLimitMiddleware answers 429 with Retry-After once a client passes
// the tracker's limit.
func RateLimitMiddleware(trustedProxies []string, tracker *ClientTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, resetAt := tracker.RecordRequest(clientIP(r, trustedProxies))
			if !ok {
				secs := int(time.Until(resetAt).Seconds()) + 1
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(max(secs, 1)))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
