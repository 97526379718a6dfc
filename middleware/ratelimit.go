package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter admits at most max requests per fixed window per client
// identity. Counts reset when the window rolls over; there is no sliding
// behavior and no persistence.
type RateLimiter struct {
	now         func() time.Time
	counts      map[string]int
	windowStart time.Time
	window      time.Duration
	max         int
	mu          sync.Mutex
}

// NewRateLimiter creates a fixed-window rate limiter.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		window: window,
		max:    max,
		counts: make(map[string]int),
		now:    time.Now,
	}
}

// Allow records one request for the client and reports whether it is
// within the window's budget.
func (l *RateLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		clear(l.counts)
	}

	l.counts[client]++
	return l.counts[client] <= l.max
}

// Middleware rejects over-budget clients with 429 before the handler runs.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP identifies the caller: the first X-Forwarded-For hop when
// present, else the remote address without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
