package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// limits is a token bucket shape: burst capacity plus a steady refill rate.
type limits struct {
	capacity   int
	refillRate float64 // tokens per second
}

// defaultLimits shape traffic per client IP. Scoring runs fan out into model
// calls, so the score endpoint gets a much smaller bucket than reads.
func defaultLimits() map[string]limits {
	return map[string]limits{
		"score":   {capacity: 3, refillRate: 0.1},
		"default": {capacity: 60, refillRate: 1},
	}
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// limiter applies per-client token buckets keyed by endpoint class.
type limiter struct {
	mu      sync.Mutex
	limits  map[string]limits
	buckets map[string]*bucket
}

func newLimiter(l map[string]limits) *limiter {
	return &limiter{limits: l, buckets: make(map[string]*bucket)}
}

// allow consumes one token for the client/class pair.
func (l *limiter) allow(clientID, class string) bool {
	shape, ok := l.limits[class]
	if !ok {
		shape = l.limits["default"]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := clientID + "|" + class
	b, ok := l.buckets[key]
	now := time.Now()
	if !ok {
		b = &bucket{tokens: float64(shape.capacity), lastRefill: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * shape.refillRate
	if b.tokens > float64(shape.capacity) {
		b.tokens = float64(shape.capacity)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// withRateLimit rejects clients that exceed their bucket with a 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := "default"
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/score") {
			class = "score"
		}
		if !s.limiter.allow(clientID(r), class) {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies a caller by IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
