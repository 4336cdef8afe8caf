package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// LoginRateLimiter throttles credential endpoints per client IP with a
// token bucket. Buckets are kept for the process lifetime; the per-IP
// footprint is a single limiter struct.
type LoginRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLoginRateLimiter(limit rate.Limit, burst int) *LoginRateLimiter {
	return &LoginRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *LoginRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.visitors[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.visitors[ip] = lim
	}
	return lim
}

func (l *LoginRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.limiterFor(ip).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many attempts, slow down", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
