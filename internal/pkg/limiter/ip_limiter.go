/*
Package limiter provides a per-IP token bucket rate limiter.

Each client IP gets its own rate.Limiter. A background sweep removes buckets
that have refilled completely, so idle IPs do not accumulate.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/resp"
)

const sweepInterval = 3 * time.Minute

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	b       int
}

// NewIPRateLimiter returns a limiter allowing r events per second with burst b
// per IP, and starts the background sweep.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	l := &IPRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}

	go l.sweep()

	return l
}

// Get returns the bucket for ip, creating it on first sight.
func (l *IPRateLimiter) Get(ip string) *rate.Limiter {
	l.mu.RLock()
	bucket, ok := l.buckets[ip]
	l.mu.RUnlock()

	if ok {
		return bucket
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket, ok = l.buckets[ip]; !ok {
		bucket = rate.NewLimiter(l.r, l.b)
		l.buckets[ip] = bucket
	}

	return bucket
}

// sweep periodically drops buckets whose tokens have fully refilled.
func (l *IPRateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		removed := 0
		for ip, bucket := range l.buckets {
			if bucket.TokensAt(time.Now()) >= float64(bucket.Burst()) {
				delete(l.buckets, ip)
				removed++
			}
		}
		remaining := len(l.buckets)
		l.mu.Unlock()

		logx.Info("rate limiter sweep finished", "removed", removed, "remaining", remaining)
	}
}

// ClientIP extracts the host portion of a request's remote address.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}

// Middleware rejects requests over the per-IP budget with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Get(ClientIP(r)).Allow() {
			resp.Error(w, errs.New(errs.ErrRateLimited))
			return
		}

		next.ServeHTTP(w, r)
	})
}
