/*
Package limiter provides keyed rate limiting.

KeyedLimiter keeps one token bucket (rate.Limiter) per key in process memory and is
used both per client IP (HTTP middleware) and per user id (realtime sends).
RedisLimiter is a fixed-window counter shared by every server instance that points
at the same Redis.
*/
package limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"talentx/internal/pkg/errs"
	"talentx/internal/pkg/logx"
	"talentx/internal/pkg/resp"
)

// Limiter decides whether one more event for key is allowed right now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// cleanupInterval is how often idle buckets are dropped.
const cleanupInterval = 3 * time.Minute

// KeyedLimiter implements a token bucket limiter per key.
type KeyedLimiter struct {
	// mu is used to protect concurrent access to the limits map.
	mu *sync.RWMutex

	// limits stores the map from key to the *rate.Limiter instance.
	limits map[string]*rate.Limiter

	// r is the rate (rate.Limit) of the limiter, defining the number of events allowed per second.
	r rate.Limit

	// b is the burst size (token bucket size) of the limiter.
	b int

	stop     chan struct{}
	stopOnce sync.Once
}

// NewKeyedLimiter creates a limiter with rate r and burst b, and starts a background
// goroutine that periodically drops idle buckets. Call Stop to end it.
func NewKeyedLimiter(r rate.Limit, b int) *KeyedLimiter {
	k := &KeyedLimiter{
		mu:     &sync.RWMutex{},
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		stop:   make(chan struct{}),
	}

	go k.cleanUpLoop()

	return k
}

// GetLimiter retrieves the bucket for key, creating it on first use.
// It uses double-checked locking so concurrent first calls share one bucket.
func (k *KeyedLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.RLock()
	limiter, exists := k.limits[key]
	k.mu.RUnlock()

	if !exists {
		k.mu.Lock()
		limiter, exists = k.limits[key]
		if !exists {
			limiter = rate.NewLimiter(k.r, k.b)
			k.limits[key] = limiter
		}
		k.mu.Unlock()
	}

	return limiter
}

// Allow consumes one token for key. It never returns an error.
func (k *KeyedLimiter) Allow(_ context.Context, key string) (bool, error) {
	return k.GetLimiter(key).Allow(), nil
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.limits)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (k *KeyedLimiter) Stop() {
	k.stopOnce.Do(func() { close(k.stop) })
}

func (k *KeyedLimiter) cleanUpLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case now := <-ticker.C:
			removed, remaining := k.cleanUp(now)
			logx.Debug("Rate limiter cleanup finished", "removed", removed, "remaining", remaining)
		}
	}
}

// cleanUp drops every bucket that has refilled completely by now, i.e. keys that
// have been idle long enough to be indistinguishable from new ones.
func (k *KeyedLimiter) cleanUp(now time.Time) (removed, remaining int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for key, limiter := range k.limits {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(k.limits, key)
			removed++
		}
	}
	return removed, len(k.limits)
}

// ClientIP returns the request's remote IP without the port.
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

// Middleware returns an HTTP middleware that limits requests per client IP.
// If a request exceeds the limit, it responds with a 429 Too Many Requests error.
func (k *KeyedLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !k.GetLimiter(ClientIP(r)).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}
