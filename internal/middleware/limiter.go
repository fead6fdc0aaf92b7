package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"sbp-gateway/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Checkout, keyed per customer (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Internal / trusted services
	limitInternal = rate.Limit(100)
	burstInternal = 200
)

const (
	InternalAuthHeader = "X-Service-Auth"

	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	internalKey string
	strict      bool
	exempt      map[string]struct{}

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter builds a general tier limiter. Requests carrying internalKey
// in X-Service-Auth get the internal tier; exemptPaths are never limited.
func NewRateLimiter(internalKey string, exemptPaths ...string) *RateLimiter {
	paths := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		paths[p] = struct{}{}
	}
	return &RateLimiter{
		internalKey: internalKey,
		exempt:      paths,
		visitors:    make(map[string]*visitor),
		now:         time.Now,
	}
}

// NewStrictRateLimiter builds a strict tier limiter for authenticated
// routes. Mounted after CustomerAuth it keys buckets by customer id.
func NewStrictRateLimiter(internalKey string) *RateLimiter {
	l := NewRateLimiter(internalKey)
	l.strict = true
	return l
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (l *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup evicts idle visitors every minute until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *RateLimiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, key)
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := l.exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		limit, burst, tier := l.resolveRateTier(r)
		if tier == "internal" {
			r = r.WithContext(utils.WithInternalRequest(r.Context()))
		}

		var identity string
		if customerID, ok := utils.GetCustomerIDFromContext(r.Context()); ok {
			identity = fmt.Sprintf("customer:%d", customerID)
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		// Separate buckets per tier, e.g. "ip:10.0.0.1:strict".
		key := fmt.Sprintf("%s:%s", identity, tier)

		if !l.getVisitor(key, limit, burst).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveRateTier determines which rate limit policy applies to the request.
func (l *RateLimiter) resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if l.internalKey != "" && r.Header.Get(InternalAuthHeader) == l.internalKey {
		return limitInternal, burstInternal, "internal"
	}

	if l.strict {
		return limitStrict, burstStrict, "strict"
	}

	return limitGeneral, burstGeneral, "general"
}

// RequireInternal only lets through requests the limiter marked as coming
// from a trusted service.
func RequireInternal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.IsInternalRequest(r.Context()) {
			utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
