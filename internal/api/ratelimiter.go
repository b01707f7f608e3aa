package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter gates optimize traffic. Implementations that also report a
// wait via retryAfter get a precise Retry-After header.
type rateLimiter interface {
	Allow() bool
}

type retryAfterer interface {
	retryAfter() time.Duration
}

// tokenBucket is the default limiter shared by every route.
type tokenBucket struct {
	bucket *rate.Limiter
}

// newTokenBucket clamps non-positive settings to one request per second.
func newTokenBucket(rps float64, burst int) *tokenBucket {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &tokenBucket{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (b *tokenBucket) Allow() bool {
	return b.bucket.Allow()
}

// retryAfter is the time until one token refills.
func (b *tokenBucket) retryAfter() time.Duration {
	return time.Duration(float64(time.Second) / float64(b.bucket.Limit()))
}

// retryAfterSeconds rounds d up to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// preflight requests never count against the bucket
		if r.Method == http.MethodOptions || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}

		var wait time.Duration
		if ra, ok := limiter.(retryAfterer); ok {
			wait = ra.retryAfter()
		}
		w.Header().Set("Retry-After", retryAfterSeconds(wait))
		writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
	})
}
