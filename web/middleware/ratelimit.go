package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/metrics"
	"github.com/otedola/cadastral/web/entity"
	"github.com/otedola/cadastral/web/locale"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const staleBucketAge = 10 * time.Minute

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
	KeyFunc           func(c *gin.Context) string
}

// DefaultRateLimitConfig limits each client IP to a handful of credential
// attempts per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 20,
		BurstSize:         5,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// limiterSet holds one token bucket per key. Buckets idle for
// staleBucketAge expire from the cache.
type limiterSet struct {
	mu      sync.Mutex
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
}

func newLimiterSet(perMinute, burst int, ttl time.Duration) *limiterSet {
	if burst <= 0 {
		burst = 1
	}
	return &limiterSet{
		buckets: cache.New(ttl, ttl),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
	}
}

func (l *limiterSet) allow(key string, now time.Time) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// refresh the expiry on every hit
	l.buckets.SetDefault(key, limiter)

	allowed := limiter.AllowN(now, 1)
	return allowed, max(int(limiter.TokensAt(now)), 0)
}

// RateLimitMiddleware rejects requests above the configured rate per key and path.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	limiters := newLimiterSet(config.RequestsPerMinute, config.BurstSize, staleBucketAge)
	return func(c *gin.Context) {
		key := config.KeyFunc(c) + ":" + c.Request.URL.Path
		allowed, remaining := limiters.allow(key, time.Now())

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			logger.Warningf("rate limit exceeded for %s", key)
			metrics.RateLimitHits.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{
				Success: false,
				Msg:     locale.I18n(c, "rateLimited"),
			})
			return
		}
		c.Next()
	}
}
