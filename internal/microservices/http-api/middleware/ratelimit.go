package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"yamdb/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the request identified by key may proceed. When
// it may not, retryAfter says how long to wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	rdb     redis.Cmdable
	maxReqs int64
	window  time.Duration
}

func NewRedisLimiter(rdb redis.Cmdable, maxReqs int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, maxReqs: int64(maxReqs), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	key = "ratelimit:" + key

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	// start the window on the first hit
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	if count <= l.maxReqs {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// LocalLimiter keeps a token bucket per key in process memory. It is used
// when Redis is not configured.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewLocalLimiter(maxReqs int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(maxReqs)),
		burst:    maxReqs,
	}
}

func (l *LocalLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	limiter := l.get(key)
	r := limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay, nil
	}
	return true, 0, nil
}

// Cleanup drops idle buckets once the map grows past max entries.
func (l *LocalLimiter) Cleanup(max int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.limiters) > max {
		l.limiters = make(map[string]*rate.Limiter)
	}
}

// RateLimit rejects requests over the limit with 429, keyed by client IP.
// Limiter errors fail open.
func RateLimit(l Limiter, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WarnContext(c.Request.Context(), "rate limiter unavailable", "error", err)
		}
		if !allowed {
			metrics.RecordRateLimited()
			secs := int(retryAfter.Round(time.Second).Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "request was throttled"})
			return
		}
		c.Next()
	}
}
