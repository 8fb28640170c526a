package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/screenwise/screenwise/internal/logging"
)

// RateLimiter throttles sensitive endpoints per client IP using a Redis
// fixed-window counter (INCR + EXPIRE). When Redis is unreachable the
// limiter fails open: locking every user out of login because a cache is
// down would be a worse failure mode than a window without throttling.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	logger logging.Logger
}

func NewRateLimiter(rdb *redis.Client, window time.Duration, l logging.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		window: window,
		logger: l.With("module", "rate_limiter"),
	}
}

// Limit returns middleware allowing at most max requests per client IP per
// window for the given bucket name. Buckets with the same name share their
// counters across routes.
func (l *RateLimiter) Limit(name string, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rdb == nil || max <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("rate-limit:%s:%s", name, c.ClientIP())

		count, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			l.logger.Warn(ctx, "rate limiter unavailable, failing open", "error", err.Error())
			c.Next()
			return
		}
		if count == 1 {
			if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
				l.logger.Warn(ctx, "rate limiter expire failed", "error", err.Error())
			}
		}

		if count > int64(max) {
			l.logger.Warn(ctx, "rate limit exceeded", "bucket", name, "ip", c.ClientIP())
			c.Header("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests, try again later",
				"retry_after": int(l.window.Seconds()),
			})
			return
		}

		c.Next()
	}
}
