package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/cache"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/env"
)

const (
	defaultRateLimitMax = 120
	rateLimitWindow     = time.Minute
)

// NewLimiterStorage returns a Redis storage for rate limit counters so that
// every instance shares the same window.
func NewLimiterStorage() fiber.Storage {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		// Prefer password from the underlying client if present
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	// Separate database for limiter counters (cache uses DB 0)
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: env.GetEnvInt("LIMITER_DB", 1),
		Reset:    false,
	})
}

func newRateLimiter(cfg Config, scope string) fiber.Handler {
	limit := cfg.RateLimitMax
	if limit <= 0 {
		limit = defaultRateLimitMax
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: rateLimitWindow,
		Storage:    cfg.LimiterStorage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return scope + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "too_many_requests",
				"message": "Rate limit exceeded",
			})
		},
	})
}
