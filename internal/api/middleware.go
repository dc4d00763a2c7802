package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// localUserID is where the auth middleware parks the verified caller id.
const localUserID = "userID"

// AccessVerifier maps a bearer token onto a user id. Satisfied by the
// auth service.
type AccessVerifier interface {
	VerifyAccess(tokenStr string) (string, error)
}

func AuthRequired(verifier AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		userID, err := verifier.VerifyAccess(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		c.Locals(localUserID, userID)
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Infow("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
			"ip", c.IP(),
		)
		return err
	}
}

// RateLimiter is a fixed-window per-IP limiter backed by redis, so the
// window survives restarts and is shared across replicas. Redis being
// down fails open.
type RateLimiter struct {
	rdb      *redis.Client
	prefix   string
	requests int
	window   time.Duration
	log      *zap.SugaredLogger
}

func NewRateLimiter(rdb *redis.Client, prefix string, requests int, window time.Duration, log *zap.SugaredLogger) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, requests: requests, window: window, log: log}
}

func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.rdb == nil {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.Context(), time.Second)
		defer cancel()

		key := l.prefix + ":ratelimit:" + c.IP()
		n, err := l.rdb.Incr(ctx, key).Result()
		if err != nil {
			l.log.Warnw("rate limiter unavailable", "err", err)
			return c.Next()
		}
		if n == 1 {
			l.rdb.Expire(ctx, key, l.window)
		}
		if n > int64(l.requests) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many requests"})
		}
		return c.Next()
	}
}
