package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/brand-api/internal/errs"
	"github.com/deppfellow/brand-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitMessage is returned with every 429.
const RateLimitMessage = "Too many requests, please try again later."

const rateLimitKeyPrefix = "brand-api:ratelimit:"

// counter is the part of *redis.Client the limiter store needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiterStore is a fixed window echo RateLimiterStore shared by every
// instance of the API through Redis.
//
// Each identifier gets one counter per window; the counter expires with the
// window. Redis failures let the request through.
type RedisLimiterStore struct {
	client  counter
	limit   int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *zerolog.Logger
}

func NewRedisLimiterStore(client counter, limit int, window time.Duration, logger *zerolog.Logger) *RedisLimiterStore {
	return &RedisLimiterStore{
		client:  client,
		limit:   int64(limit),
		window:  window,
		timeout: 200 * time.Millisecond,
		now:     time.Now,
		logger:  logger,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *RedisLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	bucket := s.now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, bucket)

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}

	if n == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to set rate limit window expiry")
		}
	}

	return n <= s.limit, nil
}

var _ middleware.RateLimiterStore = (*RedisLimiterStore)(nil)

// RateLimitMiddleware enforces the configured per-IP request budget.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit reports a denied request to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// Limit returns the limiter middleware, or a pass-through when rate
// limiting is disabled or Redis is not configured.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if cfg == nil || !cfg.Enabled || r.server.Redis == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := NewRedisLimiterStore(r.server.Redis, cfg.Requests, cfg.Window, r.server.Logger)
	return r.limitWithStore(store, cfg.Window)
}

func (r *RateLimitMiddleware) limitWithStore(store middleware.RateLimiterStore, window time.Duration) echo.MiddlewareFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			c.Response().Header().Set("Retry-After", retryAfter)
			return errs.NewTooManyRequestsError(RateLimitMessage, retryAfter)
		},
	})
}
