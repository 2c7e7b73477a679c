package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/brand-api/internal/config"
	"github.com/deppfellow/brand-api/internal/dberr"
	"github.com/deppfellow/brand-api/internal/errs"
	"github.com/deppfellow/brand-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server:  config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			RateLimit: &config.RateLimitConfig{
				Enabled:  true,
				Requests: 2,
				Window:   time.Minute,
			},
		},
		Logger: &logger,
	}
}

// newTestEcho mirrors the router's middleware order without a store.
func newTestEcho(s *server.Server) *echo.Echo {
	mw := NewMiddlewares(s)
	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext(), mw.Global.Recover())
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.ErrorResponse {
	t.Helper()
	var body errs.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "http error as is",
			err:        errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{Field: "name", Message: "Name is required"}}, nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
			wantMsg:    "Validation failed",
		},
		{
			name:       "missing document",
			err:        dberr.WithTable(mongo.ErrNoDocuments, "brands"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Brand not found.",
		},
		{
			name:       "duplicate name",
			err:        dberr.NewUniqueViolation("brands", "name"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BRAND_ALREADY_EXISTS",
			wantMsg:    "Name must be unique. This name is already in use.",
		},
		{
			name:       "echo error keeps status",
			err:        echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "REQUEST_ENTITY_TOO_LARGE",
			wantMsg:    "Request Entity Too Large",
		},
		{
			name:       "method not allowed is route not found",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    RouteNotFoundMessage,
		},
		{
			name:       "unknown error",
			err:        errors.New("socket closed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(newTestServer())
			e.GET("/boom", func(c echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.Error.Status)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}

func TestGlobalErrorHandler_FieldErrors(t *testing.T) {
	e := newTestEcho(newTestServer())
	e.POST("/brands", func(c echo.Context) error {
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{
			{Field: "name", Message: "Name is required"},
		}, nil)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brands", nil))

	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "BAD_REQUEST",
			"message": "Validation failed",
			"statusCode": 400,
			"override": true,
			"errors": [{"field": "name", "message": "Name is required"}],
			"action": null
		}
	}`, rec.Body.String())
}

func TestGlobalErrorHandler_RouteNotFound(t *testing.T) {
	e := newTestEcho(newTestServer())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, RouteNotFoundMessage, decodeError(t, rec).Error.Message)
}

func TestGlobalErrorHandler_UnknownMethodIsRouteNotFound(t *testing.T) {
	e := newTestEcho(newTestServer())
	e.GET("/brands/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/brands/1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, RouteNotFoundMessage, body.Error.Message)
	assert.Equal(t, http.StatusNotFound, body.Error.Status)
	assert.Contains(t, rec.Body.String(), `"action":null`)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusOf(nil, http.StatusOK))
	assert.Equal(t, http.StatusNotFound, statusOf(echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed))
	assert.Equal(t, http.StatusBadRequest, statusOf(errs.NewBadRequestError("bad", false, nil, nil, nil), 0))
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("socket closed"), 0))
}

func TestGlobalErrorHandler_Panic(t *testing.T) {
	e := newTestEcho(newTestServer())
	e.GET("/panic", func(c echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestID(t *testing.T) {
	e := newTestEcho(newTestServer())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestEnhanceContext_StoresLogger(t *testing.T) {
	e := newTestEcho(newTestServer())
	var fromEcho, fromCtx *zerolog.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = zerolog.Ctx(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, fromEcho)
	require.NotNil(t, fromCtx)
}

func TestValidateObjectID(t *testing.T) {
	e := newTestEcho(newTestServer())
	e.GET("/brands/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, ValidateObjectID("id"))

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brands/65a1f0c2e4b0a1b2c3d4e5f6", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	for _, id := range []string{"123", "zzzzzzzzzzzzzzzzzzzzzzzz", "65a1f0c2e4b0a1b2c3d4e5f6aa"} {
		t.Run(id, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brands/"+id, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, errs.InvalidIDMessage, decodeError(t, rec).Error.Message)
		})
	}
}

// memoryCounter implements counter in memory.
type memoryCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memoryCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memoryCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestRedisLimiterStore_FixedWindow(t *testing.T) {
	logger := zerolog.Nop()
	mem := newMemoryCounter()
	store := NewRedisLimiterStore(mem, 2, time.Minute, &logger)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := store.Allow("1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := store.Allow("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "third request in the window is denied")

	ok, _ = store.Allow("5.6.7.8")
	assert.True(t, ok, "other clients have their own budget")

	now = now.Add(time.Minute)
	ok, _ = store.Allow("1.2.3.4")
	assert.True(t, ok, "a new window resets the budget")

	for _, ttl := range mem.expires {
		assert.Equal(t, time.Minute, ttl)
	}
}

func TestRedisLimiterStore_FailsOpen(t *testing.T) {
	logger := zerolog.Nop()
	mem := newMemoryCounter()
	mem.err = errors.New("connection refused")
	store := NewRedisLimiterStore(mem, 1, time.Minute, &logger)

	ok, err := store.Allow("1.2.3.4")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimitMiddleware_Denies(t *testing.T) {
	s := newTestServer()
	logger := zerolog.Nop()
	store := NewRedisLimiterStore(newMemoryCounter(), 1, time.Minute, &logger)

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).limitWithStore(store, time.Minute))
	e.GET("/api/brands", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/brands", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/brands", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	body := decodeError(t, rec)
	assert.Equal(t, RateLimitMessage, body.Error.Message)
	require.NotNil(t, body.Error.Action)
	assert.Equal(t, errs.ActionTypeRetry, body.Error.Action.Type)
}

func TestRateLimitMiddleware_DisabledWithoutRedis(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
