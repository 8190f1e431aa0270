package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/gameday/internal/config"
	"github.com/deppfellow/gameday/internal/errs"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(method, target, nil), rec), rec
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	}
}

func TestStatusFromError(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "http error", err: fmt.Errorf("wrapped: %w", errs.NewNotFoundError("x", true, nil)), want: http.StatusNotFound},
		{name: "echo error", err: echo.ErrMethodNotAllowed, want: http.StatusMethodNotAllowed},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", TableName: "teams"}, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(c, tt.err))
		})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer())

	t.Run("driver error is mapped", func(t *testing.T) {
		c, rec := newTestContext(http.MethodPost, "/games")
		global.GlobalErrorHandler(fmt.Errorf("insert game: %w", &pgconn.PgError{
			Code: "23503", TableName: "games", ConstraintName: "games_home_team_id_fkey",
		}), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "HOME_TEAM_NOT_FOUND", body.Code)
		assert.True(t, body.Override)
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/teams")
		global.GlobalErrorHandler(errors.New("dial tcp 10.0.0.3:5432: connection refused"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
		assert.Equal(t, "Internal Server Error", body.Message)
		assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	})

	t.Run("route not found", func(t *testing.T) {
		c, rec := newTestContext(http.MethodGet, "/nope")
		global.GlobalErrorHandler(echo.ErrNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "NOT_FOUND", body.Code)
		assert.Equal(t, "Route not found", body.Message)
	})

	t.Run("field errors are kept", func(t *testing.T) {
		c, rec := newTestContext(http.MethodPost, "/teams")
		fields := []errs.FieldError{{Field: "name", Error: "is required"}}
		global.GlobalErrorHandler(errs.NewBadRequestError("Validation failed", true, nil, fields, nil), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, fields, decodeError(t, rec).Errors)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})

	c, rec := newTestContext(http.MethodGet, "/")
	require.NoError(t, h(c))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestEnhanceContextStoresLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := newTestServer()
	s.Logger = &logger

	enhancer := NewContextEnhancer(s)
	h := RequestID()(enhancer.EnhanceContext()(func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo")
		zerolog.Ctx(c.Request().Context()).Info().Msg("from context")
		return nil
	}))

	c, rec := newTestContext(http.MethodGet, "/teams")
	require.NoError(t, h(c))

	requestID := rec.Header().Get(RequestIDHeader)
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, requestID, entry["request_id"])
		assert.Equal(t, http.MethodGet, entry["method"])
	}
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/")
	logger := GetLogger(c)

	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	limiter := NewRateLimitMiddleware(newTestServer())

	calls := 0
	h := limiter.Limit()(func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	})

	for range 5 {
		c, rec := newTestContext(http.MethodGet, "/teams")
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 5, calls)
}
