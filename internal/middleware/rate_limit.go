package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/deppfellow/gameday/internal/errs"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware limits requests per client IP using a sliding window
// counter and records every rejection.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiting middleware. With no request budget configured it
// passes every request through.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if cfg.Requests <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return echo.WrapMiddleware(httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(r.rejected),
	))
}

func (r *RateLimitMiddleware) rejected(w http.ResponseWriter, req *http.Request) {
	r.RecordRateLimitHit(req.URL.Path)

	r.server.Logger.Warn().
		Str("path", req.URL.Path).
		Str("remote_addr", req.RemoteAddr).
		Msg("rate limit exceeded")

	body := errs.NewTooManyRequestsError("Too many requests, retry later")
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(body)
}

// RecordRateLimitHit sends a RateLimitHit event to New Relic when APM is on.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
