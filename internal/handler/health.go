package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/gameday/internal/middleware"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/labstack/echo/v4"
)

const defaultHealthCheckTimeout = 5 * time.Second

// Pinger is a dependency GET /status can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service and the database are usable.
// Load balancers and uptime monitors poll it.
type HealthHandler struct {
	Handler
	db Pinger
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}
	if s.DB != nil {
		h.db = s.DB
	}
	return h
}

// WithPinger replaces the database probe.
func (h *HealthHandler) WithPinger(p Pinger) *HealthHandler {
	h.db = p
	return h
}

type healthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]healthCheck `json:"checks"`
}

// CheckHealth answers 200 when every enabled check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := h.server.Clock.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   start.UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]healthCheck),
	}

	if h.checkEnabled("database") {
		check := h.pingDatabase(c.Request().Context())
		response.Checks["database"] = check

		if check.Status != "healthy" {
			response.Status = "unhealthy"
			logger.Error().
				Str("error", check.Error).
				Str("response_time", check.ResponseTime).
				Msg("database health check failed")
			h.recordFailure("database", check)
		}
	}

	if response.Status != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", h.server.Clock.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

// checkEnabled reports whether the named dependency is probed.
// Without observability config every known check runs; with health checks
// disabled the endpoint only reports liveness.
func (h *HealthHandler) checkEnabled(name string) bool {
	obs := h.server.Config.Observability
	if obs == nil {
		return true
	}
	if !obs.HealthChecks.Enabled {
		return false
	}
	return len(obs.HealthChecks.Checks) == 0 || slices.Contains(obs.HealthChecks.Checks, name)
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return defaultHealthCheckTimeout
}

func (h *HealthHandler) pingDatabase(ctx context.Context) healthCheck {
	if h.db == nil {
		return healthCheck{Status: "unhealthy", ResponseTime: "0s", Error: "database not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()

	begin := h.server.Clock.Now()
	err := h.db.Ping(ctx)
	elapsed := h.server.Clock.Since(begin).String()

	if err != nil {
		return healthCheck{Status: "unhealthy", ResponseTime: elapsed, Error: err.Error()}
	}
	return healthCheck{Status: "healthy", ResponseTime: elapsed}
}

func (h *HealthHandler) recordFailure(checkType string, check healthCheck) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":    checkType,
		"operation":     "health_check",
		"error_type":    checkType + "_unhealthy",
		"response_time": check.ResponseTime,
		"error_message": check.Error,
	})
}
