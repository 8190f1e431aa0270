// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/gameday/internal/handler"
	"github.com/deppfellow/gameday/internal/middleware"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance serving the whole API.
//
// Global middleware runs in this order: rate limit, request id, New Relic,
// tracing attributes, request logger context, metrics, CORS, secure
// headers, request logging, panic recovery.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Metrics.Record(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)
	registerTeamRoutes(router, h)
	registerGameRoutes(router, h)

	router.GET("/", h.Index.ServeIndex)

	return router
}
