package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-records/internal/handler"
	"github.com/iliyamo/fitness-records/internal/metrics"
)

// Guards are the middleware chains shared by the route groups.  Any of them
// may be a pass-through (rate limiting and caching switch off without
// Redis), but Authenticate and RequireAdmin must always be real.
type Guards struct {
	Authenticate echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc
	RateLimit    echo.MiddlewareFunc
	Cache        echo.MiddlewareFunc
}

// RegisterRoutes registers the operational endpoints: a health check for
// load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAuth registers the account routes.  Login and registration are
// open but rate limited; password reset and logout need a live session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	open := e.Group("/records", g.RateLimit)
	open.POST("/login/", a.Login)
	open.POST("/register/", a.Register)

	authed := e.Group("/records", g.Authenticate, g.Cache)
	authed.POST("/reset-password/", a.ResetPassword)
	authed.POST("/logout/", a.Logout)
}
