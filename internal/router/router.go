package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guuleed/prison-records/internal/handler"
	"github.com/guuleed/prison-records/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: the health check
// and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and the refresh/logout family are open; verify-secret runs behind the
// temp-token middleware so only a controller who just passed the
// password check can reach it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/verify-secret", a.VerifySecret, middleware.TempAuth(jwtSecret))
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
}
