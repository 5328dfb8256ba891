package router

import (
	"github.com/labstack/echo/v4"

	"github.com/guuleed/prison-records/internal/handler"
)

// RegisterPublic registers the anonymous browse endpoints.  Listings
// and detail views are readable without a session, matching the
// original application; the cache middleware (a pass-through when
// Redis is down) sits only on these read routes.
func RegisterPublic(e *echo.Echo, d *handler.DetaineeHandler, r *handler.RoomHandler, p *handler.PrisonHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)

	g.GET("/detainees", d.List)
	g.GET("/detainees/:id", d.Get)

	g.GET("/rooms", r.List)
	g.GET("/rooms/:id", r.Get)

	g.GET("/prisons", p.List)
	g.GET("/prisons/:id", p.Get)
}
