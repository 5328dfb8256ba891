package router

import (
	"github.com/labstack/echo/v4"

	"github.com/guuleed/prison-records/internal/handler"
	"github.com/guuleed/prison-records/internal/middleware"
	"github.com/guuleed/prison-records/internal/model"
)

// RegisterProtected registers everything that needs a session.  The
// dashboard, export and self-service endpoints accept both roles; every
// mutation is controller-only.
func RegisterProtected(
	e *echo.Echo,
	jwtSecret string,
	d *handler.DetaineeHandler,
	r *handler.RoomHandler,
	p *handler.PrisonHandler,
	u *handler.UserHandler,
	dash *handler.DashboardHandler,
	exp *handler.ExportHandler,
) {
	authed := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	authed.GET("/me", u.Me)
	authed.PUT("/me", u.UpdateMe)
	authed.GET("/dashboard/stats", dash.Stats)
	authed.GET("/dashboard/chart", dash.Chart)
	authed.GET("/export", exp.Export)

	ctl := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleController),
	)

	ctl.POST("/detainees", d.Create)
	ctl.PUT("/detainees/:id", d.Update)
	ctl.DELETE("/detainees/:id", d.Delete)
	ctl.POST("/detainees/:id/restore", d.Restore)
	ctl.DELETE("/detainees/:id/permanent", d.DeletePermanent)
	ctl.POST("/detainees/:id/status", d.ChangeStatus)
	ctl.POST("/detainees/:id/payments", d.AddPayment)
	ctl.DELETE("/detainees/:id/payments/:paymentID", d.RemovePayment)

	ctl.POST("/rooms", r.Create)
	ctl.PUT("/rooms/:id", r.Update)
	ctl.DELETE("/rooms/:id", r.Delete)
	ctl.POST("/rooms/:id/restore", r.Restore)
	ctl.DELETE("/rooms/:id/permanent", r.DeletePermanent)

	ctl.POST("/prisons", p.Create)
	ctl.PUT("/prisons/:id", p.Update)
	ctl.DELETE("/prisons/:id", p.Delete)
	ctl.POST("/prisons/:id/restore", p.Restore)
	ctl.DELETE("/prisons/:id/permanent", p.DeletePermanent)

	ctl.GET("/users", u.List)
	ctl.POST("/users", u.Create)
	ctl.PUT("/users/:id", u.Update)
	ctl.POST("/users/:id/disable", u.SetDisabled(true))
	ctl.POST("/users/:id/enable", u.SetDisabled(false))
}
