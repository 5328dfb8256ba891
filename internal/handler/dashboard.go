package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guuleed/prison-records/internal/repository"
)

// DashboardHandler serves the aggregate counters and intake charts.
type DashboardHandler struct {
	Dash *repository.DashboardRepo
}

func NewDashboardHandler(d *repository.DashboardRepo) *DashboardHandler {
	return &DashboardHandler{Dash: d}
}

// Stats handles GET /v1/dashboard/stats.
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.Dash.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stats})
}

// Chart handles GET /v1/dashboard/chart?period=daily|weekly|monthly|yearly|live.
// Unknown periods fall back to monthly.
func (h *DashboardHandler) Chart(c echo.Context) error {
	period := repository.NormalizePeriod(c.QueryParam("period"))
	points, err := h.Dash.IntakeChart(c.Request().Context(), period)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"period": period, "data": points})
}
