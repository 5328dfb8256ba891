package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/guuleed/prison-records/internal/export"
	"github.com/guuleed/prison-records/internal/repository"
)

// ExportHandler renders filtered detainee listings as downloadable
// reports.  It reuses the exact search filter of the listing endpoint
// with a hard row cap.
type ExportHandler struct {
	Detainees *repository.DetaineeRepo
	Log       *zap.Logger
}

func NewExportHandler(d *repository.DetaineeRepo, log *zap.Logger) *ExportHandler {
	return &ExportHandler{Detainees: d, Log: log}
}

// Export handles GET /v1/export?type=csv|xlsx|json plus the detainee
// search parameters.
func (h *ExportHandler) Export(c echo.Context) error {
	kind := strings.ToLower(c.QueryParam("type"))
	if kind == "" {
		kind = "csv"
	}

	q := searchQueryFrom(c)
	q.Page = 1
	q.PerPage = export.MaxExportRows

	rows, _, err := h.Detainees.Search(c.Request().Context(), q)
	if err != nil {
		h.Log.Error("export search failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}

	name := fmt.Sprintf("detainees-%s", time.Now().Format("2006-01-02"))
	switch kind {
	case "csv":
		out, err := export.CSV(rows)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`.csv"`)
		return c.Blob(http.StatusOK, "text/csv", out)
	case "xlsx":
		out, err := export.XLSX(rows)
		if err != nil {
			h.Log.Error("xlsx render failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`.xlsx"`)
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
	case "json":
		return c.JSON(http.StatusOK, echo.Map{"data": rows})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be csv, xlsx or json"})
}
