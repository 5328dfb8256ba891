package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/guuleed/prison-records/internal/lifecycle"
	"github.com/guuleed/prison-records/internal/queue"
	"github.com/guuleed/prison-records/internal/repository"
)

// ChangeStatus handles POST /v1/detainees/:id/status.  The body names
// one transition action; the pause/resume arithmetic lives in the
// lifecycle package.  Observers learn about the transition through the
// detainee event stream, best-effort.
func (h *DetaineeHandler) ChangeStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	action := lifecycle.Action(strings.ToLower(strings.TrimSpace(body.Action)))

	ctx := c.Request().Context()
	d, err := h.Detainees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := lifecycle.Apply(d, action, time.Now()); err != nil {
		if errors.Is(err, lifecycle.ErrUnknownAction) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	if err := h.Detainees.Replace(ctx, d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		h.Log.Error("persist transition failed", zap.Error(err), zap.Uint64("id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}
	h.Metrics.IncrementTransition(string(action))

	row, err := h.Detainees.GetRow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	h.notify(c, queue.EventStatus, *row)
	return c.JSON(http.StatusOK, echo.Map{"data": row})
}
