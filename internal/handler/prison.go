package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guuleed/prison-records/internal/model"
	"github.com/guuleed/prison-records/internal/repository"
)

// PrisonHandler owns the facility CRUD endpoints.
type PrisonHandler struct {
	Prisons   *repository.PrisonRepo
	Detainees *repository.DetaineeRepo
	Seq       *repository.SequenceRepo
}

func NewPrisonHandler(p *repository.PrisonRepo, d *repository.DetaineeRepo, s *repository.SequenceRepo) *PrisonHandler {
	return &PrisonHandler{Prisons: p, Detainees: d, Seq: s}
}

type prisonBody struct {
	Name     *string `json:"name"`
	Region   *string `json:"region"`
	District *string `json:"district"`
	Location *string `json:"location"`
}

// List handles GET /v1/prisons.  With ?with_counts=true each facility
// carries its room and active detainee counts.
func (h *PrisonHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	includeDeleted := queryBool(c, "include_deleted")
	if queryBool(c, "with_counts") {
		out, err := h.Prisons.ListWithCounts(ctx, includeDeleted)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"data": out})
	}
	out, err := h.Prisons.List(ctx, includeDeleted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Get handles GET /v1/prisons/:id: the facility, its rooms with per-room
// occupant counts, and the facility-wide detainee total.
func (h *PrisonHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	prison, err := h.Prisons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prison not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rooms, err := h.Prisons.RoomsWithCounts(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	total, err := h.Detainees.CountActiveByPrison(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": prison, "rooms": rooms, "detainees": total})
}

// Create handles POST /v1/prisons.  The facility code is minted from
// the global PRN sequence.
func (h *PrisonHandler) Create(c echo.Context) error {
	var body prisonBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx := c.Request().Context()
	code, err := h.Seq.NextPrisonCode(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	prison := &model.Prison{
		Code:     code,
		Name:     strings.TrimSpace(*body.Name),
		Region:   strDeref(body.Region),
		District: strDeref(body.District),
		Location: strDeref(body.Location),
	}
	if err := h.Prisons.Create(ctx, prison); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": prison})
}

// Update handles PUT /v1/prisons/:id.  Absent fields keep their current
// value; the code is immutable.
func (h *PrisonHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body prisonBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	cur, err := h.Prisons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prison not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	name := cur.Name
	if body.Name != nil {
		name = strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
	}
	region, district, location := cur.Region, cur.District, cur.Location
	if body.Region != nil {
		region = strings.TrimSpace(*body.Region)
	}
	if body.District != nil {
		district = strings.TrimSpace(*body.District)
	}
	if body.Location != nil {
		location = strings.TrimSpace(*body.Location)
	}

	prison, err := h.Prisons.Update(ctx, id, name, region, district, location)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": prison})
}

// Delete handles DELETE /v1/prisons/:id (soft delete).
func (h *PrisonHandler) Delete(c echo.Context) error {
	return h.setDeleted(c, true)
}

// Restore handles POST /v1/prisons/:id/restore.
func (h *PrisonHandler) Restore(c echo.Context) error {
	return h.setDeleted(c, false)
}

func (h *PrisonHandler) setDeleted(c echo.Context, deleted bool) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Prisons.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prison not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Prisons.SetDeleted(ctx, id, nowPtr(deleted)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if deleted {
		return c.NoContent(http.StatusNoContent)
	}
	prison, err := h.Prisons.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": prison})
}

// DeletePermanent handles DELETE /v1/prisons/:id/permanent.  Blocked
// with 409 while active detainees still reference the facility.
func (h *PrisonHandler) DeletePermanent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Prisons.DeletePermanent(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "prison still has active detainees"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prison not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
