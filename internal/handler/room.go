package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guuleed/prison-records/internal/model"
	"github.com/guuleed/prison-records/internal/repository"
)

// RoomHandler owns the room CRUD endpoints.
type RoomHandler struct {
	Rooms     *repository.RoomRepo
	Detainees *repository.DetaineeRepo
	Seq       *repository.SequenceRepo
}

func NewRoomHandler(r *repository.RoomRepo, d *repository.DetaineeRepo, s *repository.SequenceRepo) *RoomHandler {
	return &RoomHandler{Rooms: r, Detainees: d, Seq: s}
}

type roomBody struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity"`
	PrisonID *uint64 `json:"prison_id"`
}

// List handles GET /v1/rooms with optional include_deleted and
// prison_id filters.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context(), queryBool(c, "include_deleted"), queryUint(c, "prison_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rooms})
}

// Get handles GET /v1/rooms/:id and includes the current occupant count.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	occupants, err := h.Detainees.CountActiveByRoom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": room, "occupants": occupants})
}

// Create handles POST /v1/rooms.  The room code is minted from the
// global RM sequence.
func (h *RoomHandler) Create(c echo.Context) error {
	var body roomBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	capacity := 0
	if body.Capacity != nil {
		if *body.Capacity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must not be negative"})
		}
		capacity = *body.Capacity
	}

	ctx := c.Request().Context()
	code, err := h.Seq.NextRoomCode(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	room := &model.Room{
		Code:     code,
		Name:     strings.TrimSpace(*body.Name),
		Capacity: capacity,
		PrisonID: body.PrisonID,
	}
	if err := h.Rooms.Create(ctx, room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": room})
}

// Update handles PUT /v1/rooms/:id.  Absent fields keep their current
// value; the code is immutable.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body roomBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	cur, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
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
	capacity := cur.Capacity
	if body.Capacity != nil {
		if *body.Capacity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must not be negative"})
		}
		capacity = *body.Capacity
	}
	prisonID := cur.PrisonID
	if body.PrisonID != nil {
		if *body.PrisonID == 0 {
			prisonID = nil
		} else {
			prisonID = body.PrisonID
		}
	}

	room, err := h.Rooms.Update(ctx, id, name, capacity, prisonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": room})
}

// Delete handles DELETE /v1/rooms/:id (soft delete).
func (h *RoomHandler) Delete(c echo.Context) error {
	return h.setDeleted(c, true)
}

// Restore handles POST /v1/rooms/:id/restore.
func (h *RoomHandler) Restore(c echo.Context) error {
	return h.setDeleted(c, false)
}

func (h *RoomHandler) setDeleted(c echo.Context, deleted bool) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	ts := nowPtr(deleted)
	if err := h.Rooms.SetDeleted(ctx, id, ts); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if deleted {
		return c.NoContent(http.StatusNoContent)
	}
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": room})
}

// DeletePermanent handles DELETE /v1/rooms/:id/permanent.  Blocked with
// 409 while active detainees are still assigned to the room.
func (h *RoomHandler) DeletePermanent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.DeletePermanent(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room still has active detainees"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
