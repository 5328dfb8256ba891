package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/guuleed/prison-records/internal/metrics"
	"github.com/guuleed/prison-records/internal/model"
	"github.com/guuleed/prison-records/internal/queue"
	"github.com/guuleed/prison-records/internal/repository"
	queue_publisher "github.com/guuleed/prison-records/internal/service"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// DetaineeHandler owns the detainee record endpoints: search, CRUD,
// lifecycle transitions and the fine ledger.
type DetaineeHandler struct {
	Detainees *repository.DetaineeRepo
	Seq       *repository.SequenceRepo
	Publisher *queue_publisher.Publisher
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

func NewDetaineeHandler(d *repository.DetaineeRepo, s *repository.SequenceRepo, p *queue_publisher.Publisher, m *metrics.Metrics, log *zap.Logger) *DetaineeHandler {
	return &DetaineeHandler{Detainees: d, Seq: s, Publisher: p, Metrics: m, Log: log}
}

// notify publishes a detainee event best-effort.  Failures are counted
// and logged, never surfaced to the request.
func (h *DetaineeHandler) notify(c echo.Context, kind string, row repository.DetaineeRow) {
	outcome := "ok"
	if err := h.Publisher.PublishDetaineeEvent(c.Request().Context(), kind, row); err != nil {
		outcome = "error"
	}
	h.Metrics.IncrementEventPublished(kind, outcome)
}

// searchQueryFrom reads the shared filter parameters.  Pagination is
// normalized here: page is 1-based, per_page defaults to 20 and is
// capped at 100.
func searchQueryFrom(c echo.Context) repository.DetaineeSearchQuery {
	q := repository.DetaineeSearchQuery{
		Text:           c.QueryParam("q"),
		Status:         c.QueryParam("status"),
		CrimeType:      c.QueryParam("crime_type"),
		RoomID:         queryUint(c, "room_id"),
		PrisonID:       queryUint(c, "prison_id"),
		MinAge:         queryInt(c, "min_age"),
		MaxAge:         queryInt(c, "max_age"),
		IncludeDeleted: queryBool(c, "include_deleted"),
		Page:           queryInt(c, "page"),
		PerPage:        queryInt(c, "per_page"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

// List handles GET /v1/detainees with the compound search filter.
func (h *DetaineeHandler) List(c echo.Context) error {
	q := searchQueryFrom(c)
	rows, total, err := h.Detainees.Search(c.Request().Context(), q)
	if err != nil {
		h.Log.Error("detainee search failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":     rows,
		"total":    total,
		"page":     q.Page,
		"per_page": q.PerPage,
	})
}

// Get handles GET /v1/detainees/:id and returns the materialized row.
func (h *DetaineeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	row, err := h.Detainees.GetRow(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	d, err := h.Detainees.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": row, "payments": paymentsOut(d.Payments)})
}

type paymentOut struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	PaidBy string    `json:"paid_by"`
	Note   string    `json:"note,omitempty"`
}

func paymentsOut(ps []model.Payment) []paymentOut {
	out := make([]paymentOut, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentOut{ID: p.ID, Amount: p.Amount, Date: p.Date, PaidBy: p.PaidBy, Note: p.Note})
	}
	return out
}

// detaineeBody enumerates every writable detainee field.  All fields are
// optional pointers so the same shape serves create (nil means zero
// value) and update (nil means leave unchanged); dates arrive as
// YYYY-MM-DD, timestamps as RFC3339.
type detaineeBody struct {
	NationalID     *string  `json:"national_id"`
	FullName       *string  `json:"full_name"`
	PhotoURL       *string  `json:"photo_url"`
	RoomID         *uint64  `json:"room_id"`
	PrisonID       *uint64  `json:"prison_id"`
	Phone          *string  `json:"phone"`
	ParentName     *string  `json:"parent_name"`
	ParentPhone    *string  `json:"parent_phone"`
	CrimeType      *string  `json:"crime_type"`
	CrimeTypeOther *string  `json:"crime_type_other"`
	DOB            *string  `json:"dob"`
	Gender         *string  `json:"gender"`
	Judgment       *string  `json:"judgment"`
	Overview       *string  `json:"overview"`
	Status         *string  `json:"status"`
	PlaceOfBirth   *string  `json:"place_of_birth"`
	TimeHeldStart  *string  `json:"time_held_start"`
	ReleaseDate    *string  `json:"release_date"`
	FineAmount     *float64 `json:"fine_amount"`
}

// apply merges the body into the record field by field, validating as it
// goes.  It returns a client-facing message when validation fails.
func (b *detaineeBody) apply(d *model.Detainee) string {
	if b.FullName != nil {
		v := strings.TrimSpace(*b.FullName)
		if v == "" {
			return "full_name must not be empty"
		}
		d.FullName = v
	}
	if b.NationalID != nil {
		d.NationalID = strings.TrimSpace(*b.NationalID)
	}
	if b.PhotoURL != nil {
		d.PhotoURL = strings.TrimSpace(*b.PhotoURL)
	}
	if b.RoomID != nil {
		if *b.RoomID == 0 {
			d.RoomID = nil
		} else {
			d.RoomID = b.RoomID
		}
	}
	if b.PrisonID != nil {
		if *b.PrisonID == 0 {
			d.PrisonID = nil
		} else {
			d.PrisonID = b.PrisonID
		}
	}
	if b.Phone != nil {
		d.Phone = strings.TrimSpace(*b.Phone)
	}
	if b.ParentName != nil {
		d.ParentName = strings.TrimSpace(*b.ParentName)
	}
	if b.ParentPhone != nil {
		d.ParentPhone = strings.TrimSpace(*b.ParentPhone)
	}
	if b.CrimeType != nil {
		d.CrimeType = strings.TrimSpace(*b.CrimeType)
	}
	if b.CrimeTypeOther != nil {
		d.CrimeTypeOther = strings.TrimSpace(*b.CrimeTypeOther)
	}
	if b.DOB != nil {
		if *b.DOB == "" {
			d.DOB = nil
		} else {
			t, err := time.Parse("2006-01-02", *b.DOB)
			if err != nil {
				return "dob must be YYYY-MM-DD"
			}
			d.DOB = &t
		}
	}
	if b.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*b.Gender))
		if g != "" && g != "male" && g != "female" {
			return "gender must be male or female"
		}
		d.Gender = g
	}
	if b.Judgment != nil {
		d.Judgment = *b.Judgment
	}
	if b.Overview != nil {
		d.Overview = *b.Overview
	}
	if b.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*b.Status))
		if !model.ValidStatus(s) {
			return "invalid status"
		}
		d.Status = s
	}
	if b.PlaceOfBirth != nil {
		d.PlaceOfBirth = strings.TrimSpace(*b.PlaceOfBirth)
	}
	if b.TimeHeldStart != nil {
		if *b.TimeHeldStart == "" {
			d.TimeHeldStart = nil
		} else {
			t, err := time.Parse(time.RFC3339, *b.TimeHeldStart)
			if err != nil {
				return "time_held_start must be RFC3339"
			}
			d.TimeHeldStart = &t
		}
	}
	if b.ReleaseDate != nil {
		if *b.ReleaseDate == "" {
			d.ReleaseDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, *b.ReleaseDate)
			if err != nil {
				return "release_date must be RFC3339"
			}
			d.ReleaseDate = &t
		}
	}
	if b.FineAmount != nil {
		if *b.FineAmount < 0 {
			return "fine_amount must not be negative"
		}
		paid := 0.0
		for _, p := range d.Payments {
			paid += p.Amount
		}
		if *b.FineAmount < paid {
			return "fine_amount must not be below the amount already paid"
		}
		d.FineAmount = *b.FineAmount
	}
	return ""
}

// Create handles POST /v1/detainees.  The record code is minted from the
// per-day sequence and can never be supplied by the client.
func (h *DetaineeHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body detaineeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.FullName == nil || strings.TrimSpace(*body.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
	}

	ctx := c.Request().Context()
	d := model.NewDetainee(uid)
	if msg := body.apply(d); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	code, err := h.Seq.NextDetaineeCode(ctx, time.Now())
	if err != nil {
		h.Log.Error("mint detainee code failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	d.Code = code

	if err := h.Detainees.Create(ctx, d); err != nil {
		h.Log.Error("create detainee failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}

	row, err := h.Detainees.GetRow(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.notify(c, queue.EventCreated, *row)
	return c.JSON(http.StatusCreated, echo.Map{"data": row})
}

// Update handles PUT /v1/detainees/:id with a typed field-by-field
// patch.  The code, payments and soft-delete marker are not editable
// through this endpoint.
func (h *DetaineeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body detaineeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	d, err := h.Detainees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if msg := body.apply(d); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Detainees.Replace(ctx, d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		h.Log.Error("update detainee failed", zap.Error(err), zap.Uint64("id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	row, err := h.Detainees.GetRow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	h.notify(c, queue.EventUpdated, *row)
	return c.JSON(http.StatusOK, echo.Map{"data": row})
}

// Delete handles DELETE /v1/detainees/:id (soft delete).
func (h *DetaineeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	now := time.Now()
	if err := h.Detainees.SetDeleted(c.Request().Context(), id, &now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Restore handles POST /v1/detainees/:id/restore and clears the
// soft-delete marker.
func (h *DetaineeHandler) Restore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Detainees.SetDeleted(c.Request().Context(), id, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore failed"})
	}
	row, err := h.Detainees.GetRow(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": row})
}

// DeletePermanent handles DELETE /v1/detainees/:id/permanent and removes
// the row and its payments for good.
func (h *DetaineeHandler) DeletePermanent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Detainees.DeletePermanent(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		h.Log.Error("permanent delete failed", zap.Error(err), zap.Uint64("id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
