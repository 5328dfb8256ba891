package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/guuleed/prison-records/internal/ledger"
	"github.com/guuleed/prison-records/internal/repository"
)

// AddPayment handles POST /v1/detainees/:id/payments and appends one
// fine payment.  The ledger enforces that the amount is positive and
// never exceeds what is still owed.
func (h *DetaineeHandler) AddPayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Amount float64 `json:"amount"`
		PaidBy string  `json:"paid_by"`
		Note   string  `json:"note"`
	}
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

	p, err := ledger.Append(d, body.Amount, body.PaidBy, body.Note, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be greater than zero"})
		case errors.Is(err, ledger.ErrExceedsRemaining):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount exceeds remaining fine"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}

	if err := h.Detainees.Replace(ctx, d); err != nil {
		h.Log.Error("persist payment failed", zap.Error(err), zap.Uint64("id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	h.Metrics.IncrementPaymentOp("add")

	return c.JSON(http.StatusCreated, echo.Map{
		"payment":   paymentOut{ID: p.ID, Amount: p.Amount, Date: p.Date, PaidBy: p.PaidBy, Note: p.Note},
		"paid":      ledger.PaidTotal(d),
		"remaining": ledger.Remaining(d),
	})
}

// RemovePayment handles DELETE /v1/detainees/:id/payments/:paymentID.
// Removing an unknown payment ID is deliberately a silent no-op: the
// record is still written back and the response is identical.
func (h *DetaineeHandler) RemovePayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	paymentID := c.Param("paymentID")

	ctx := c.Request().Context()
	d, err := h.Detainees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detainee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	ledger.Remove(d, paymentID)

	if err := h.Detainees.Replace(ctx, d); err != nil {
		h.Log.Error("persist payment removal failed", zap.Error(err), zap.Uint64("id", id))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	h.Metrics.IncrementPaymentOp("remove")

	return c.JSON(http.StatusOK, echo.Map{
		"payments":  paymentsOut(d.Payments),
		"paid":      ledger.PaidTotal(d),
		"remaining": ledger.Remaining(d),
	})
}
