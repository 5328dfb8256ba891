// Package ledger implements the fine payment ledger for detainees.  The
// ledger is append-only; the one invariant it guards is that the paid
// total never exceeds the fine amount.  Removal only ever lowers the paid
// total, so it is not re-validated.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/guuleed/prison-records/internal/model"
)

// defaultPaidBy is recorded when the payer field is left empty.
const defaultPaidBy = "unknown"

var (
	// ErrInvalidAmount is returned for a zero or negative payment amount.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrExceedsRemaining is returned when a payment is larger than the
	// unpaid part of the fine.  Nothing is clamped or partially applied.
	ErrExceedsRemaining = errors.New("amount exceeds remaining fine")
)

// PaidTotal sums the amounts of all recorded payments.
func PaidTotal(d *model.Detainee) float64 {
	var sum float64
	for _, p := range d.Payments {
		sum += p.Amount
	}
	return sum
}

// Remaining returns the unpaid part of the fine.
func Remaining(d *model.Detainee) float64 {
	return d.FineAmount - PaidTotal(d)
}

// Append validates and records a payment on d.  paidBy defaults to
// "unknown" when empty.  On success the new payment carries a fresh UUID
// and the given timestamp; on failure d is unchanged.
func Append(d *model.Detainee, amount float64, paidBy, note string, now time.Time) (model.Payment, error) {
	if amount <= 0 {
		return model.Payment{}, ErrInvalidAmount
	}
	if amount > Remaining(d) {
		return model.Payment{}, ErrExceedsRemaining
	}
	if paidBy == "" {
		paidBy = defaultPaidBy
	}
	p := model.Payment{
		ID:     uuid.NewString(),
		Amount: amount,
		Date:   now,
		PaidBy: paidBy,
		Note:   note,
	}
	d.Payments = append(d.Payments, p)
	return p, nil
}

// Remove deletes the payment with the given id and reports whether a
// payment was actually removed.  An unknown id is a no-op, not an error;
// callers persist the record either way.
func Remove(d *model.Detainee, paymentID string) bool {
	for i, p := range d.Payments {
		if p.ID == paymentID {
			d.Payments = append(d.Payments[:i], d.Payments[i+1:]...)
			return true
		}
	}
	return false
}
