package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guuleed/prison-records/internal/model"
)

func TestAppendTracksRemaining(t *testing.T) {
	now := time.Now()
	d := &model.Detainee{FineAmount: 100}

	_, err := Append(d, 60, "cash", "", now)
	require.NoError(t, err)
	assert.Equal(t, 60.0, PaidTotal(d))
	assert.Equal(t, 40.0, Remaining(d))

	_, err = Append(d, 41, "cash", "", now)
	assert.ErrorIs(t, err, ErrExceedsRemaining)
	assert.Len(t, d.Payments, 1)

	_, err = Append(d, 40, "cash", "", now)
	require.NoError(t, err)
	assert.Equal(t, 100.0, PaidTotal(d))
	assert.Zero(t, Remaining(d))
}

func TestAppendExactRemainingSucceeds(t *testing.T) {
	d := &model.Detainee{FineAmount: 50}
	_, err := Append(d, 50, "", "", time.Now())
	require.NoError(t, err)
	assert.Zero(t, Remaining(d))
}

func TestAppendJustOverRemainingFails(t *testing.T) {
	d := &model.Detainee{FineAmount: 50}
	_, err := Append(d, 50.01, "", "", time.Now())
	assert.ErrorIs(t, err, ErrExceedsRemaining)
	assert.Empty(t, d.Payments)
}

func TestAppendRejectsNonPositiveAmounts(t *testing.T) {
	d := &model.Detainee{FineAmount: 50}
	for _, amount := range []float64{0, -1} {
		_, err := Append(d, amount, "", "", time.Now())
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.Empty(t, d.Payments)
}

func TestAppendDefaultsPaidBy(t *testing.T) {
	now := time.Now()
	d := &model.Detainee{FineAmount: 10}

	p, err := Append(d, 5, "", "note", now)
	require.NoError(t, err)
	assert.Equal(t, "unknown", p.PaidBy)
	assert.Equal(t, "note", p.Note)
	assert.Equal(t, now, p.Date)
	assert.NotEmpty(t, p.ID)
}

func TestRemove(t *testing.T) {
	now := time.Now()
	d := &model.Detainee{FineAmount: 100}
	p1, err := Append(d, 30, "a", "", now)
	require.NoError(t, err)
	p2, err := Append(d, 20, "b", "", now)
	require.NoError(t, err)

	assert.True(t, Remove(d, p1.ID))
	assert.Equal(t, 20.0, PaidTotal(d))
	assert.Equal(t, []model.Payment{p2}, d.Payments)

	// removing an unknown id is a silent no-op
	assert.False(t, Remove(d, "nonexistent-id"))
	assert.Len(t, d.Payments, 1)
}

func TestRemoveThenAppendReopensHeadroom(t *testing.T) {
	now := time.Now()
	d := &model.Detainee{FineAmount: 100}
	p, err := Append(d, 100, "", "", now)
	require.NoError(t, err)

	_, err = Append(d, 1, "", "", now)
	assert.ErrorIs(t, err, ErrExceedsRemaining)

	require.True(t, Remove(d, p.ID))
	_, err = Append(d, 100, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, 100.0, PaidTotal(d))
}
