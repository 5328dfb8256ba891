package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guuleed/prison-records/internal/model"
)

// Replace rewrites the pos column from slice order so the payment list
// survives a round trip intact even when several payments share the same
// paid_at timestamp.
func TestReplaceWritesPaymentPositions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDetaineeRepo(db)

	paidAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	d := &model.Detainee{
		ID:       42,
		FullName: "Axmed Cali",
		Status:   model.StatusInPrison,
		Payments: []model.Payment{
			{ID: "pay-a", Amount: 50, Date: paidAt, PaidBy: "unknown"},
			{ID: "pay-b", Amount: 25, Date: paidAt, PaidBy: "unknown"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM detainees WHERE id = \? FOR UPDATE`).
		WithArgs(d.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(d.ID))
	mock.ExpectExec(`UPDATE detainees SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM payments WHERE detainee_id = \?`).
		WithArgs(d.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs("pay-a", d.ID, 0, 50.0, paidAt, "unknown", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs("pay-b", d.ID, 1, 25.0, paidAt, "unknown", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), d))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceMissingRowReturnsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDetaineeRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM detainees WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err = repo.Replace(context.Background(), &model.Detainee{ID: 9})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPaymentsOrdersByPosition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDetaineeRepo(db)

	paidAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM payments WHERE detainee_id = \? ORDER BY pos`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "paid_at", "paid_by", "note"}).
			AddRow("pay-a", 50.0, paidAt, "unknown", "").
			AddRow("pay-b", 25.0, paidAt, "father", "partial"))

	got, err := repo.loadPayments(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pay-a", got[0].ID)
	assert.Equal(t, "pay-b", got[1].ID)
	assert.Equal(t, "partial", got[1].Note)
}
