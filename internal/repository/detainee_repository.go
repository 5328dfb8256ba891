// Package repository contains data access logic separated from HTTP handlers.
// This file defines the DetaineeRepo: CRUD for detainee records and their
// owned payments.  Mutations follow a read-modify-write pattern: callers
// load the record, run the lifecycle or ledger logic on it, then Replace
// writes the full record (row plus payments) back in one transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guuleed/prison-records/internal/model"
)

const detaineeColumns = `id, code, national_id, full_name, photo_url, room_id, prison_id,
	phone, parent_name, parent_phone, crime_type, crime_type_other, dob, gender,
	judgment, overview, status, place_of_birth, time_held_start, paused_remaining_ms,
	release_date, fine_amount, created_by, deleted_at, created_at, updated_at`

// DetaineeRepo encapsulates all database queries related to detainees.
type DetaineeRepo struct {
	db *sql.DB
}

func NewDetaineeRepo(db *sql.DB) *DetaineeRepo {
	return &DetaineeRepo{db: db}
}

// Create inserts a new detainee.  On success the ID field is populated
// with the auto-generated value and the timestamp fields are read back so
// callers receive a fully populated record.
func (r *DetaineeRepo) Create(ctx context.Context, d *model.Detainee) error {
	const q = `INSERT INTO detainees
		(code, national_id, full_name, photo_url, room_id, prison_id, phone,
		 parent_name, parent_phone, crime_type, crime_type_other, dob, gender,
		 judgment, overview, status, place_of_birth, time_held_start,
		 paused_remaining_ms, release_date, fine_amount, created_by, deleted_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		d.Code, d.NationalID, d.FullName, d.PhotoURL, d.RoomID, d.PrisonID, d.Phone,
		d.ParentName, d.ParentPhone, d.CrimeType, d.CrimeTypeOther, d.DOB, d.Gender,
		d.Judgment, d.Overview, d.Status, d.PlaceOfBirth, d.TimeHeldStart,
		d.PausedRemainingMs, d.ReleaseDate, d.FineAmount, d.CreatedBy, d.DeletedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM detainees WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, d.ID).Scan(&d.CreatedAt, &d.UpdatedAt)
}

// GetByID fetches a detainee and its payments.  Returns ErrNotFound when
// no row exists.  Soft-deleted records are still returned; visibility is a
// listing concern, and restore/permanent-delete need the row.
func (r *DetaineeRepo) GetByID(ctx context.Context, id uint64) (*model.Detainee, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+detaineeColumns+" FROM detainees WHERE id = ?", id)
	d, err := scanDetainee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if d.Payments, err = r.loadPayments(ctx, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// Replace writes the full detainee back: every mutable column plus the
// payments list, as one transaction.  Payments are replaced wholesale
// (delete then insert) so the stored list always mirrors the in-memory
// record, matching full-document-replace semantics.
func (r *DetaineeRepo) Replace(ctx context.Context, d *model.Detainee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM detainees WHERE id = ? FOR UPDATE", d.ID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}

	const q = `UPDATE detainees SET
		national_id = ?, full_name = ?, photo_url = ?, room_id = ?, prison_id = ?,
		phone = ?, parent_name = ?, parent_phone = ?, crime_type = ?, crime_type_other = ?,
		dob = ?, gender = ?, judgment = ?, overview = ?, status = ?, place_of_birth = ?,
		time_held_start = ?, paused_remaining_ms = ?, release_date = ?, fine_amount = ?,
		deleted_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	if _, err = tx.ExecContext(ctx, q,
		d.NationalID, d.FullName, d.PhotoURL, d.RoomID, d.PrisonID,
		d.Phone, d.ParentName, d.ParentPhone, d.CrimeType, d.CrimeTypeOther,
		d.DOB, d.Gender, d.Judgment, d.Overview, d.Status, d.PlaceOfBirth,
		d.TimeHeldStart, d.PausedRemainingMs, d.ReleaseDate, d.FineAmount,
		d.DeletedAt, d.ID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM payments WHERE detainee_id = ?", d.ID); err != nil {
		return err
	}
	for i, p := range d.Payments {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO payments (id, detainee_id, pos, amount, paid_at, paid_by, note) VALUES (?,?,?,?,?,?,?)",
			p.ID, d.ID, i, p.Amount, p.Date, p.PaidBy, p.Note); err != nil {
			return err
		}
	}
	return nil
}

// SetDeleted stamps or clears the soft-delete marker.  A nil timestamp
// restores the record.
func (r *DetaineeRepo) SetDeleted(ctx context.Context, id uint64, ts *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE detainees SET deleted_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", ts, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish missing rows from no-op updates
		var exists uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM detainees WHERE id = ?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// DeletePermanent removes a detainee and its owned payments for good.
func (r *DetaineeRepo) DeletePermanent(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM payments WHERE detainee_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM detainees WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// HasActiveByRoom reports whether any non-deleted detainee is assigned to
// the room.  Used to block permanent room deletion.
func (r *DetaineeRepo) HasActiveByRoom(ctx context.Context, roomID uint64) (bool, error) {
	return r.hasActive(ctx, "room_id", roomID)
}

// HasActiveByPrison reports whether any non-deleted detainee references
// the prison.  Used to block permanent prison deletion.
func (r *DetaineeRepo) HasActiveByPrison(ctx context.Context, prisonID uint64) (bool, error) {
	return r.hasActive(ctx, "prison_id", prisonID)
}

func (r *DetaineeRepo) hasActive(ctx context.Context, column string, id uint64) (bool, error) {
	var one uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM detainees WHERE "+column+" = ? AND deleted_at IS NULL LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountActiveByRoom returns the number of non-deleted detainees assigned
// to the room.
func (r *DetaineeRepo) CountActiveByRoom(ctx context.Context, roomID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM detainees WHERE room_id = ? AND deleted_at IS NULL", roomID).Scan(&n)
	return n, err
}

// CountActiveByPrison returns the number of non-deleted detainees
// referencing the prison.
func (r *DetaineeRepo) CountActiveByPrison(ctx context.Context, prisonID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM detainees WHERE prison_id = ? AND deleted_at IS NULL", prisonID).Scan(&n)
	return n, err
}

func (r *DetaineeRepo) loadPayments(ctx context.Context, detaineeID uint64) ([]model.Payment, error) {
	// pos is rewritten from slice order on every Replace, so the list
	// reads back exactly as it was appended even with equal paid_at.
	const q = `SELECT id, amount, paid_at, paid_by, note
	           FROM payments WHERE detainee_id = ? ORDER BY pos`
	rows, err := r.db.QueryContext(ctx, q, detaineeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Date, &p.PaidBy, &p.Note); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetainee(row rowScanner) (*model.Detainee, error) {
	var (
		d                model.Detainee
		roomID, prisonID sql.NullInt64
		createdBy        sql.NullInt64
		dob, held        sql.NullTime
		pausedMs         sql.NullInt64
		release, deleted sql.NullTime
	)
	if err := row.Scan(
		&d.ID, &d.Code, &d.NationalID, &d.FullName, &d.PhotoURL, &roomID, &prisonID,
		&d.Phone, &d.ParentName, &d.ParentPhone, &d.CrimeType, &d.CrimeTypeOther, &dob, &d.Gender,
		&d.Judgment, &d.Overview, &d.Status, &d.PlaceOfBirth, &held, &pausedMs,
		&release, &d.FineAmount, &createdBy, &deleted, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if roomID.Valid {
		v := uint64(roomID.Int64)
		d.RoomID = &v
	}
	if prisonID.Valid {
		v := uint64(prisonID.Int64)
		d.PrisonID = &v
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		d.CreatedBy = &v
	}
	if dob.Valid {
		d.DOB = &dob.Time
	}
	if held.Valid {
		d.TimeHeldStart = &held.Time
	}
	if pausedMs.Valid {
		d.PausedRemainingMs = &pausedMs.Int64
	}
	if release.Valid {
		d.ReleaseDate = &release.Time
	}
	if deleted.Valid {
		d.DeletedAt = &deleted.Time
	}
	return &d, nil
}
