// This file defines repository methods for rooms.  A room belongs to at
// most one prison and may be referenced by any number of detainees; the
// permanent delete is blocked while active detainees still reference it.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/guuleed/prison-records/internal/model"
)

const roomColumns = "id, code, name, capacity, prison_id, deleted_at, created_at, updated_at"

// RoomRepo encapsulates all database queries related to rooms.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room and reads back the generated id and
// timestamps so callers receive a fully populated record.
func (r *RoomRepo) Create(ctx context.Context, m *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (code, name, capacity, prison_id) VALUES (?,?,?,?)",
		m.Code, m.Name, m.Capacity, m.PrisonID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM rooms WHERE id = ?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a room regardless of its soft-delete state.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id)
	m, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns rooms ordered newest first.  Soft-deleted rooms are
// excluded unless includeDeleted is set; prisonID of 0 means no prison
// filter.
func (r *RoomRepo) List(ctx context.Context, includeDeleted bool, prisonID uint64) ([]*model.Room, error) {
	q := "SELECT " + roomColumns + " FROM rooms"
	where := ""
	args := []any{}
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}
	if prisonID != 0 {
		if where == "" {
			where = " WHERE prison_id = ?"
		} else {
			where += " AND prison_id = ?"
		}
		args = append(args, prisonID)
	}
	rows, err := r.db.QueryContext(ctx, q+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		m, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update overwrites the mutable room fields.  The code is immutable.
func (r *RoomRepo) Update(ctx context.Context, id uint64, name string, capacity int, prisonID *uint64) (*model.Room, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET name = ?, capacity = ?, prison_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, capacity, prisonID, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// SetDeleted stamps or clears the soft-delete marker.
func (r *RoomRepo) SetDeleted(ctx context.Context, id uint64, ts *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET deleted_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", ts, id)
	return err
}

// DeletePermanent removes the room for good.  It returns ErrConflict
// while any non-deleted detainee is still assigned to the room, and
// ErrNotFound when the room does not exist.
func (r *RoomRepo) DeletePermanent(ctx context.Context, id uint64) error {
	var one uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM detainees WHERE room_id = ? AND deleted_at IS NULL LIMIT 1", id).Scan(&one)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRoom(row rowScanner) (*model.Room, error) {
	var (
		m        model.Room
		prisonID sql.NullInt64
		deleted  sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Capacity, &prisonID, &deleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if prisonID.Valid {
		v := uint64(prisonID.Int64)
		m.PrisonID = &v
	}
	if deleted.Valid {
		m.DeletedAt = &deleted.Time
	}
	return &m, nil
}
