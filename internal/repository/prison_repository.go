// This file defines repository methods for prisons (detention
// facilities).  Prisons are referenced by rooms and detainees; the
// permanent delete is blocked while active detainees still reference one.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/guuleed/prison-records/internal/model"
)

const prisonColumns = "id, code, name, region, district, location, deleted_at, created_at, updated_at"

// PrisonWithCounts is a prison plus its active room and detainee totals,
// used by list and detail views.
type PrisonWithCounts struct {
	model.Prison
	TotalRooms     int64 `json:"total_rooms"`
	TotalDetainees int64 `json:"total_detainees"`
}

// RoomWithCount is a room plus its active occupant count, used by the
// prison detail view.
type RoomWithCount struct {
	model.Room
	TotalDetainees int64 `json:"total_detainees"`
}

// PrisonRepo encapsulates all database queries related to prisons.
type PrisonRepo struct {
	db *sql.DB
}

func NewPrisonRepo(db *sql.DB) *PrisonRepo {
	return &PrisonRepo{db: db}
}

// Create inserts a new prison and reads back the generated id and
// timestamps.
func (r *PrisonRepo) Create(ctx context.Context, m *model.Prison) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO prisons (code, name, region, district, location) VALUES (?,?,?,?,?)",
		m.Code, m.Name, m.Region, m.District, m.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM prisons WHERE id = ?", m.ID).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a prison regardless of its soft-delete state.
func (r *PrisonRepo) GetByID(ctx context.Context, id uint64) (*model.Prison, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+prisonColumns+" FROM prisons WHERE id = ?", id)
	m, err := scanPrison(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns prisons ordered newest first, excluding soft-deleted rows
// unless includeDeleted is set.
func (r *PrisonRepo) List(ctx context.Context, includeDeleted bool) ([]*model.Prison, error) {
	q := "SELECT " + prisonColumns + " FROM prisons"
	if !includeDeleted {
		q += " WHERE deleted_at IS NULL"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Prison
	for rows.Next() {
		m, err := scanPrison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListWithCounts returns prisons with their active room and detainee
// totals resolved in a single query per table.
func (r *PrisonRepo) ListWithCounts(ctx context.Context, includeDeleted bool) ([]PrisonWithCounts, error) {
	cond := "p.deleted_at IS NULL"
	if includeDeleted {
		cond = "1=1"
	}
	q := `SELECT ` + prefixColumns("p", prisonColumns) + `,
		(SELECT COUNT(*) FROM rooms r WHERE r.prison_id = p.id AND r.deleted_at IS NULL),
		(SELECT COUNT(*) FROM detainees d WHERE d.prison_id = p.id AND d.deleted_at IS NULL)
		FROM prisons p WHERE ` + cond + ` ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PrisonWithCounts
	for rows.Next() {
		var (
			pc      PrisonWithCounts
			deleted sql.NullTime
		)
		if err := rows.Scan(&pc.ID, &pc.Code, &pc.Name, &pc.Region, &pc.District, &pc.Location,
			&deleted, &pc.CreatedAt, &pc.UpdatedAt, &pc.TotalRooms, &pc.TotalDetainees); err != nil {
			return nil, err
		}
		if deleted.Valid {
			pc.DeletedAt = &deleted.Time
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// RoomsWithCounts returns the prison's active rooms with per-room
// occupant counts, newest first.  Used by the prison detail view.
func (r *PrisonRepo) RoomsWithCounts(ctx context.Context, prisonID uint64) ([]RoomWithCount, error) {
	q := `SELECT ` + prefixColumns("r", roomColumns) + `,
		(SELECT COUNT(*) FROM detainees d WHERE d.room_id = r.id AND d.deleted_at IS NULL)
		FROM rooms r WHERE r.prison_id = ? AND r.deleted_at IS NULL ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, prisonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoomWithCount
	for rows.Next() {
		var (
			rc       RoomWithCount
			parentID sql.NullInt64
			deleted  sql.NullTime
		)
		if err := rows.Scan(&rc.ID, &rc.Code, &rc.Name, &rc.Capacity, &parentID, &deleted,
			&rc.CreatedAt, &rc.UpdatedAt, &rc.TotalDetainees); err != nil {
			return nil, err
		}
		if parentID.Valid {
			v := uint64(parentID.Int64)
			rc.PrisonID = &v
		}
		if deleted.Valid {
			rc.DeletedAt = &deleted.Time
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// Update overwrites the mutable prison fields.  The code is immutable.
func (r *PrisonRepo) Update(ctx context.Context, id uint64, name, region, district, location string) (*model.Prison, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE prisons SET name = ?, region = ?, district = ?, location = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, region, district, location, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// SetDeleted stamps or clears the soft-delete marker.
func (r *PrisonRepo) SetDeleted(ctx context.Context, id uint64, ts *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE prisons SET deleted_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", ts, id)
	return err
}

// DeletePermanent removes the prison for good.  Returns ErrConflict while
// any non-deleted detainee references it.  Rooms attached to the prison
// are left in place for manual cleanup.
func (r *PrisonRepo) DeletePermanent(ctx context.Context, id uint64) error {
	var one uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM detainees WHERE prison_id = ? AND deleted_at IS NULL LIMIT 1", id).Scan(&one)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM prisons WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias, e.g. prefixColumns("p", "id, name") -> "p.id, p.name".
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

func scanPrison(row rowScanner) (*model.Prison, error) {
	var (
		m       model.Prison
		deleted sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Region, &m.District, &m.Location,
		&deleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if deleted.Valid {
		m.DeletedAt = &deleted.Time
	}
	return &m, nil
}
