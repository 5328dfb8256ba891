package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/guuleed/prison-records/internal/lifecycle"
)

// DetaineeSearchQuery defines filters & pagination for searching detainee
// records.  All filters are optional and combine with AND; the free-text
// filter matches code prefix OR national-id OR full-name.
type DetaineeSearchQuery struct {
	Text           string
	Status         string
	CrimeType      string
	RoomID         uint64 // 0 = no room filter
	PrisonID       uint64 // 0 = no prison filter
	MinAge         int    // 0 = no lower bound
	MaxAge         int    // 0 = no upper bound
	IncludeDeleted bool
	Page           int
	PerPage        int
}

// DetaineeRow is one materialized search result: the record plus resolved
// room/prison names and the derived age and fine projections the UI and
// report renderers consume.
type DetaineeRow struct {
	ID                uint64     `json:"id"`
	Code              string     `json:"code"`
	NationalID        string     `json:"national_id"`
	FullName          string     `json:"full_name"`
	PhotoURL          string     `json:"photo_url,omitempty"`
	RoomID            *uint64    `json:"room_id"`
	RoomName          string     `json:"room_name"`
	PrisonID          *uint64    `json:"prison_id"`
	PrisonName        string     `json:"prison_name"`
	CrimeType         string     `json:"crime_type"`
	CrimeTypeOther    string     `json:"crime_type_other,omitempty"`
	Status            string     `json:"status"`
	Gender            string     `json:"gender"`
	DOB               *time.Time `json:"dob"`
	Age               *int       `json:"age"`
	TimeHeldStart     *time.Time `json:"time_held_start"`
	PausedRemainingMs *int64     `json:"paused_remaining_ms"`
	ReleaseDate       *time.Time `json:"release_date"`
	FineAmount        float64    `json:"fine_amount"`
	PaidTotal         float64    `json:"paid_total"`
	RemainingFine     float64    `json:"remaining_fine"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

const detaineeRowSelect = `SELECT d.id, d.code, d.national_id, d.full_name, d.photo_url,
		d.room_id, COALESCE(r.name, '') AS room_name,
		d.prison_id, COALESCE(p.name, '') AS prison_name,
		d.crime_type, d.crime_type_other, d.status, d.gender, d.dob,
		d.time_held_start, d.paused_remaining_ms, d.release_date, d.fine_amount,
		COALESCE((SELECT SUM(pay.amount) FROM payments pay WHERE pay.detainee_id = d.id), 0) AS paid_total,
		d.deleted_at, d.created_at
	FROM detainees d
	LEFT JOIN rooms r ON r.id = d.room_id
	LEFT JOIN prisons p ON p.id = d.prison_id`

// buildDetaineeFilter translates a search query into a WHERE condition and
// its arguments.  Age bounds are translated to a date-of-birth window
// anchored on today's calendar date, matching the listing semantics used
// for exports as well.
func buildDetaineeFilter(q DetaineeSearchQuery, now time.Time) (string, []any) {
	where := []string{}
	args := []any{}

	if !q.IncludeDeleted {
		where = append(where, "d.deleted_at IS NULL")
	}
	if t := strings.ToLower(strings.TrimSpace(q.Text)); t != "" {
		where = append(where, "(LOWER(d.code) LIKE ? OR LOWER(d.national_id) LIKE ? OR LOWER(d.full_name) LIKE ?)")
		args = append(args, t+"%", "%"+t+"%", "%"+t+"%")
	}
	if q.Status != "" {
		where = append(where, "d.status = ?")
		args = append(args, q.Status)
	}
	if q.CrimeType != "" {
		where = append(where, "d.crime_type = ?")
		args = append(args, q.CrimeType)
	}
	if q.RoomID != 0 {
		where = append(where, "d.room_id = ?")
		args = append(args, q.RoomID)
	}
	if q.PrisonID != 0 {
		where = append(where, "d.prison_id = ?")
		args = append(args, q.PrisonID)
	}
	if q.MinAge > 0 {
		where = append(where, "d.dob <= ?")
		args = append(args, time.Date(now.Year()-q.MinAge, now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	}
	if q.MaxAge > 0 {
		where = append(where, "d.dob >= ?")
		args = append(args, time.Date(now.Year()-q.MaxAge, now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search runs the compound filter and returns one page of materialized
// rows plus the total match count (count-then-page; not exact under
// concurrent writes).  Results are ordered newest first.
func (r *DetaineeRepo) Search(ctx context.Context, q DetaineeSearchQuery) ([]DetaineeRow, int64, error) {
	now := time.Now()
	cond, args := buildDetaineeFilter(q, now)

	var total int64
	countSQL := "SELECT COUNT(*) FROM detainees d WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PerPage
	offset := (q.Page - 1) * q.PerPage
	dataSQL := detaineeRowSelect + " WHERE " + cond + " ORDER BY d.created_at DESC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]DetaineeRow, 0, limit)
	for rows.Next() {
		d, err := scanDetaineeRow(rows, now)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetRow fetches one materialized row by id, resolved names and
// projections included.  Used for detail views and event payloads.
func (r *DetaineeRepo) GetRow(ctx context.Context, id uint64) (*DetaineeRow, error) {
	row := r.db.QueryRowContext(ctx, detaineeRowSelect+" WHERE d.id = ?", id)
	d, err := scanDetaineeRow(row, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDetaineeRow(row rowScanner, now time.Time) (DetaineeRow, error) {
	var (
		d                DetaineeRow
		roomID, prisonID sql.NullInt64
		dob, held        sql.NullTime
		pausedMs         sql.NullInt64
		release, deleted sql.NullTime
	)
	if err := row.Scan(
		&d.ID, &d.Code, &d.NationalID, &d.FullName, &d.PhotoURL,
		&roomID, &d.RoomName, &prisonID, &d.PrisonName,
		&d.CrimeType, &d.CrimeTypeOther, &d.Status, &d.Gender, &dob,
		&held, &pausedMs, &release, &d.FineAmount, &d.PaidTotal,
		&deleted, &d.CreatedAt,
	); err != nil {
		return DetaineeRow{}, err
	}
	if roomID.Valid {
		v := uint64(roomID.Int64)
		d.RoomID = &v
	}
	if prisonID.Valid {
		v := uint64(prisonID.Int64)
		d.PrisonID = &v
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
	d.Age = lifecycle.Age(d.DOB, now)
	d.RemainingFine = d.FineAmount - d.PaidTotal
	return d, nil
}
