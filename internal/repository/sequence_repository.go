// This file implements the keyed sequence generator used to mint the
// human-readable codes on detainees, rooms, prisons and users.  Counters
// live in a persistent table rather than process memory so that several
// instances minting codes in parallel can never hand out the same value.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Identifier prefixes and pad widths.  These are part of the persisted
// code format and must not change once records exist.
const (
	detaineeCodePrefix = "DNB"
	roomCodePrefix     = "RM"
	prisonCodePrefix   = "PRN"
	userCodePrefix     = "USR"

	detaineeSeqDigits = 3
	globalSeqDigits   = 4
)

// SequenceRepo issues unique, monotonically increasing sequence values per
// namespace key, formatted as zero-padded strings.
type SequenceRepo struct {
	db *sql.DB
}

func NewSequenceRepo(db *sql.DB) *SequenceRepo {
	return &SequenceRepo{db: db}
}

// NextSeq atomically increments the counter for key (creating it at zero
// when absent) and returns prefix plus the zero-padded value.  The
// increment-and-read happens in a single statement via LAST_INSERT_ID so
// two concurrent callers always observe distinct values.
func (r *SequenceRepo) NextSeq(ctx context.Context, key string, digits int, prefix string) (string, error) {
	const q = `INSERT INTO counters (k, seq) VALUES (?, LAST_INSERT_ID(1))
	           ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`
	res, err := r.db.ExecContext(ctx, q, key)
	if err != nil {
		return "", err
	}
	n, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return FormatSeq(prefix, digits, n), nil
}

// NextDetaineeCode mints a DNB code for a detainee created at the given
// time: prefix, two-digit day, month and year, then a three-digit daily
// sequence (key rolls over per calendar day).
func (r *SequenceRepo) NextDetaineeCode(ctx context.Context, now time.Time) (string, error) {
	key := "detainee-" + now.Format("2006-01-02")
	seq, err := r.NextSeq(ctx, key, detaineeSeqDigits, "")
	if err != nil {
		return "", err
	}
	return detaineeCodePrefix + now.Format("020106") + seq, nil
}

// NextRoomCode mints the next global RM code.
func (r *SequenceRepo) NextRoomCode(ctx context.Context) (string, error) {
	return r.NextSeq(ctx, "room", globalSeqDigits, roomCodePrefix)
}

// NextPrisonCode mints the next global PRN code.
func (r *SequenceRepo) NextPrisonCode(ctx context.Context) (string, error) {
	return r.NextSeq(ctx, "prison", globalSeqDigits, prisonCodePrefix)
}

// NextUserCode mints the next global USR code.
func (r *SequenceRepo) NextUserCode(ctx context.Context) (string, error) {
	return r.NextSeq(ctx, "user", globalSeqDigits, userCodePrefix)
}

// FormatSeq renders a counter value as prefix + zero-padded number.  The
// pad width is cosmetic: values wider than digits are not truncated.
func FormatSeq(prefix string, digits int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, digits, n)
}
