package model

import "time"

// Detainee status values.  `not_sentenced` and `sentenced` are inert labels
// set by direct edits; the transition actions only ever move a record
// between `in_prison`, `out` and `dead`.
const (
	StatusNotSentenced = "not_sentenced"
	StatusSentenced    = "sentenced"
	StatusInPrison     = "in_prison"
	StatusOut          = "out"
	StatusDead         = "dead"
)

// NewDetainee returns a fresh record attributed to createdBy.  Records
// start out as `in_prison`; callers overwrite Status when the intake
// request names a different one.
func NewDetainee(createdBy uint64) *Detainee {
	return &Detainee{Status: StatusInPrison, CreatedBy: &createdBy}
}

// ValidStatus reports whether s is one of the recognised status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotSentenced, StatusSentenced, StatusInPrison, StatusOut, StatusDead:
		return true
	}
	return false
}

// Payment is a single fine payment owned by a detainee.  Payments are
// appended, never edited; removal is by ID.
//
// Fields:
//
//	ID     – opaque identifier (UUID) assigned at append time.
//	Amount – positive amount paid.
//	Date   – when the payment was recorded.
//	PaidBy – free text, defaults to "unknown".
//	Note   – free text.
type Payment struct {
	ID     string    // payments.id
	Amount float64   // payments.amount
	Date   time.Time // payments.paid_at
	PaidBy string    // payments.paid_by
	Note   string    // payments.note
}

// Detainee represents one tracked individual record.  This struct
// corresponds to a row in the `detainees` table plus its owned payments.
//
// Lifecycle fields: while Status is `in_prison` an optional ReleaseDate is
// the authoritative countdown and PausedRemainingMs must be nil.  While
// Status is `out`, ReleaseDate is nil and PausedRemainingMs holds the
// frozen remaining sentence (0 when already served).  While Status is
// `dead` both are nil.
type Detainee struct {
	ID             uint64     // detainees.id
	Code           string     // detainees.code – human-readable DNBddmmyyNNN, minted once
	NationalID     string     // detainees.national_id
	FullName       string     // detainees.full_name (required)
	PhotoURL       string     // detainees.photo_url (externally stored image)
	RoomID         *uint64    // detainees.room_id (nullable – unassigned)
	PrisonID       *uint64    // detainees.prison_id (nullable)
	Phone          string     // detainees.phone
	ParentName     string     // detainees.parent_name
	ParentPhone    string     // detainees.parent_phone
	CrimeType      string     // detainees.crime_type
	CrimeTypeOther string     // detainees.crime_type_other (free text when crime_type = "other")
	DOB            *time.Time // detainees.dob (nullable)
	Gender         string     // detainees.gender – "male" or "female"
	Judgment       string     // detainees.judgment
	Overview       string     // detainees.overview
	Status         string     // detainees.status
	PlaceOfBirth   string     // detainees.place_of_birth

	TimeHeldStart     *time.Time // detainees.time_held_start – start of current incarceration period
	PausedRemainingMs *int64     // detainees.paused_remaining_ms – frozen countdown while out
	ReleaseDate       *time.Time // detainees.release_date

	FineAmount float64   // detainees.fine_amount (non-negative, default 0)
	Payments   []Payment // owned, insertion order = chronological

	CreatedBy *uint64    // detainees.created_by (users.id)
	DeletedAt *time.Time // detainees.deleted_at (soft delete marker)
	CreatedAt time.Time  // detainees.created_at
	UpdatedAt time.Time  // detainees.updated_at
}
