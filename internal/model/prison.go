package model

import "time"

// Prison is a detention facility.  Referenced by rooms and detainees;
// permanent deletion is blocked while any active detainee references it.
type Prison struct {
	ID        uint64     // prisons.id
	Code      string     // prisons.code – PRNnnnn, minted once
	Name      string     // prisons.name (required)
	Region    string     // prisons.region
	District  string     // prisons.district
	Location  string     // prisons.location
	DeletedAt *time.Time // prisons.deleted_at
	CreatedAt time.Time  // prisons.created_at
	UpdatedAt time.Time  // prisons.updated_at
}
