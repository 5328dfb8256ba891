package model

import "time"

// Room is a sub-unit of a prison to which detainees may be assigned.
// Rooms are referenced, not owned, by detainees: a room cannot be
// permanently deleted while an active detainee still points at it.
//
// Fields:
//
//	ID        – primary key identifier.
//	Code      – human-readable RMnnnn code, minted once.
//	Name      – required display name.
//	Capacity  – nominal capacity, default 0.
//	PrisonID  – containing prison (nil if unattached).
//	DeletedAt – soft delete marker.
type Room struct {
	ID        uint64     // rooms.id
	Code      string     // rooms.code
	Name      string     // rooms.name
	Capacity  int        // rooms.capacity
	PrisonID  *uint64    // rooms.prison_id (nullable)
	DeletedAt *time.Time // rooms.deleted_at
	CreatedAt time.Time  // rooms.created_at
	UpdatedAt time.Time  // rooms.updated_at
}
