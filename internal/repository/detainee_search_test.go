package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDetaineeFilterDefaultsToActiveOnly(t *testing.T) {
	cond, args := buildDetaineeFilter(DetaineeSearchQuery{}, time.Now())
	assert.Equal(t, "d.deleted_at IS NULL", cond)
	assert.Empty(t, args)
}

func TestBuildDetaineeFilterIncludeDeleted(t *testing.T) {
	cond, args := buildDetaineeFilter(DetaineeSearchQuery{IncludeDeleted: true}, time.Now())
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildDetaineeFilterText(t *testing.T) {
	cond, args := buildDetaineeFilter(DetaineeSearchQuery{Text: "  DNB01 ", IncludeDeleted: true}, time.Now())
	assert.Equal(t, "(LOWER(d.code) LIKE ? OR LOWER(d.national_id) LIKE ? OR LOWER(d.full_name) LIKE ?)", cond)
	// code matches by prefix, the other two by substring
	assert.Equal(t, []any{"dnb01%", "%dnb01%", "%dnb01%"}, args)
}

func TestBuildDetaineeFilterCombinesWithAnd(t *testing.T) {
	cond, args := buildDetaineeFilter(DetaineeSearchQuery{
		Status:    "in_prison",
		CrimeType: "theft",
		RoomID:    7,
		PrisonID:  3,
	}, time.Now())
	assert.Equal(t,
		"d.deleted_at IS NULL AND d.status = ? AND d.crime_type = ? AND d.room_id = ? AND d.prison_id = ?",
		cond)
	assert.Equal(t, []any{"in_prison", "theft", uint64(7), uint64(3)}, args)
}

func TestBuildDetaineeFilterAgeWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	cond, args := buildDetaineeFilter(DetaineeSearchQuery{MinAge: 18, MaxAge: 60, IncludeDeleted: true}, now)
	assert.Equal(t, "d.dob <= ? AND d.dob >= ?", cond)
	assert.Equal(t, []any{
		time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1966, 9, 1, 0, 0, 0, 0, time.UTC),
	}, args)
}
