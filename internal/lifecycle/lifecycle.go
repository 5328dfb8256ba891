// Package lifecycle implements the detainee status state machine.  The
// pause/resume arithmetic used to build this logic was previously spread
// across individual route handlers; it is consolidated here into a single
// transition function so that adding a new action cannot skip the
// countdown bookkeeping.
package lifecycle

import (
	"errors"
	"time"

	"github.com/guuleed/prison-records/internal/model"
)

// Action is a status transition token accepted by Apply.
type Action string

const (
	// ActionToggle flips between the incarcerated and released branches.
	ActionToggle Action = "toggle"
	// ActionOut freezes the remaining sentence and marks the detainee out.
	ActionOut Action = "out"
	// ActionInPrison resumes the countdown and marks the detainee in prison.
	ActionInPrison Action = "in_prison"
	// ActionDead clears all countdown state.  Terminal.
	ActionDead Action = "dead"
)

// ErrUnknownAction is returned for an unrecognised action token.  The
// detainee is not mutated in that case.
var ErrUnknownAction = errors.New("unknown status action")

// Apply runs one transition on d at the given wall-clock time.  The
// detainee is mutated in place; callers persist the result afterwards.
func Apply(d *model.Detainee, a Action, now time.Time) error {
	switch a {
	case ActionToggle:
		if d.Status == model.StatusInPrison {
			freeze(d, now)
		} else {
			resume(d, now)
		}
	case ActionOut:
		freeze(d, now)
	case ActionInPrison:
		resume(d, now)
	case ActionDead:
		d.PausedRemainingMs = nil
		d.ReleaseDate = nil
		d.Status = model.StatusDead
	default:
		return ErrUnknownAction
	}
	return nil
}

// freeze captures the remaining sentence into PausedRemainingMs.  A
// detainee with no release date pauses at zero remaining, and an elapsed
// release date clamps to zero rather than going negative.
func freeze(d *model.Detainee, now time.Time) {
	var remaining int64
	if d.ReleaseDate != nil {
		remaining = d.ReleaseDate.Sub(now).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
	}
	d.PausedRemainingMs = &remaining
	d.ReleaseDate = nil
	d.Status = model.StatusOut
}

// resume restores the countdown from PausedRemainingMs.  A zero or absent
// paused value means the sentence was already served, so no release date
// is scheduled.  TimeHeldStart is stamped only when it was never set.
func resume(d *model.Detainee, now time.Time) {
	if d.PausedRemainingMs != nil && *d.PausedRemainingMs > 0 {
		rd := now.Add(time.Duration(*d.PausedRemainingMs) * time.Millisecond)
		d.ReleaseDate = &rd
	}
	d.PausedRemainingMs = nil
	if d.TimeHeldStart == nil {
		d.TimeHeldStart = &now
	}
	d.Status = model.StatusInPrison
}

// Age computes a detainee's age in whole years from the date of birth, or
// nil when none is on record.  The value is a projection, never stored.
func Age(dob *time.Time, now time.Time) *int {
	if dob == nil {
		return nil
	}
	years := int(now.Sub(*dob).Hours() / (365.25 * 24))
	return &years
}
