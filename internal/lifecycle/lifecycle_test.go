package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guuleed/prison-records/internal/model"
)

func tp(t time.Time) *time.Time { return &t }

func TestToggleFreezesRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	release := now.Add(10 * 24 * time.Hour)
	d := &model.Detainee{Status: model.StatusInPrison, ReleaseDate: tp(release)}

	require.NoError(t, Apply(d, ActionToggle, now))

	assert.Equal(t, model.StatusOut, d.Status)
	assert.Nil(t, d.ReleaseDate)
	require.NotNil(t, d.PausedRemainingMs)
	assert.Equal(t, (10 * 24 * time.Hour).Milliseconds(), *d.PausedRemainingMs)
}

func TestToggleTwiceReconstructsReleaseDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	release := now.Add(10 * 24 * time.Hour)
	d := &model.Detainee{Status: model.StatusInPrison, ReleaseDate: tp(release), TimeHeldStart: tp(now.Add(-time.Hour))}

	require.NoError(t, Apply(d, ActionToggle, now))
	// resume 5 seconds later: the countdown picks up where it stopped
	later := now.Add(5 * time.Second)
	require.NoError(t, Apply(d, ActionToggle, later))

	assert.Equal(t, model.StatusInPrison, d.Status)
	assert.Nil(t, d.PausedRemainingMs)
	require.NotNil(t, d.ReleaseDate)
	assert.Equal(t, release.Add(5*time.Second), *d.ReleaseDate)
	// an existing start time is preserved across the round trip
	assert.Equal(t, now.Add(-time.Hour), *d.TimeHeldStart)
}

func TestOutWithoutReleaseDatePausesAtZero(t *testing.T) {
	now := time.Now()
	d := &model.Detainee{Status: model.StatusInPrison}

	require.NoError(t, Apply(d, ActionOut, now))

	require.NotNil(t, d.PausedRemainingMs)
	assert.Zero(t, *d.PausedRemainingMs)
	assert.Equal(t, model.StatusOut, d.Status)
}

func TestOutClampsElapsedReleaseDate(t *testing.T) {
	now := time.Now()
	d := &model.Detainee{Status: model.StatusInPrison, ReleaseDate: tp(now.Add(-48 * time.Hour))}

	require.NoError(t, Apply(d, ActionOut, now))

	require.NotNil(t, d.PausedRemainingMs)
	assert.Zero(t, *d.PausedRemainingMs)
}

func TestOutIsUnconditional(t *testing.T) {
	// `out` applies the freeze arithmetic regardless of current status
	now := time.Now()
	d := &model.Detainee{Status: model.StatusSentenced, ReleaseDate: tp(now.Add(time.Hour))}

	require.NoError(t, Apply(d, ActionOut, now))

	assert.Equal(t, model.StatusOut, d.Status)
	require.NotNil(t, d.PausedRemainingMs)
	assert.Equal(t, time.Hour.Milliseconds(), *d.PausedRemainingMs)
}

func TestInPrisonWithZeroPausedLeavesNoReleaseDate(t *testing.T) {
	now := time.Now()
	var zero int64
	d := &model.Detainee{Status: model.StatusOut, PausedRemainingMs: &zero}

	require.NoError(t, Apply(d, ActionInPrison, now))

	assert.Equal(t, model.StatusInPrison, d.Status)
	assert.Nil(t, d.ReleaseDate)
	assert.Nil(t, d.PausedRemainingMs)
	require.NotNil(t, d.TimeHeldStart)
	assert.Equal(t, now, *d.TimeHeldStart)
}

func TestDeadClearsCountdownState(t *testing.T) {
	now := time.Now()
	ms := int64(5000)
	d := &model.Detainee{Status: model.StatusOut, PausedRemainingMs: &ms, ReleaseDate: tp(now.Add(time.Hour))}

	require.NoError(t, Apply(d, ActionDead, now))

	assert.Equal(t, model.StatusDead, d.Status)
	assert.Nil(t, d.PausedRemainingMs)
	assert.Nil(t, d.ReleaseDate)
}

func TestUnknownActionDoesNotMutate(t *testing.T) {
	now := time.Now()
	release := now.Add(time.Hour)
	d := &model.Detainee{Status: model.StatusInPrison, ReleaseDate: tp(release)}

	err := Apply(d, Action("bogus"), now)

	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, model.StatusInPrison, d.Status)
	assert.Equal(t, release, *d.ReleaseDate)
	assert.Nil(t, d.PausedRemainingMs)
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, Age(nil, now))

	dob := time.Date(1990, 9, 2, 0, 0, 0, 0, time.UTC)
	got := Age(&dob, now)
	require.NotNil(t, got)
	assert.Equal(t, 35, *got)
}
