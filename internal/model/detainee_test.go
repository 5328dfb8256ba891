package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDetaineeDefaultsToInPrison(t *testing.T) {
	d := NewDetainee(7)

	assert.Equal(t, StatusInPrison, d.Status)
	require.NotNil(t, d.CreatedBy)
	assert.Equal(t, uint64(7), *d.CreatedBy)
	assert.Nil(t, d.ReleaseDate)
	assert.Nil(t, d.PausedRemainingMs)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusNotSentenced, StatusSentenced, StatusInPrison, StatusOut, StatusDead} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("paroled"))
	assert.False(t, ValidStatus(""))
}
