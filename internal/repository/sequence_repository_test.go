package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeq(t *testing.T) {
	assert.Equal(t, "RM0042", FormatSeq("RM", 4, 42))
	assert.Equal(t, "RM0043", FormatSeq("RM", 4, 43))
	assert.Equal(t, "001", FormatSeq("", 3, 1))
	assert.Equal(t, "PRN0001", FormatSeq("PRN", 4, 1))
}

func TestFormatSeqDoesNotTruncateWideValues(t *testing.T) {
	// the pad width is cosmetic; values past it keep all their digits
	assert.Equal(t, "1234", FormatSeq("", 3, 1234))
	assert.Equal(t, "USR99999", FormatSeq("USR", 4, 99999))
}
