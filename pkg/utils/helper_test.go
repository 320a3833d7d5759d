package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("-3", 1))
	assert.Equal(t, 1, ParseInt("x", 1))

	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = ParseID("0")
	assert.False(t, ok)
	_, ok = ParseID("abc")
	assert.False(t, ok)

	assert.Equal(t, "alice", UsernameFromEmail("alice@example.com"))
	assert.Equal(t, "bob@example.com", NormalizeEmail("  Bob@Example.COM "))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
}
