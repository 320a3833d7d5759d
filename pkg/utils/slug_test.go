package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Science Fiction", want: "science-fiction"},
		{in: "  Rock & Roll  ", want: "rock-roll"},
		{in: "Café Noir", want: "cafe-noir"},
		{in: "snake_case-ok", want: "snake_case-ok"},
		{in: "!!!", want: ""},
		{in: strings.Repeat("ab ", 40), want: strings.TrimRight(strings.Repeat("ab-", 17), "-")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxSlugLength)
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("sci-fi"))
	assert.True(t, IsValidSlug("Drama_1"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("two words"))
	assert.False(t, IsValidSlug(strings.Repeat("a", maxSlugLength+1)))
}
