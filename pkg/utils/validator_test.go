package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "plain", in: "alice", want: true},
		{name: "punctuation", in: "a.l+i-c_e@home", want: true},
		{name: "reserved", in: "me", want: false},
		{name: "empty", in: "", want: false},
		{name: "space", in: "al ice", want: false},
		{name: "too long", in: strings.Repeat("a", 151), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUsername(tt.in))
		})
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Slug  string `json:"slug" validate:"omitempty,slug"`
		Role  string `json:"role" validate:"omitempty,oneof=user admin"`
	}

	errs := ValidateStruct(payload{Email: "nope", Slug: "a b", Role: "root"})
	assert.Equal(t, map[string]string{
		"email": "Invalid email format",
		"slug":  "Only letters, digits, hyphens and underscores are allowed",
		"role":  "Must be one of: user, admin",
	}, errs)

	assert.Nil(t, ValidateStruct(payload{Email: "a@b.co"}))
}

func TestFormatValidationErrors(t *testing.T) {
	got := FormatValidationErrors(map[string]string{"b": "second", "a": "first"})
	assert.Equal(t, "a: first; b: second", got)
}
