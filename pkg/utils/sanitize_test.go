package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "bold move", SanitizeText("<b>bold</b> move"))
	assert.Equal(t, "Tom & Jerry's", SanitizeText("Tom & Jerry's"))
	assert.Equal(t, "", SanitizeText("  <i></i> "))

	assert.Nil(t, SanitizeTextPtr(nil))
	in := "<p>hi</p>"
	assert.Equal(t, "hi", *SanitizeTextPtr(&in))
}

func TestSanitizeTextEncodedMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "escaped tags", in: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "double escaped tags", in: "&amp;lt;i&amp;gt;deep&amp;lt;/i&amp;gt;", want: "deep"},
		{name: "escaped script", in: "&lt;script&gt;alert(1)&lt;/script&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.in)
			assert.NotContains(t, got, "<")
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
