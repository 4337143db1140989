package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"getUserById", []string{"get", "User", "By", "Id"}},
		{"HTTPHandler", []string{"HTTP", "Handler"}},
		{"parseHTTPRequest", []string{"parse", "HTTP", "Request"}},
		{"Button", []string{"Button"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCamelCase(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	// Given: prose mixed with identifiers
	text := "The ButtonGroupProps of a use_theme hook"

	// When: tokenizing
	got := Tokenize(text)

	// Then: identifiers split, stop words and short tokens dropped
	assert.Equal(t, []string{"button", "group", "props", "use", "theme", "hook"}, got)
}
