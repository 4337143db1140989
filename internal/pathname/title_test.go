package pathname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"getting-started":     "Getting Started",
		"use_focus":           "Use Focus",
		"the-state-of-things": "The State of Things",
		"API-reference":       "API Reference",
	}
	for in, want := range tests {
		assert.Equal(t, want, Title(in), in)
	}
}

func TestFilenameTitle(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"components/Button.tsx", "Button"},
		{"docs/01.getting-started.mdx", "Getting Started"},
		{"docs/03.examples/README.md", "Examples"},
		{"packages/core/index.ts", "Core"},
		{"hooks/useFocus.ts", "UseFocus"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameTitle(tt.key))
		})
	}
}

func TestIsPascalCase(t *testing.T) {
	assert.True(t, IsPascalCase("Button"))
	assert.True(t, IsPascalCase("ButtonGroup2"))
	assert.False(t, IsPascalCase("button"))
	assert.False(t, IsPascalCase("Button-Group"))
}
