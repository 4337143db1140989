// Package content defines the lazily loaded content modules the indexer
// consumes and a filesystem-backed loader for prose and source files.
package content

import (
	"context"
	"sort"
)

// Heading is one heading of a content module.
type Heading struct {
	Text  string `json:"text" yaml:"text"`
	ID    string `json:"id" yaml:"id"`
	Depth int    `json:"depth" yaml:"depth"`
}

// Metadata is explicit page metadata declared by a content module.
type Metadata struct {
	Title       string `json:"title,omitempty" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Module is the payload a Loader produces.
type Module struct {
	// Default is the module's primary payload (rendered body, component).
	Default any

	Headings    []Heading
	Metadata    *Metadata
	FrontMatter map[string]any

	// Exports holds the module's remaining named exports.
	Exports map[string]any
}

// Loader lazily produces a content module.
type Loader func(ctx context.Context) (*Module, error)

// Modules maps module keys to their loaders.
type Modules map[string]Loader

// Noop returns a loader for a module without content.
func Noop() Loader {
	return func(context.Context) (*Module, error) {
		return &Module{}, nil
	}
}

// Keys returns the module keys in lexical order.
func (m Modules) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Title returns the first depth-1 heading's text, if the list starts with one.
func Title(headings []Heading) string {
	if len(headings) > 0 && headings[0].Depth == 1 {
		return headings[0].Text
	}
	return ""
}
