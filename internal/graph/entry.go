package graph

import (
	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/examples"
	"github.com/Aman-CERP/contentgraph/internal/metadata"
)

// Entry is the assembled record of one pathname. Entries are rebuilt on
// every query and never mutated after they are returned. Previous and Next
// point at copies without siblings of their own.
type Entry struct {
	// Pathname is the entry's route: "/" + basePath + canonical pathname.
	Pathname  string `json:"pathname"`
	ModuleKey string `json:"moduleKey"`
	OrderKey  string `json:"order,omitempty"`

	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Headings    []content.Heading     `json:"headings"`
	FrontMatter map[string]any        `json:"frontMatter,omitempty"`
	Metadata    *content.Metadata     `json:"metadata,omitempty"`
	Types       []metadata.TypeRecord `json:"types,omitempty"`
	Examples    []examples.Example    `json:"examples,omitempty"`
	SourcePath  string                `json:"sourcePath"`

	// Content is the module's default payload.
	Content any `json:"-"`

	// Exports are the module's remaining named exports.
	Exports map[string]any `json:"-"`

	Previous *Entry `json:"previous,omitempty"`
	Next     *Entry `json:"next,omitempty"`
}

// withoutSiblings returns a shallow copy with Previous and Next cleared.
func (e *Entry) withoutSiblings() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Previous, c.Next = nil, nil
	return &c
}

// withSiblings returns a shallow copy linked to prev and next.
func (e *Entry) withSiblings(prev, next *Entry) *Entry {
	c := *e
	c.Previous = prev.withoutSiblings()
	c.Next = next.withoutSiblings()
	return &c
}
