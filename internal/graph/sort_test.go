package graph

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortBy(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	entries := func() []*Entry {
		return []*Entry{
			{Pathname: "/c", Title: "Gamma", FrontMatter: map[string]any{"date": day(3), "weight": 1}},
			{Pathname: "/a", Title: "Alpha", FrontMatter: map[string]any{"date": day(2), "weight": 10}},
			{Pathname: "/none", Title: "Zeta"},
			{Pathname: "/b", Title: "Beta", FrontMatter: map[string]any{"date": day(1), "weight": 2.5}},
		}
	}

	tests := []struct {
		name       string
		field      string
		descending bool
		want       []string
	}{
		{"date ascending", "date", false, []string{"/b", "/a", "/c", "/none"}},
		{"date descending keeps missing last", "date", true, []string{"/c", "/a", "/b", "/none"}},
		{"numbers compare by value", "weight", false, []string{"/c", "/b", "/a", "/none"}},
		{"title", "title", false, []string{"/a", "/b", "/c", "/none"}},
		{"pathname descending", "pathname", true, []string{"/none", "/c", "/b", "/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given entries in arbitrary order
			got := entries()

			// When sorted
			slices.SortStableFunc(got, SortBy(tt.field, tt.descending))

			// Then the field decides the order
			assert.Equal(t, tt.want, routes(got))
		})
	}
}
