package content

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger generates heading ids the way GitHub does: lowercase, spaces to
// hyphens, punctuation dropped, repeats suffixed with -1, -2, ...
// A Slugger is not safe for concurrent use.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns a unique slug for text within this Slugger.
func (s *Slugger) Slug(text string) string {
	slug := Slug(text)
	if _, seen := s.occurrences[slug]; seen {
		original := slug
		for {
			s.occurrences[original]++
			slug = original + "-" + strconv.Itoa(s.occurrences[original])
			if _, taken := s.occurrences[slug]; !taken {
				break
			}
		}
	}
	s.occurrences[slug] = 0
	return slug
}

// Reset forgets previously generated slugs.
func (s *Slugger) Reset() {
	s.occurrences = make(map[string]int)
}

// Slug converts text into a slug without uniqueness tracking.
func Slug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
