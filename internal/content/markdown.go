package content

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/contentgraph/internal/errors"
)

var (
	// Matches markdown headers: # Header, ## Header, etc.
	headerPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)

	// Matches frontmatter: ---\n...\n---
	frontmatterPattern = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n*`)

	// Matches an opening or closing code fence
	fencePattern = regexp.MustCompile("^\\s*(```|~~~)")

	// Inline markup stripped from heading text
	inlineCodePattern = regexp.MustCompile("`([^`]*)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emphasisPattern   = regexp.MustCompile(`(\*\*|__|\*|_)(\S(?:.*?\S)?)(\*\*|__|\*|_)`)
)

// Document is a parsed markdown or MDX file.
type Document struct {
	FrontMatter map[string]any
	Body        string
	Headings    []Heading
}

// ParseDocument splits front matter from the body and collects headings.
// Headings inside fenced code blocks are ignored.
func ParseDocument(data []byte) (*Document, error) {
	text := string(data)
	doc := &Document{}

	if m := frontmatterPattern.FindStringSubmatch(text); m != nil {
		fm := make(map[string]any)
		if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
			return nil, errors.New(errors.ErrCodeParseFailed, "invalid front matter", err)
		}
		doc.FrontMatter = fm
		text = text[len(m[0]):]
	}
	doc.Body = text

	slugger := NewSlugger()
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		if fencePattern.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		match := headerPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if match == nil {
			continue
		}
		title := plainText(match[2])
		doc.Headings = append(doc.Headings, Heading{
			Text:  title,
			ID:    slugger.Slug(title),
			Depth: len(match[1]),
		})
	}
	return doc, nil
}

// Metadata returns title and description declared in front matter.
func (d *Document) Metadata() *Metadata {
	if d.FrontMatter == nil {
		return nil
	}
	title, _ := d.FrontMatter["title"].(string)
	description, _ := d.FrontMatter["description"].(string)
	if title == "" && description == "" {
		return nil
	}
	return &Metadata{Title: title, Description: description}
}

func plainText(s string) string {
	s = inlineCodePattern.ReplaceAllString(s, "$1")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = emphasisPattern.ReplaceAllString(s, "$2")
	return strings.TrimSpace(s)
}
