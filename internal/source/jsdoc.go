package source

import (
	"strings"
)

// ParseDocComment parses a /** ... */ block into its description and tags.
// Description lines are joined with newlines; tag text keeps its line breaks.
func ParseDocComment(text string) *DocComment {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")

	doc := &DocComment{}
	var description []string
	var current *DocTag

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		line = strings.TrimRight(line, " \t\r")

		if strings.HasPrefix(line, "@") {
			name, rest, _ := strings.Cut(line[1:], " ")
			doc.Tags = append(doc.Tags, DocTag{Name: name, Text: strings.TrimSpace(rest)})
			current = &doc.Tags[len(doc.Tags)-1]
			continue
		}

		if current != nil {
			if current.Text == "" {
				current.Text = line
			} else {
				current.Text += "\n" + line
			}
			continue
		}
		description = append(description, line)
	}

	for i := range doc.Tags {
		doc.Tags[i].Text = strings.TrimSpace(doc.Tags[i].Text)
	}
	doc.Description = strings.TrimSpace(strings.Join(description, "\n"))
	return doc
}

// Tag returns the text of the first tag with the given name.
func (c *DocComment) Tag(name string) (string, bool) {
	name = strings.TrimPrefix(name, "@")
	for _, t := range c.Tags {
		if t.Name == name {
			return t.Text, true
		}
	}
	return "", false
}
