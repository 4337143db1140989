package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/source"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return filepath.ToSlash(root)
}

func TestSlugger_Slug(t *testing.T) {
	s := NewSlugger()

	assert.Equal(t, "getting-started", s.Slug("Getting Started"))
	assert.Equal(t, "getting-started-1", s.Slug("Getting Started"))
	assert.Equal(t, "getting-started-2", s.Slug("Getting Started"))
	assert.Equal(t, "whats-new", s.Slug("What's New?"))
	assert.Equal(t, "buttonprops", s.Slug("ButtonProps"))
	assert.Equal(t, "snake_case", s.Slug("snake_case"))

	s.Reset()
	assert.Equal(t, "getting-started", s.Slug("Getting Started"))
}

func TestSlugger_SuffixCollision(t *testing.T) {
	// Given: a heading that already looks like a generated suffix
	s := NewSlugger()
	assert.Equal(t, "foo-1", s.Slug("foo-1"))
	assert.Equal(t, "foo", s.Slug("foo"))

	// Then: the duplicate skips the taken suffix
	assert.Equal(t, "foo-2", s.Slug("foo"))
}

func TestParseDocument(t *testing.T) {
	data := []byte("---\ntitle: Intro\ndate: 2024-01-02\n---\n# Welcome\n\nSome text.\n\n```md\n# not a heading\n```\n\n## Install `pkg` ##\n### [Usage](#usage)\n")

	doc, err := ParseDocument(data)

	require.NoError(t, err)
	assert.Equal(t, "Intro", doc.FrontMatter["title"])
	assert.Equal(t, []Heading{
		{Text: "Welcome", ID: "welcome", Depth: 1},
		{Text: "Install pkg", ID: "install-pkg", Depth: 2},
		{Text: "Usage", ID: "usage", Depth: 3},
	}, doc.Headings)
	assert.Equal(t, &Metadata{Title: "Intro"}, doc.Metadata())
	assert.Contains(t, doc.Body, "Some text.")
	assert.NotContains(t, doc.Body, "title: Intro")
}

func TestParseDocument_InvalidFrontMatter(t *testing.T) {
	_, err := ParseDocument([]byte("---\ntitle: [unclosed\n---\nbody"))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeParseFailed))
}

func TestParseDocument_NoFrontMatter(t *testing.T) {
	doc, err := ParseDocument([]byte("Plain text\n## Section"))

	require.NoError(t, err)
	assert.Nil(t, doc.FrontMatter)
	assert.Nil(t, doc.Metadata())
	assert.Equal(t, "", Title(doc.Headings))
	assert.Len(t, doc.Headings, 1)
}

func TestDiscoverModules(t *testing.T) {
	// Given: prose and source files under a working tree
	root := writeTree(t, map[string]string{
		"docs/01.intro.mdx": "---\ndescription: Start here\n---\n# Intro\n",
		"docs/02.usage.md":  "# Usage\n",
		"docs/notes.txt":    "ignored",
		"docs/Button.tsx":   "export function Button() { return null }\nexport default Button\n",
	})
	project, err := source.NewProject(source.Options{WorkingDir: root})
	require.NoError(t, err)
	defer project.Close()

	// When: discovering with relative keys
	modules, err := DiscoverModules("docs/*", DiscoverOptions{WorkingDir: root, Project: project})

	// Then: prose and source modules are keyed relative to the working dir
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/01.intro.mdx", "docs/02.usage.md", "docs/Button.tsx"}, modules.Keys())

	intro, err := modules["docs/01.intro.mdx"](context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Intro", Title(intro.Headings))
	assert.Equal(t, "Start here", intro.Metadata.Description)

	button, err := modules["docs/Button.tsx"](context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Button", button.Default)
	assert.Equal(t, map[string]any{"Button": "function"}, button.Exports)
}

func TestDiscoverModules_AbsoluteKeys(t *testing.T) {
	root := writeTree(t, map[string]string{"examples/Basic.tsx": "export const Basic = 1"})

	modules, err := DiscoverModules("examples/*.tsx", DiscoverOptions{WorkingDir: root, AbsoluteKeys: true})

	require.NoError(t, err)
	assert.Equal(t, []string{root + "/examples/Basic.tsx"}, modules.Keys())

	m, err := modules[root+"/examples/Basic.tsx"](context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.Exports)
}

func TestNoop(t *testing.T) {
	m, err := Noop()(context.Background())

	require.NoError(t, err)
	assert.Nil(t, m.Default)
	assert.Nil(t, m.Headings)
}
