package graph

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/manifest"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return filepath.ToSlash(root)
}

// counter records how often each module loader ran.
type counter struct {
	mu    sync.Mutex
	calls map[string]*atomic.Int32
}

func newCounter() *counter {
	return &counter{calls: make(map[string]*atomic.Int32)}
}

func (c *counter) loader(key string, m *content.Module) content.Loader {
	c.mu.Lock()
	n := &atomic.Int32{}
	c.calls[key] = n
	c.mu.Unlock()
	return func(context.Context) (*content.Module, error) {
		n.Add(1)
		return m, nil
	}
}

func (c *counter) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.calls[key].Load())
}

func prose(title string) *content.Module {
	return &content.Module{Headings: []content.Heading{{Text: title, ID: title, Depth: 1}}}
}

func newEngine(t *testing.T, pattern string, modules content.Modules, opts Options) *Engine {
	t.Helper()
	if opts.WorkingDir == "" {
		opts.WorkingDir = t.TempDir()
	}
	e, err := New(context.Background(), pattern, modules, opts)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func routes(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, en := range entries {
		out = append(out, en.Pathname)
	}
	return out
}

func TestNew_NilModulesIsRejected(t *testing.T) {
	// Given no loader wiring
	// When the engine is built
	_, err := New(context.Background(), "docs/*.mdx", nil, Options{WorkingDir: t.TempDir()})

	// Then construction fails with the loader-missing code
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeLoaderMissing))
}

func TestNew_PathnameCollisionIsRejected(t *testing.T) {
	// Given two prose modules normalizing to the same pathname
	modules := content.Modules{
		"docs/intro.md":  content.Noop(),
		"docs/intro.mdx": content.Noop(),
	}

	// When the engine is built
	_, err := New(context.Background(), "docs/*", modules, Options{WorkingDir: t.TempDir(), BaseDirectory: "docs"})

	// Then the collision is reported
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodePathnameCollision))
}

func TestEngine_DocsOrderAndSiblings(t *testing.T) {
	// Given two numbered docs pages listed out of order
	modules := content.Modules{
		"docs/02.usage.mdx": content.Noop(),
		"docs/01.intro.mdx": content.Noop(),
	}
	e := newEngine(t, "docs/*.mdx", modules, Options{BaseDirectory: "docs"})
	ctx := context.Background()

	// When paths are listed
	paths, err := e.Paths(ctx)
	require.NoError(t, err)

	// Then they follow the order prefixes with the prefixes stripped
	assert.Equal(t, [][]string{{"intro"}, {"usage"}}, paths)

	intro, err := e.Get(ctx, "intro")
	require.NoError(t, err)
	require.NotNil(t, intro)
	assert.Equal(t, "/intro", intro.Pathname)
	assert.Equal(t, "Intro", intro.Title)
	assert.Nil(t, intro.Previous)
	require.NotNil(t, intro.Next)
	assert.Equal(t, "/usage", intro.Next.Pathname)
	assert.Nil(t, intro.Next.Next, "siblings carry no siblings of their own")

	usage, err := e.Get(ctx, "/usage")
	require.NoError(t, err)
	require.NotNil(t, usage.Previous)
	assert.Equal(t, "/intro", usage.Previous.Pathname)
	assert.Nil(t, usage.Next)
}

func TestEngine_NestedOrderKeys(t *testing.T) {
	// Given pages whose order keys are 02.01, 01.02 and 01.01
	modules := content.Modules{
		"guide/02.advanced/01.plugins.mdx": content.Noop(),
		"guide/01.basics/02.config.mdx":    content.Noop(),
		"guide/01.basics/01.install.mdx":   content.Noop(),
	}
	e := newEngine(t, "guide/**/*.mdx", modules, Options{BaseDirectory: "guide"})

	// When paths are listed
	paths, err := e.Paths(context.Background())
	require.NoError(t, err)

	// Then order keys sort segment-wise
	assert.Equal(t, [][]string{
		{"basics", "install"},
		{"basics", "config"},
		{"advanced", "plugins"},
	}, paths)
}

func TestEngine_SiblingsSkipDirectoryModules(t *testing.T) {
	// Given a directory page followed by three leaf pages
	modules := content.Modules{
		"a/index.mdx":    content.Noop(),
		"a/01.one.mdx":   content.Noop(),
		"a/02.two.mdx":   content.Noop(),
		"a/03.three.mdx": content.Noop(),
	}
	e := newEngine(t, "a/*.mdx", modules, Options{})
	ctx := context.Background()

	// When the first leaf is fetched
	one, err := e.Get(ctx, "a/one")
	require.NoError(t, err)
	require.NotNil(t, one)

	// Then the index page is never its previous sibling
	assert.Nil(t, one.Previous)
	require.NotNil(t, one.Next)
	assert.Equal(t, "/a/two", one.Next.Pathname)

	// And the directory page is routable through All but not through Paths
	all, err := e.All(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "/a")

	paths, err := e.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "one"}, {"a", "two"}, {"a", "three"}}, paths)
}

func TestEngine_GetUnknownPathname(t *testing.T) {
	e := newEngine(t, "docs/*.mdx", content.Modules{"docs/intro.mdx": content.Noop()}, Options{BaseDirectory: "docs"})

	en, err := e.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, en)
}

func TestEngine_BasePathPrefixesRoutes(t *testing.T) {
	// Given a base path
	e := newEngine(t, "docs/*.mdx", content.Modules{"docs/intro.mdx": content.Noop()},
		Options{BaseDirectory: "docs", BasePath: "guide"})
	ctx := context.Background()

	// When entries are listed
	all, err := e.All(ctx)
	require.NoError(t, err)

	// Then routes carry the base path and Get accepts both forms
	assert.Contains(t, all, "/guide/intro")
	for _, p := range []string{"intro", "/guide/intro"} {
		en, err := e.Get(ctx, p)
		require.NoError(t, err)
		require.NotNil(t, en, p)
		assert.Equal(t, "/guide/intro", en.Pathname)
	}

	paths, err := e.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"intro"}}, paths)
}

func TestEngine_CustomSortByDate(t *testing.T) {
	// Given posts whose order prefixes disagree with their dates
	c := newCounter()
	modules := content.Modules{
		"posts/01.alpha.mdx": c.loader("alpha", &content.Module{FrontMatter: map[string]any{"date": "2024-03-01"}}),
		"posts/02.beta.mdx":  c.loader("beta", &content.Module{FrontMatter: map[string]any{"date": "2024-01-01"}}),
		"posts/03.gamma.mdx": c.loader("gamma", &content.Module{FrontMatter: map[string]any{"date": "2024-02-01"}}),
	}
	byDate := func(a, b *Entry) int {
		da, _ := a.FrontMatter["date"].(string)
		db, _ := b.FrontMatter["date"].(string)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	}
	e := newEngine(t, "posts/*.mdx", modules, Options{BaseDirectory: "posts", Sort: byDate})
	ctx := context.Background()

	// When listed
	list, err := e.List(ctx)
	require.NoError(t, err)

	// Then the comparator fully overrides the order keys
	assert.Equal(t, []string{"/beta", "/gamma", "/alpha"}, routes(list))

	paths, err := e.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"beta"}, {"gamma"}, {"alpha"}}, paths)

	gamma, err := e.Get(ctx, "gamma")
	require.NoError(t, err)
	assert.Equal(t, "/beta", gamma.Previous.Pathname)
	assert.Equal(t, "/alpha", gamma.Next.Pathname)

	// And each query extracted every module exactly once
	for _, name := range []string{"alpha", "beta", "gamma"} {
		assert.Equal(t, 3, c.count(name), name)
	}
}

func TestEngine_QueriesExtractEachModuleOnce(t *testing.T) {
	// Given three pages
	c := newCounter()
	modules := content.Modules{
		"docs/01.a.mdx": c.loader("a", prose("A")),
		"docs/02.b.mdx": c.loader("b", prose("B")),
		"docs/03.c.mdx": c.loader("c", prose("C")),
		"docs/04.d.mdx": c.loader("d", prose("D")),
	}
	e := newEngine(t, "docs/*.mdx", modules, Options{BaseDirectory: "docs"})
	ctx := context.Background()

	// When paths are listed
	_, err := e.Paths(ctx)
	require.NoError(t, err)

	// Then nothing is loaded
	assert.Zero(t, c.count("a"))

	// When a middle page is fetched
	b, err := e.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B", b.Title)
	assert.Equal(t, "A", b.Previous.Title)
	assert.Equal(t, "C", b.Next.Title)

	// Then only it and its siblings are loaded, once each
	assert.Equal(t, 1, c.count("a"))
	assert.Equal(t, 1, c.count("b"))
	assert.Equal(t, 1, c.count("c"))
	assert.Zero(t, c.count("d"))
}

func TestEngine_AllIsIdempotent(t *testing.T) {
	modules := content.Modules{
		"docs/01.intro.mdx": content.Noop(),
		"docs/02.usage.mdx": content.Noop(),
	}
	e := newEngine(t, "docs/*.mdx", modules, Options{BaseDirectory: "docs"})
	ctx := context.Background()

	first, err := e.All(ctx)
	require.NoError(t, err)
	second, err := e.All(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first["/intro"], second["/intro"], "entries are rebuilt per query")
}

func TestEngine_LoaderFailurePropagates(t *testing.T) {
	boom := func(context.Context) (*content.Module, error) { return nil, os.ErrPermission }
	e := newEngine(t, "docs/*.mdx", content.Modules{
		"docs/ok.mdx":  content.Noop(),
		"docs/bad.mdx": boom,
	}, Options{BaseDirectory: "docs"})

	_, err := e.All(context.Background())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeLoaderFailed))
}

func TestEngine_SourceVisibilityThroughAggregator(t *testing.T) {
	// Given a component re-exported by its directory index and one that is not
	root := writeTree(t, map[string]string{
		"components/Button.tsx":  "/** A clickable button. */\nexport function Button(props: { label: string }) {\n  return null\n}\n",
		"components/Private.tsx": "export function Private() {\n  return null\n}\n",
		"components/index.ts":    "export { Button } from './Button'\n",
	})
	e := newEngine(t, "components/*.{ts,tsx}", content.Modules{}, Options{
		WorkingDir:    root,
		BaseDirectory: "components",
	})

	// When all entries are built
	all, err := e.All(context.Background())
	require.NoError(t, err)

	// Then only the re-exported component is a page
	require.Contains(t, all, "/button")
	assert.NotContains(t, all, "/private")
	assert.Len(t, all, 1)

	button := all["/button"]
	assert.Equal(t, "components/Button.tsx", button.ModuleKey)
	assert.Equal(t, "Button", button.Title)
	assert.Equal(t, "A clickable button.", button.Description)
	require.Len(t, button.Types, 1)
	assert.Equal(t, "Button", button.Types[0].Name)
}

func TestEngine_ManifestExcludesUnexportedSubpaths(t *testing.T) {
	// Given two components without an aggregator, only one published by the package manifest
	root := writeTree(t, map[string]string{
		"components/Button.tsx": "export function Button() {\n  return null\n}\n",
		"components/Card.tsx":   "export function Card() {\n  return null\n}\n",
	})
	m, err := manifest.Parse([]byte(`{"exports":{"./Button":"./dist/Button.js"}}`))
	require.NoError(t, err)
	e := newEngine(t, "components/*.tsx", content.Modules{}, Options{
		WorkingDir:    root,
		BaseDirectory: "components",
		Manifest:      m,
	})

	// When entries and paths are listed
	all, err := e.All(context.Background())
	require.NoError(t, err)
	paths, err := e.Paths(context.Background())
	require.NoError(t, err)

	// Then the unexported component is absent from both
	assert.Contains(t, all, "/button")
	assert.NotContains(t, all, "/card")
	assert.Len(t, all, 1)
	assert.Equal(t, [][]string{{"button"}}, paths)
}

func TestEngine_SourceMergesWithSiblingDocs(t *testing.T) {
	// Given a component with a prose sibling
	root := writeTree(t, map[string]string{
		"components/Card.tsx": "export function Card() {\n  return null\n}\n",
		"components/Card.mdx": "# Card docs\n",
	})
	modules := content.Modules{
		"components/Card.mdx": func(context.Context) (*content.Module, error) {
			return &content.Module{Metadata: &content.Metadata{Title: "Card docs"}}, nil
		},
	}
	e := newEngine(t, "components/*.tsx", modules, Options{WorkingDir: root, BaseDirectory: "components"})

	// When all entries are built
	all, err := e.All(context.Background())
	require.NoError(t, err)

	// Then one entry keyed by the source module carries the prose content
	require.Len(t, all, 1)
	card := all["/card"]
	require.NotNil(t, card)
	assert.Equal(t, "components/Card.tsx", card.ModuleKey)
	assert.Equal(t, "Card docs", card.Title)
}

func TestEngine_PrivateTagHidesModule(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/Shown.ts":  "export function Shown() {}\n",
		"lib/Hidden.ts": "/**\n * Internal helper.\n * @private\n */\nexport function Hidden() {}\n",
	})
	e := newEngine(t, "lib/*.ts", content.Modules{}, Options{WorkingDir: root, BaseDirectory: "lib"})

	all, err := e.All(context.Background())

	require.NoError(t, err)
	assert.Contains(t, all, "/shown")
	assert.NotContains(t, all, "/hidden")
}

func TestEngine_ExamplesSurfaceThroughOwner(t *testing.T) {
	// Given a component with a qualified examples file
	root := writeTree(t, map[string]string{
		"components/Badge.tsx":          "export function Badge() {\n  return null\n}\n",
		"components/Badge.examples.tsx": "export function Basic() {\n  return null\n}\n\nexport function WithIcon() {\n  return null\n}\n",
	})
	modules := content.Modules{
		root + "/components/Badge.examples.tsx": func(context.Context) (*content.Module, error) {
			return &content.Module{Exports: map[string]any{"Basic": "basic", "WithIcon": "icon"}}, nil
		},
	}
	e := newEngine(t, "components/*.tsx", modules, Options{WorkingDir: root, BaseDirectory: "components"})

	// When all entries are built
	all, err := e.All(context.Background())
	require.NoError(t, err)

	// Then the examples file is not a page of its own
	require.Len(t, all, 1)
	badge := all["/badge"]
	require.NotNil(t, badge)

	// And its exports are the owner's examples, chained in order
	require.Len(t, badge.Examples, 2)
	basic, icon := badge.Examples[0], badge.Examples[1]
	assert.Equal(t, "Basic", basic.Name)
	assert.Equal(t, "/badge/basic", basic.Pathname)
	assert.Equal(t, "basic", basic.Export)
	assert.Equal(t, "/badge/with-icon", icon.Pathname)
	require.NotNil(t, basic.Next)
	assert.Equal(t, icon.Pathname, basic.Next.Pathname)
	assert.Nil(t, basic.Previous)
}

func TestEngine_MissingExampleLoaderFails(t *testing.T) {
	root := writeTree(t, map[string]string{
		"components/Badge.tsx":          "export function Badge() {\n  return null\n}\n",
		"components/Badge.examples.tsx": "export function Basic() {\n  return null\n}\n",
	})
	e := newEngine(t, "components/*.tsx", content.Modules{}, Options{WorkingDir: root, BaseDirectory: "components"})

	_, err := e.All(context.Background())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeExampleModuleMissing))
}
