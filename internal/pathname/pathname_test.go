package pathname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		baseDir string
		wd      string
		want    string
	}{
		{name: "leading dot slash", path: "./docs/intro.mdx", want: "docs/intro"},
		{name: "order prefixes", path: "docs/03.examples/01.authoring.mdx", want: "docs/examples/authoring"},
		{name: "base directory", path: "docs/01.intro.mdx", baseDir: "docs", want: "intro"},
		{name: "trailing index", path: "components/Button/index.tsx", want: "components/button"},
		{name: "trailing readme", path: "packages/core/README.md", want: "packages/core"},
		{name: "pascal case", path: "components/ButtonGroup.tsx", want: "components/button-group"},
		{name: "camel case", path: "hooks/usePressable.ts", want: "hooks/use-pressable"},
		{name: "working directory", path: "/work/src/components/Button.tsx", baseDir: "src", wd: "/work", want: "components/button"},
		{name: "working directory without base", path: "/work/components/Button.tsx", wd: "/work", want: "components/button"},
		{name: "relative base key", path: "src/components/Button.tsx", baseDir: "src", wd: "/work", want: "components/button"},
		{name: "rooted key", path: "/components/Button.mdx", baseDir: "components", want: "button"},
		{name: "bare index kept", path: "index.mdx", want: "index"},
		{name: "dotted segment", path: "docs/next.js.mdx", want: "docs/next.js"},
		{name: "version segment", path: "docs/v1.5.mdx", want: "docs/v1.5"},
		{name: "directory named index", path: "a/index/index.mdx", want: "a/index"},
		{name: "pathname unchanged", path: "docs/getting-started", want: "docs/getting-started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.path, tt.baseDir, tt.wd))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	paths := []string{
		"./docs/01.intro.mdx",
		"components/ButtonGroup.tsx",
		"docs/03.examples/02.rendering.mdx",
		"packages/core/README.md",
		"hooks/useFocus.ts",
		"a/b/c",
		"docs/next.js.mdx",
		"docs/v1.5.mdx",
		"a/index/index.mdx",
		"docs/01.1.5.mdx",
		"packages/readme/README.md",
	}

	for _, p := range paths {
		once := Normalize(p, "", "")
		assert.Equal(t, once, Normalize(once, "", ""), "normalize twice: %s", p)
	}
}

func TestNormalizer_OrderKeyIgnoresWorkingDir(t *testing.T) {
	n := Normalizer{WorkingDir: "/home/01.user/site"}
	assert.Equal(t, "02.01", n.OrderKey("/home/01.user/site/docs/02.guides/01.setup.mdx"))
	assert.Equal(t, "docs/guides/setup", n.Normalize("/home/01.user/site/docs/02.guides/01.setup.mdx"))
}

func TestOrderKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"docs/01.getting-started.mdx", "01"},
		{"docs/03.examples/01.authoring.mdx", "03.01"},
		{"docs/3.examples/12.rendering.mdx", "03.12"},
		{"components/Button.tsx", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderKey(tt.path))
		})
	}
}

func TestCompareOrderKeys(t *testing.T) {
	keys := []string{"01.01", "01.02", "02.01"}
	assert.Equal(t, -1, CompareOrderKeys(keys[0], keys[1]))
	assert.Equal(t, -1, CompareOrderKeys(keys[1], keys[2]))
	assert.Equal(t, 1, CompareOrderKeys(keys[2], keys[0]))
	assert.Equal(t, 0, CompareOrderKeys("01", "01"))

	// Missing segments sort first
	assert.Equal(t, -1, CompareOrderKeys("", "01"))
	assert.Equal(t, -1, CompareOrderKeys("01", "01.01"))

	// Numeric, not lexical
	assert.Equal(t, -1, CompareOrderKeys("2", "10"))
}

func TestCompare_FallsBackToPathname(t *testing.T) {
	assert.Equal(t, -1, Compare("", "a/one", "", "a/two"))
	assert.Equal(t, 1, Compare("02", "a/alpha", "01", "a/zeta"))
}

func TestKebab(t *testing.T) {
	tests := map[string]string{
		"Button":      "button",
		"ButtonGroup": "button-group",
		"ABTest":      "ab-test",
		"HTMLElement": "html-element",
		"useFocus":    "use-focus",
		"snake_case":  "snake-case",
		"Two Words":   "two-words",
		"already-ok":  "already-ok",
	}
	for in, want := range tests {
		assert.Equal(t, want, Kebab(in), in)
	}
}

func TestCleanFilenameAndBasename(t *testing.T) {
	assert.Equal(t, "getting-started", CleanFilename("01.getting-started.mdx"))
	assert.Equal(t, "Button", Basename("src/components/Button.tsx"))
	assert.Equal(t, "index", Basename("src/components/index.ts"))
}

func TestIsDirectoryModule(t *testing.T) {
	assert.True(t, IsDirectoryModule("docs/README.md"))
	assert.True(t, IsDirectoryModule("a/index.mdx"))
	assert.True(t, IsDirectoryModule("a/01.index.mdx"))
	assert.False(t, IsDirectoryModule("a/indexing.mdx"))
	assert.True(t, IsDirectoryPathname("a/index"))
	assert.False(t, IsDirectoryPathname("a/one"))
}

func TestSegmentsAndRoute(t *testing.T) {
	assert.Equal(t, []string{"docs", "intro"}, Segments("/docs//intro"))
	assert.Nil(t, Segments(""))
	assert.Equal(t, "/docs/intro", Route("docs", "intro"))
	assert.Equal(t, "/button", Route("", "button"))
}
