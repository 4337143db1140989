package visibility

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/contentgraph/internal/manifest"
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

func setup(t *testing.T, files map[string]string, opts Options) (*source.Project, *Index, string) {
	t.Helper()
	root := writeTree(t, files)
	project, err := source.NewProject(source.Options{WorkingDir: root})
	require.NoError(t, err)
	t.Cleanup(project.Close)
	return project, New(project, opts), root
}

func load(t *testing.T, p *source.Project, file string) *source.File {
	t.Helper()
	f, err := p.Load(context.Background(), file)
	require.NoError(t, err)
	return f
}

func TestIndex_IsPublic_AggregatorConstrainsDirectory(t *testing.T) {
	// Given: an aggregator that re-exports Button but not Private
	project, index, _ := setup(t, map[string]string{
		"components/index.ts":     `export { Button } from './Button'`,
		"components/Button.tsx":   `export function Button() { return null }`,
		"components/Private.tsx":  `export function Private() { return null }`,
		"components/nested/X.tsx": `export const X = 1`,
	}, Options{})
	ctx := context.Background()

	// When/Then: only re-exported files are public
	assert.True(t, index.IsPublic(ctx, load(t, project, "components/Button.tsx")))
	assert.False(t, index.IsPublic(ctx, load(t, project, "components/Private.tsx")))
	assert.False(t, index.IsPublic(ctx, load(t, project, "components/index.ts")))

	// A nested directory without an aggregator is unconstrained
	assert.True(t, index.IsPublic(ctx, load(t, project, "components/nested/X.tsx")))
}

func TestIndex_IsPublic_TransitiveReExport(t *testing.T) {
	project, index, _ := setup(t, map[string]string{
		"ui/index.ts":   `export * from './buttons'`,
		"ui/buttons.ts": `export { IconButton } from './IconButton'`,
		"ui/IconButton.tsx": `
export function IconButton() { return null }
`,
		"ui/Unused.tsx": `export const Unused = 1`,
	}, Options{})
	ctx := context.Background()

	assert.True(t, index.IsPublic(ctx, load(t, project, "ui/IconButton.tsx")))
	assert.False(t, index.IsPublic(ctx, load(t, project, "ui/Unused.tsx")))
	// buttons.ts only re-exports, it declares nothing of its own
	assert.False(t, index.IsPublic(ctx, load(t, project, "ui/buttons.ts")))
}

func TestIndex_IsPublic_PrivateTagSuppressesFile(t *testing.T) {
	project, index, _ := setup(t, map[string]string{
		"lib/index.ts": `export { helper } from './helper'`,
		"lib/helper.ts": `
/** @private */
export function helper() {}
`,
		"loose/util.ts": `
/**
 * Not for public use.
 * @private
 */
export const util = 1
`,
	}, Options{})
	ctx := context.Background()

	assert.False(t, index.IsPublic(ctx, load(t, project, "lib/helper.ts")), "reachable but private")
	assert.False(t, index.IsPublic(ctx, load(t, project, "loose/util.ts")), "private without aggregator")
}

func TestIndex_NoAggregatorIsPermissive(t *testing.T) {
	project, index, root := setup(t, map[string]string{
		"hooks/useFocus.ts":     `export function useFocus() {}`,
		"hooks/usePressable.ts": `export function usePressable() {}`,
	}, Options{})
	ctx := context.Background()

	assert.True(t, index.IsPublic(ctx, load(t, project, "hooks/useFocus.ts")))
	assert.True(t, index.IsPublic(ctx, load(t, project, "hooks/usePressable.ts")))
	assert.False(t, index.Directory(ctx, root+"/hooks").HasAggregator())
}

func TestIndex_IsPublicDeclaration(t *testing.T) {
	project, index, _ := setup(t, map[string]string{
		"components/index.ts": `export { Button } from './Button'`,
		"components/Button.tsx": `
export const Button = () => null
export const PrivateComponent = () => null
`,
	}, Options{})
	ctx := context.Background()

	f := load(t, project, "components/Button.tsx")
	public := map[string]bool{}
	for _, exp := range project.ExportedDeclarations(ctx, f) {
		public[exp.Name] = index.IsPublicDeclaration(ctx, exp.Primary())
	}
	assert.Equal(t, map[string]bool{"Button": true, "PrivateComponent": false}, public)
}

func TestIndex_DirectoryIsMemoized(t *testing.T) {
	project, index, root := setup(t, map[string]string{
		"components/index.ts":   `export { Button } from './Button'`,
		"components/Button.tsx": `export function Button() { return null }`,
	}, Options{})
	ctx := context.Background()

	// Given: concurrent first access
	var wg sync.WaitGroup
	dirs := make([]*Directory, 8)
	for i := range dirs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dirs[i] = index.Directory(ctx, root+"/components")
		}(i)
	}
	wg.Wait()

	// Then: every caller sees the same entry
	for _, d := range dirs {
		assert.Same(t, dirs[0], d)
	}
	assert.Equal(t, root+"/components/index.ts", dirs[0].Aggregator)
	assert.True(t, dirs[0].Exports(root+"/components/Button.tsx"))

	// And: later changes on disk are not observed within the run
	require.NoError(t, os.WriteFile(filepath.Join(root, "components", "index.ts"), []byte(""), 0o644))
	project.Purge()
	assert.True(t, index.IsPublic(ctx, load(t, project, "components/Button.tsx")))
}

func TestIndex_Eligible(t *testing.T) {
	m, err := manifest.Parse([]byte(`{"exports":{"./components":"./dist/components/index.js"}}`))
	require.NoError(t, err)

	root := t.TempDir()
	project, err := source.NewProject(source.Options{WorkingDir: root})
	require.NoError(t, err)
	defer project.Close()

	index := New(project, Options{Manifest: m, BaseDir: "/work/src"})

	assert.True(t, index.Eligible("/work/src/components/Button.tsx"))
	assert.False(t, index.Eligible("/work/src/hooks/useFocus.ts"))

	unrestricted := New(project, Options{})
	assert.True(t, unrestricted.Eligible("/work/src/hooks/useFocus.ts"))
}
