package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/contentgraph/internal/errors"
)

func TestParse_ExportShapes(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		patterns []string
	}{
		{"subpaths", `{"name":"ui","exports":{"./components":{"import":"./dist/components/index.js"},"./hooks/*":"./dist/hooks/*.js"}}`, []string{"components", "hooks/*"}},
		{"string", `{"exports":"./dist/index.js"}`, []string{"."}},
		{"conditions", `{"exports":{"import":"./dist/index.js","require":"./dist/index.cjs"}}`, []string{"."}},
		{"none", `{"name":"ui"}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.patterns, m.Patterns())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{`))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeParseFailed))
}

func TestManifest_Eligible(t *testing.T) {
	m, err := Parse([]byte(`{"exports":{"./components":"./dist/components/index.js","./hooks/*":"./dist/hooks/*.js"}}`))
	require.NoError(t, err)

	tests := map[string]bool{
		"components":             true,
		"components/Button":      true,
		"components/nested/Card": true,
		"componentsExtra/Thing":  false,
		"hooks/useFocus":         true,
		"utils/internal":         false,
		"./components/Button":    true,
	}
	for p, want := range tests {
		assert.Equal(t, want, m.Eligible(p), p)
	}
}

func TestManifest_EligibleWithoutExports(t *testing.T) {
	var nilManifest *Manifest
	assert.True(t, nilManifest.Eligible("anything"))

	m, err := Parse([]byte(`{"name":"ui"}`))
	require.NoError(t, err)
	assert.True(t, m.Eligible("anything"))

	root, err := Parse([]byte(`{"exports":{".":"./index.js"}}`))
	require.NoError(t, err)
	assert.True(t, root.Eligible("deep/path"))
}

func TestFind_WalksUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`{"name":"ui"}`), 0o644))
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, err := Find(nested)

	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "ui", m.Name)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, FileName)), m.Path)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
}
