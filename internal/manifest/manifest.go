// Package manifest reads a package manifest's export map and decides which
// module paths it publishes.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/glob"
)

// FileName is the manifest file looked up by Find.
const FileName = "package.json"

// Manifest is the subset of package.json the indexer consumes.
type Manifest struct {
	Name    string
	Exports map[string]any

	// Path is the manifest file the data was read from, if any.
	Path string
}

type rawManifest struct {
	Name    string          `json:"name"`
	Exports json.RawMessage `json:"exports"`
}

// Parse decodes manifest JSON. A string export or a conditions-only object
// is treated as the "." entry.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.ErrCodeParseFailed, "invalid package manifest", err)
	}

	m := &Manifest{Name: raw.Name}
	if len(raw.Exports) == 0 || string(raw.Exports) == "null" {
		return m, nil
	}

	var exports any
	if err := json.Unmarshal(raw.Exports, &exports); err != nil {
		return nil, errors.New(errors.ErrCodeParseFailed, "invalid package manifest exports", err)
	}

	switch v := exports.(type) {
	case string, []any:
		m.Exports = map[string]any{".": v}
	case map[string]any:
		subpaths := false
		for key := range v {
			if strings.HasPrefix(key, ".") {
				subpaths = true
				break
			}
		}
		if subpaths {
			m.Exports = v
		} else {
			m.Exports = map[string]any{".": v}
		}
	}
	return m, nil
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "package manifest not found", err).WithDetail("path", path)
		}
		return nil, errors.IOError("failed to read package manifest", err).WithDetail("path", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Path = filepath.ToSlash(path)
	return m, nil
}

// Find returns the nearest manifest at or above dir, or nil when none exists.
func Find(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.IOError("failed to resolve directory", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Patterns returns the export keys without their leading "./", sorted.
// The root entry "." is returned as ".".
func (m *Manifest) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Exports))
	for key := range m.Exports {
		if key == "." || key == "./" {
			out = append(out, ".")
			continue
		}
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(key, "./"), "/"))
	}
	sort.Strings(out)
	return out
}

// Eligible reports whether a module path is published by the export map.
// modulePath is slash-separated, relative to the package's source root and
// without extension. A manifest without exports publishes everything.
func (m *Manifest) Eligible(modulePath string) bool {
	if m == nil || len(m.Exports) == 0 {
		return true
	}
	modulePath = strings.TrimPrefix(filepath.ToSlash(modulePath), "./")

	for _, key := range m.Patterns() {
		if key == "." {
			return true
		}
		if strings.Contains(key, "*") {
			if glob.Match(strings.ReplaceAll(key, "*", "**"), modulePath) {
				return true
			}
			continue
		}
		if modulePath == key || strings.HasPrefix(modulePath, key+"/") {
			return true
		}
	}
	return false
}
