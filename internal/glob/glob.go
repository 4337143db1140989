// Package glob expands file-matching patterns against the working tree.
//
// Patterns are doublestar globs ("src/**/*.{ts,tsx}"). Extglob-style
// alternations such as "*.(ts|tsx)" or "*.@(md|mdx)" are rewritten to brace
// sets before matching.
package glob

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var alternationPattern = regexp.MustCompile(`[@+?!]?\(([^()]*\|[^()]*)\)`)

// ignoredSegments are never indexed.
var ignoredSegments = []string{"node_modules", ".git"}

// Normalize rewrites extglob alternations into doublestar brace sets.
func Normalize(pattern string) string {
	pattern = filepath.ToSlash(pattern)
	pattern = strings.TrimPrefix(pattern, "./")
	return alternationPattern.ReplaceAllStringFunc(pattern, func(m string) string {
		inner := alternationPattern.FindStringSubmatch(m)[1]
		return "{" + strings.ReplaceAll(inner, "|", ",") + "}"
	})
}

// Absolute resolves pattern against workingDir when it is relative.
func Absolute(pattern, workingDir string) string {
	pattern = Normalize(pattern)
	if strings.HasPrefix(pattern, "/") || workingDir == "" {
		return pattern
	}
	return strings.TrimSuffix(filepath.ToSlash(workingDir), "/") + "/" + pattern
}

// Validate reports whether pattern is a well-formed glob.
func Validate(pattern string) bool {
	return doublestar.ValidatePattern(Normalize(pattern))
}

// Files returns the regular files matching pattern, sorted, as absolute
// slash-separated paths. Relative patterns are matched inside workingDir, so
// glob metacharacters in the working directory itself are taken literally.
func Files(pattern, workingDir string) ([]string, error) {
	pattern = Normalize(pattern)
	if strings.HasPrefix(pattern, "/") || strings.HasPrefix(pattern, "../") || workingDir == "" {
		return absoluteFiles(Absolute(pattern, workingDir))
	}

	matches, err := doublestar.Glob(os.DirFS(workingDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	return joinMatches(workingDir, matches, nil), nil
}

func absoluteFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.FromSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = filepath.ToSlash(m)
		if isIgnored(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// joinMatches roots fs-relative matches at dir, dropping ignored paths and
// files whose extension is not in exts. A nil exts keeps every file.
func joinMatches(dir string, matches, exts []string) []string {
	root := strings.TrimSuffix(filepath.ToSlash(dir), "/")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if isIgnored("/" + m) {
			continue
		}
		if exts != nil && !hasExt(m, exts) {
			continue
		}
		out = append(out, root+"/"+m)
	}
	sort.Strings(out)
	return out
}

// Match reports whether name matches pattern. Both are slash-separated.
func Match(pattern, name string) bool {
	ok, err := doublestar.Match(Normalize(pattern), filepath.ToSlash(name))
	return err == nil && ok
}

// ReadDir lists the regular files directly inside dir whose extension is
// one of exts, sorted. A missing directory yields no files.
func ReadDir(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !hasExt(e.Name(), exts) {
			continue
		}
		out = append(out, filepath.ToSlash(filepath.Join(dir, e.Name())))
	}
	sort.Strings(out)
	return out
}

// Walk lists every regular file below dir whose extension is one of exts, sorted.
func Walk(dir string, exts []string) []string {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*", doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		return nil
	}
	out := joinMatches(dir, matches, exts)
	if len(out) == 0 {
		return nil
	}
	return out
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func isIgnored(p string) bool {
	for _, seg := range ignoredSegments {
		if strings.Contains(p, "/"+seg+"/") {
			return true
		}
	}
	return false
}
