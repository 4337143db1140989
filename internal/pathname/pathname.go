// Package pathname maps file-system paths to canonical route pathnames and
// order keys, and derives display titles from filenames.
package pathname

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	// orderPrefixPattern matches a leading sorting number such as "01." in a segment.
	orderPrefixPattern = regexp.MustCompile(`^(\d+)\.`)

	// extensionPattern matches a trailing file extension.
	extensionPattern = regexp.MustCompile(`\.[^/.]+$`)

	// moduleExtensionPattern matches the extension of a content or source module file.
	moduleExtensionPattern = regexp.MustCompile(`(?i)\.(mdx?|[cm]?[jt]sx?)$`)

	// directoryFilePattern matches a trailing "/readme" or "/index" segment.
	directoryFilePattern = regexp.MustCompile(`(?i)/(readme|index)$`)

	// directoryNamePattern matches a readme or index basename.
	directoryNamePattern = regexp.MustCompile(`(?i)(^|/)(readme|index)$`)
)

// Normalizer converts module keys into pathnames relative to a base directory.
// WorkingDir is resolved once by the caller; the zero value normalizes relative paths only.
type Normalizer struct {
	WorkingDir string
	BaseDir    string
}

// Normalize returns the canonical pathname for p.
func (n Normalizer) Normalize(p string) string {
	return Normalize(p, n.BaseDir, n.WorkingDir)
}

// OrderKey returns the order key of p relative to the working directory.
func (n Normalizer) OrderKey(p string) string {
	p = strings.TrimPrefix(filepath.ToSlash(p), "./")
	return OrderKey(stripWorkingDir(p, "", n.WorkingDir))
}

// Normalize converts a file path into a URL-friendly pathname:
//
//	"./docs/01.getting-started.mdx" -> "docs/getting-started"
//	"components/Button/index.tsx"   -> "components/button"
//
// Order prefixes, the extension and a trailing index or readme are only
// stripped from module file paths, so a pathname normalizes to itself.
func Normalize(p, baseDir, workingDir string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = stripWorkingDir(p, baseDir, workingDir)

	file := moduleExtensionPattern.MatchString(p)
	if file {
		p = stripOrderPrefixes(p)
	}

	if baseDir != "" {
		base := strings.Trim(filepath.ToSlash(baseDir), "/")
		base = strings.TrimPrefix(base, "./")
		trimmed := strings.TrimPrefix(p, "/")
		if base != "" && strings.HasPrefix(trimmed, base+"/") {
			p = strings.TrimPrefix(trimmed, base+"/")
		}
	}

	if file {
		p = moduleExtensionPattern.ReplaceAllString(p, "")
		p = directoryFilePattern.ReplaceAllString(p, "")
	}

	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || segment == "." {
			continue
		}
		if hasUpper(segment) {
			segment = Kebab(segment)
		}
		out = append(out, segment)
	}
	return strings.Join(out, "/")
}

// stripOrderPrefixes removes "<digits>." from the start of every segment.
func stripOrderPrefixes(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = orderPrefixPattern.ReplaceAllString(segment, "")
	}
	return strings.Join(segments, "/")
}

func stripWorkingDir(p, baseDir, workingDir string) string {
	if workingDir == "" {
		return p
	}
	wd := strings.TrimSuffix(filepath.ToSlash(workingDir), "/")
	if baseDir != "" {
		prefix := path.Join(wd, filepath.ToSlash(baseDir)) + "/"
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	if p == wd {
		return ""
	}
	if strings.HasPrefix(p, wd+"/") {
		return strings.TrimPrefix(p, wd)
	}
	return p
}

// OrderKey returns the dot-separated order key encoded in p's numeric
// segment prefixes, e.g. "docs/03.examples/01.authoring.mdx" -> "03.01".
// Paths without prefixes return "".
func OrderKey(p string) string {
	var parts []string
	for _, segment := range strings.Split(filepath.ToSlash(p), "/") {
		m := orderPrefixPattern.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		digits := m[1]
		if len(digits) < 2 {
			digits = "0" + digits
		}
		parts = append(parts, digits)
	}
	return strings.Join(parts, ".")
}

// CleanFilename strips a leading sorting number and the file extension from
// a filename.
func CleanFilename(filename string) string {
	filename = orderPrefixPattern.ReplaceAllString(filename, "")
	return extensionPattern.ReplaceAllString(filename, "")
}

// Basename returns the cleaned basename of a module key.
func Basename(moduleKey string) string {
	return CleanFilename(path.Base(filepath.ToSlash(moduleKey)))
}

// IsDirectoryModule reports whether the module key names a readme or index
// file, which represents its directory rather than a leaf page.
func IsDirectoryModule(moduleKey string) bool {
	return directoryNamePattern.MatchString(Basename(moduleKey))
}

// IsDirectoryPathname reports whether a pathname ends in a readme or index segment.
func IsDirectoryPathname(p string) bool {
	return directoryNamePattern.MatchString(p)
}

// Kebab converts camelCase, PascalCase, snake_case and spaced words into
// lowercase kebab-case: "ButtonGroup" -> "button-group", "ABTest" -> "ab-test".
func Kebab(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		switch {
		case r == '_' || r == ' ' || r == '-':
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "-") {
				sb.WriteRune('-')
			}
			continue
		case unicode.IsUpper(r):
			if i > 0 && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "-") {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					sb.WriteRune('-')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// Segments splits a pathname into its non-empty segments.
func Segments(p string) []string {
	var out []string
	for _, segment := range strings.Split(p, "/") {
		if segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

// Route joins a base path and pathname into a rooted route ("/docs/intro").
func Route(basePath, p string) string {
	return "/" + strings.TrimPrefix(path.Join(basePath, p), "/")
}
