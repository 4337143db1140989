package pathname

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	pascalCasePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

	// smallWords stay lowercase unless they start the title.
	smallWords = map[string]bool{
		"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
		"by": true, "for": true, "in": true, "nor": true, "of": true, "on": true,
		"or": true, "the": true, "to": true, "vs": true, "with": true,
	}
)

// IsPascalCase reports whether s is a single PascalCase identifier.
func IsPascalCase(s string) bool {
	return pascalCasePattern.MatchString(s)
}

// Title converts a filename-like string into a display title:
// "getting-started" -> "Getting Started", "use_focus" -> "Use Focus".
func Title(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	// A Caser is not safe for concurrent use.
	caser := cases.Title(language.English, cases.NoLower)
	for i, word := range words {
		if i > 0 && smallWords[strings.ToLower(word)] {
			words[i] = strings.ToLower(word)
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

// FilenameTitle derives a title from a module key. Readme and index files
// borrow their parent directory's name; PascalCase names pass through.
func FilenameTitle(moduleKey string) string {
	key := strings.TrimSuffix(moduleKey, "/")
	filename := Basename(key)
	if directoryNamePattern.MatchString(filename) {
		parent := path.Base(path.Dir(key))
		if parent == "." || parent == "/" {
			return Title(filename)
		}
		return Title(CleanFilename(parent))
	}
	if IsPascalCase(filename) {
		return filename
	}
	return Title(filename)
}
