package store

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenRegex matches alphanumeric sequences, underscores included.
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// stopWords are dropped from indexed text and queries.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "for": {}, "in": {},
	"is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "with": {},
}

// Tokenize splits text into lowercase search tokens, breaking camelCase,
// PascalCase and snake_case identifiers apart so "ButtonGroupProps" is
// found by "button group". Tokens shorter than two characters and stop
// words are dropped.
func Tokenize(text string) []string {
	var tokens []string
	for _, word := range tokenRegex.FindAllString(text, -1) {
		for _, part := range strings.Split(word, "_") {
			for _, t := range SplitCamelCase(part) {
				lower := strings.ToLower(t)
				if len(lower) < 2 {
					continue
				}
				if _, stop := stopWords[lower]; stop {
					continue
				}
				tokens = append(tokens, lower)
			}
		}
	}
	return tokens
}

// SplitCamelCase splits camelCase and PascalCase identifiers:
//
//	"getUserById"      -> ["get", "User", "By", "Id"]
//	"HTTPHandler"      -> ["HTTP", "Handler"]
//	"parseHTTPRequest" -> ["parse", "HTTP", "Request"]
func SplitCamelCase(s string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevIsLower := unicode.IsLower(runes[i-1])
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// acronyms stay together until the next lowercase run
			if (prevIsLower || nextIsLower) && current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}
