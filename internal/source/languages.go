package source

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// builtinLanguages are the module languages the project can analyze. JSX
// shares the JavaScript grammar.
var builtinLanguages = []struct {
	config  LanguageConfig
	grammar func() *sitter.Language
}{
	{LanguageConfig{Name: "typescript", Extensions: []string{".ts", ".mts", ".cts"}, Typed: true}, typescript.GetLanguage},
	{LanguageConfig{Name: "tsx", Extensions: []string{".tsx"}, Typed: true}, tsx.GetLanguage},
	{LanguageConfig{Name: "javascript", Extensions: []string{".js", ".mjs", ".cjs"}}, javascript.GetLanguage},
	{LanguageConfig{Name: "jsx", Extensions: []string{".jsx"}}, javascript.GetLanguage},
}

// LanguageRegistry maps file extensions to languages and their grammars.
// It is immutable after construction.
type LanguageRegistry struct {
	byName   map[string]*LanguageConfig
	byExt    map[string]*LanguageConfig
	grammars map[string]*sitter.Language
}

// NewLanguageRegistry creates a registry of the built-in languages.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		byName:   make(map[string]*LanguageConfig),
		byExt:    make(map[string]*LanguageConfig),
		grammars: make(map[string]*sitter.Language),
	}
	for _, lang := range builtinLanguages {
		cfg := lang.config
		r.byName[cfg.Name] = &cfg
		r.grammars[cfg.Name] = lang.grammar()
		for _, ext := range cfg.Extensions {
			r.byExt[ext] = &cfg
		}
	}
	return r
}

// GetByExtension returns the language of a file extension, with or without
// the leading dot, case-insensitively.
func (r *LanguageRegistry) GetByExtension(ext string) (*LanguageConfig, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	cfg, ok := r.byExt[ext]
	return cfg, ok
}

// GetTreeSitterLanguage returns the grammar of a language name.
func (r *LanguageRegistry) GetTreeSitterLanguage(name string) (*sitter.Language, bool) {
	lang, ok := r.grammars[name]
	return lang, ok
}

// Supports reports whether files with the extension can be parsed.
func (r *LanguageRegistry) Supports(ext string) bool {
	_, ok := r.GetByExtension(ext)
	return ok
}

// ResolutionExtensions is the order in which extensionless module
// specifiers are tried.
var ResolutionExtensions = []string{".ts", ".tsx", ".d.ts", ".js", ".jsx", ".mts", ".mjs"}

var defaultRegistry = NewLanguageRegistry()

// DefaultRegistry returns the shared registry of built-in languages.
func DefaultRegistry() *LanguageRegistry {
	return defaultRegistry
}
