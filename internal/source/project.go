package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/glob"
)

// DefaultCacheSize bounds the number of analyzed files kept in memory.
const DefaultCacheSize = 4096

// maxAliasDepth bounds re-export and import chains.
const maxAliasDepth = 32

// Options configures a Project.
type Options struct {
	WorkingDir string
	CacheSize  int
	Registry   *LanguageRegistry
	Logger     *slog.Logger
}

// Project loads and analyzes typed source files and resolves exports
// across them. It is safe for concurrent use.
type Project struct {
	workingDir string
	registry   *LanguageRegistry
	logger     *slog.Logger

	parseMu sync.Mutex
	parser  *Parser

	cache *lru.Cache[string, *File]
	loads singleflight.Group
}

// NewProject creates a Project rooted at opts.WorkingDir.
func NewProject(opts Options) (*Project, error) {
	if opts.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.IOError("failed to determine working directory", err)
		}
		opts.WorkingDir = wd
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, err := lru.New[string, *File](opts.CacheSize)
	if err != nil {
		return nil, errors.InternalError("failed to create file cache", err)
	}

	return &Project{
		workingDir: filepath.ToSlash(opts.WorkingDir),
		registry:   opts.Registry,
		logger:     opts.Logger,
		parser:     NewParserWithRegistry(opts.Registry),
		cache:      cache,
	}, nil
}

// WorkingDir returns the directory relative paths are resolved against.
func (p *Project) WorkingDir() string { return p.workingDir }

// Close releases parser resources.
func (p *Project) Close() {
	p.parseMu.Lock()
	defer p.parseMu.Unlock()
	p.parser.Close()
}

// AddSourceFiles loads every supported file matching pattern, in path order.
func (p *Project) AddSourceFiles(ctx context.Context, pattern string) ([]*File, error) {
	if !glob.Validate(pattern) {
		return nil, errors.Newf(errors.ErrCodeInvalidPattern, "invalid pattern %q", pattern)
	}
	paths, err := glob.Files(pattern, p.workingDir)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidPattern, fmt.Sprintf("failed to expand %q", pattern), err)
	}

	files := make([]*File, 0, len(paths))
	for _, fp := range paths {
		if !p.registry.Supports(path.Ext(fp)) {
			continue
		}
		f, err := p.Load(ctx, fp)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Load returns the analyzed file at filePath, parsing it on first use.
func (p *Project) Load(ctx context.Context, filePath string) (*File, error) {
	abs := p.abs(filePath)
	if f, ok := p.cache.Get(abs); ok {
		return f, nil
	}

	v, err, _ := p.loads.Do(abs, func() (any, error) {
		if f, ok := p.cache.Get(abs); ok {
			return f, nil
		}
		f, err := p.parseFile(ctx, abs)
		if err != nil {
			return nil, err
		}
		p.cache.Add(abs, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*File), nil
}

// Lookup loads filePath if it exists and is a supported source file.
func (p *Project) Lookup(ctx context.Context, filePath string) (*File, bool) {
	abs := p.abs(filePath)
	if !p.registry.Supports(path.Ext(abs)) || !isFile(abs) {
		return nil, false
	}
	f, err := p.Load(ctx, abs)
	if err != nil {
		p.logger.Debug("source file skipped", slog.String("path", abs), slog.String("error", err.Error()))
		return nil, false
	}
	return f, true
}

// Invalidate drops cached analysis for the given paths.
func (p *Project) Invalidate(paths ...string) {
	for _, fp := range paths {
		p.cache.Remove(p.abs(fp))
	}
}

// Purge drops all cached analysis.
func (p *Project) Purge() {
	p.cache.Purge()
}

func (p *Project) parseFile(ctx context.Context, abs string) (*File, error) {
	cfg, ok := p.registry.GetByExtension(path.Ext(abs))
	if !ok {
		return nil, errors.Newf(errors.ErrCodeParseFailed, "unsupported source file %s", abs)
	}

	content, err := os.ReadFile(filepath.FromSlash(abs))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "source file not found", err).WithDetail("path", abs)
		}
		return nil, errors.IOError("failed to read source file", err).WithDetail("path", abs)
	}

	p.parseMu.Lock()
	tree, err := p.parser.Parse(ctx, content, cfg.Name)
	p.parseMu.Unlock()
	if err != nil {
		return nil, errors.New(errors.ErrCodeParseFailed, "failed to parse source file", err).WithDetail("path", abs)
	}
	if tree.Root.HasError {
		p.logger.Debug("source file has syntax errors", slog.String("path", abs))
	}

	return analyze(abs, tree), nil
}

func (p *Project) abs(filePath string) string {
	filePath = filepath.ToSlash(filePath)
	if !path.IsAbs(filePath) {
		filePath = path.Join(p.workingDir, filePath)
	}
	return path.Clean(filePath)
}

func isFile(p string) bool {
	info, err := os.Stat(filepath.FromSlash(p))
	return err == nil && info.Mode().IsRegular()
}

// ResolveModule resolves a relative module specifier imported by from.
// Package specifiers are not resolved.
func (p *Project) ResolveModule(ctx context.Context, from *File, specifier string) (*File, bool) {
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") && specifier != "." && specifier != ".." {
		return nil, false
	}
	base := path.Join(from.Dir(), specifier)

	var candidates []string
	if ext := path.Ext(base); p.registry.Supports(ext) {
		candidates = append(candidates, base)
		// ESM-style specifiers name the emitted .js file.
		switch ext {
		case ".js", ".jsx", ".mjs":
			trimmed := strings.TrimSuffix(base, ext)
			candidates = append(candidates, trimmed+".ts", trimmed+".tsx", trimmed+".mts")
		}
	}
	for _, ext := range ResolutionExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range ResolutionExtensions {
		candidates = append(candidates, base+"/index"+ext)
	}

	for _, c := range candidates {
		if isFile(c) {
			if f, ok := p.Lookup(ctx, c); ok {
				return f, true
			}
		}
	}
	return nil, false
}

// DeclaredSymbol returns the symbol f exports under name, before any alias
// is followed.
func (p *Project) DeclaredSymbol(f *File, name string) (Symbol, bool) {
	for _, e := range f.exports {
		if !e.Star && e.Name == name {
			return Symbol{File: f.Path, Name: name, exported: true}, true
		}
	}
	if _, ok := f.declarations[name]; ok {
		return Symbol{File: f.Path, Name: name}, true
	}
	return Symbol{}, false
}

// AliasedSymbol follows export and import aliases from sym to the symbol
// that declares it. Declaring symbols resolve to themselves.
func (p *Project) AliasedSymbol(ctx context.Context, sym Symbol) (Symbol, bool) {
	return p.aliased(ctx, sym, make(map[Symbol]bool))
}

func (p *Project) aliased(ctx context.Context, sym Symbol, visited map[Symbol]bool) (Symbol, bool) {
	if visited[sym] || len(visited) > maxAliasDepth {
		return Symbol{}, false
	}
	visited[sym] = true

	f, err := p.Load(ctx, sym.File)
	if err != nil {
		return Symbol{}, false
	}

	if sym.Name == "*" && !sym.exported {
		return sym, true
	}

	if !sym.exported {
		if _, ok := f.declarations[sym.Name]; ok {
			return sym, true
		}
		b, ok := f.imports[sym.Name]
		if !ok {
			return Symbol{}, false
		}
		target, ok := p.ResolveModule(ctx, f, b.Specifier)
		if !ok {
			return Symbol{}, false
		}
		if b.Name == "*" {
			return Symbol{File: target.Path, Name: "*"}, true
		}
		return p.aliased(ctx, Symbol{File: target.Path, Name: b.Name, exported: true}, visited)
	}

	for _, e := range f.exports {
		if e.Star || e.Name != sym.Name {
			continue
		}
		if e.Specifier == "" {
			return p.aliased(ctx, Symbol{File: f.Path, Name: e.Local}, visited)
		}
		target, ok := p.ResolveModule(ctx, f, e.Specifier)
		if !ok {
			return Symbol{}, false
		}
		if e.Imported == "*" {
			return Symbol{File: target.Path, Name: "*"}, true
		}
		return p.aliased(ctx, Symbol{File: target.Path, Name: e.Imported, exported: true}, visited)
	}

	// Star re-exports never forward the default export.
	if sym.Name == "default" {
		return Symbol{}, false
	}
	for _, e := range f.exports {
		if !e.Star {
			continue
		}
		target, ok := p.ResolveModule(ctx, f, e.Specifier)
		if !ok {
			continue
		}
		if s, ok := p.aliased(ctx, Symbol{File: target.Path, Name: sym.Name, exported: true}, visited); ok {
			return s, true
		}
	}
	return Symbol{}, false
}

// Declarations returns the declarations of a declaring symbol. Namespace
// symbols yield a single declaration spanning the target module.
func (p *Project) Declarations(ctx context.Context, sym Symbol) []*Declaration {
	f, err := p.Load(ctx, sym.File)
	if err != nil {
		return nil
	}
	if sym.Name == "*" && !sym.exported {
		return []*Declaration{{
			Name:           "*",
			Kind:           KindNamespace,
			File:           f,
			Node:           f.Tree.Root,
			Implementation: true,
		}}
	}
	return f.declarations[sym.Name]
}

// ExportedDeclarations enumerates the file's exports in source order, each
// resolved to its declarations. Names that cannot be resolved are skipped.
func (p *Project) ExportedDeclarations(ctx context.Context, f *File) []Export {
	return p.exported(ctx, f, make(map[string]bool))
}

func (p *Project) exported(ctx context.Context, f *File, visiting map[string]bool) []Export {
	if visiting[f.Path] {
		return nil
	}
	visiting[f.Path] = true
	defer delete(visiting, f.Path)

	explicit := make(map[string]bool)
	for _, e := range f.exports {
		if !e.Star {
			explicit[e.Name] = true
		}
	}

	seen := make(map[string]bool)
	var out []Export
	for _, e := range f.exports {
		if e.Star {
			target, ok := p.ResolveModule(ctx, f, e.Specifier)
			if !ok {
				p.logger.Debug("unresolved re-export", slog.String("file", f.Path), slog.String("specifier", e.Specifier))
				continue
			}
			for _, inner := range p.exported(ctx, target, visiting) {
				if inner.Name == "default" || explicit[inner.Name] || seen[inner.Name] {
					continue
				}
				seen[inner.Name] = true
				out = append(out, inner)
			}
			continue
		}

		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true

		declared, _ := p.DeclaredSymbol(f, e.Name)
		sym, ok := p.AliasedSymbol(ctx, declared)
		if !ok {
			continue
		}
		decls := p.Declarations(ctx, sym)
		if len(decls) == 0 {
			continue
		}
		out = append(out, Export{Name: e.Name, Symbol: sym, Declarations: decls})
	}
	return out
}

// DefaultExportSymbol returns the declaring symbol of the file's default
// export.
func (p *Project) DefaultExportSymbol(ctx context.Context, f *File) (Symbol, bool) {
	declared, ok := p.DeclaredSymbol(f, "default")
	if !ok {
		return Symbol{}, false
	}
	return p.AliasedSymbol(ctx, declared)
}
