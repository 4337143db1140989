// Package visibility decides which source files and declarations belong to
// a directory's public surface.
//
// A directory's surface is defined by its aggregator file (index.ts,
// index.tsx, index.js or index.jsx): every file that declares something the
// aggregator re-exports, directly or through alias chains, is visible.
// Directories without an aggregator are unconstrained. A file with any
// export tagged @private is never visible.
package visibility

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Aman-CERP/contentgraph/internal/manifest"
	"github.com/Aman-CERP/contentgraph/internal/source"
)

// PrivateTag marks an export as internal.
const PrivateTag = "private"

// AggregatorNames are the file names tried, in order, for a directory's
// aggregator.
var AggregatorNames = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// Options configures an Index.
type Options struct {
	// Manifest restricts eligible module paths. Nil means no restriction.
	Manifest *manifest.Manifest

	// BaseDir is the absolute directory module paths are measured from
	// when matching manifest entries.
	BaseDir string

	Logger *slog.Logger
}

// Directory is the computed public surface of one directory.
type Directory struct {
	Path       string
	Aggregator string // empty when the directory has none

	files   map[string]bool
	symbols map[source.Symbol]bool
}

// HasAggregator reports whether an aggregator constrains the directory.
func (d *Directory) HasAggregator() bool { return d.Aggregator != "" }

// Exports reports whether the aggregator re-exports a declaration of file.
func (d *Directory) Exports(file string) bool { return d.files[file] }

// ExportsSymbol reports whether the aggregator re-exports the symbol.
func (d *Directory) ExportsSymbol(sym source.Symbol) bool { return d.symbols[sym] }

// Index memoizes directory surfaces for one indexing run. Entries are
// computed once per directory and never invalidated; create a new Index
// per run. It is safe for concurrent use.
type Index struct {
	project  *source.Project
	manifest *manifest.Manifest
	baseDir  string
	logger   *slog.Logger

	mu    sync.RWMutex
	dirs  map[string]*Directory
	group singleflight.Group
}

// New creates an empty Index over project.
func New(project *source.Project, opts Options) *Index {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = project.WorkingDir()
	}
	return &Index{
		project:  project,
		manifest: opts.Manifest,
		baseDir:  strings.TrimSuffix(baseDir, "/"),
		logger:   opts.Logger,
		dirs:     make(map[string]*Directory),
	}
}

// Directory returns the surface of dir, computing it on first access.
func (x *Index) Directory(ctx context.Context, dir string) *Directory {
	dir = path.Clean(dir)

	x.mu.RLock()
	d, ok := x.dirs[dir]
	x.mu.RUnlock()
	if ok {
		return d
	}

	v, _, _ := x.group.Do(dir, func() (any, error) {
		x.mu.RLock()
		d, ok := x.dirs[dir]
		x.mu.RUnlock()
		if ok {
			return d, nil
		}

		d = x.compute(ctx, dir)

		x.mu.Lock()
		x.dirs[dir] = d
		x.mu.Unlock()
		return d, nil
	})
	return v.(*Directory)
}

func (x *Index) compute(ctx context.Context, dir string) *Directory {
	d := &Directory{
		Path:    dir,
		files:   make(map[string]bool),
		symbols: make(map[source.Symbol]bool),
	}

	var aggregator *source.File
	for _, name := range AggregatorNames {
		if f, ok := x.project.Lookup(ctx, path.Join(dir, name)); ok {
			aggregator = f
			break
		}
	}
	if aggregator == nil {
		x.logger.Debug("directory has no aggregator", slog.String("dir", dir))
		return d
	}

	d.Aggregator = aggregator.Path
	for _, exp := range x.project.ExportedDeclarations(ctx, aggregator) {
		d.symbols[exp.Symbol] = true
		for _, decl := range exp.Declarations {
			d.files[decl.File.Path] = true
		}
	}
	x.logger.Debug("directory surface computed",
		slog.String("dir", dir),
		slog.String("aggregator", aggregator.Path),
		slog.Int("files", len(d.files)))
	return d
}

// IsPublic reports whether f belongs to its directory's public surface.
func (x *Index) IsPublic(ctx context.Context, f *source.File) bool {
	if x.HasPrivateExport(ctx, f) {
		return false
	}
	d := x.Directory(ctx, f.Dir())
	return !d.HasAggregator() || d.Exports(f.Path)
}

// IsPublicDeclaration reports whether a declaration is part of its
// directory's public surface: its file is public and, when an aggregator
// exists, the aggregator re-exports the declaration itself.
func (x *Index) IsPublicDeclaration(ctx context.Context, decl *source.Declaration) bool {
	if !x.IsPublic(ctx, decl.File) {
		return false
	}
	d := x.Directory(ctx, decl.File.Dir())
	return !d.HasAggregator() || d.ExportsSymbol(decl.Symbol())
}

// HasPrivateExport reports whether any export of f is tagged @private.
func (x *Index) HasPrivateExport(ctx context.Context, f *source.File) bool {
	for _, exp := range x.project.ExportedDeclarations(ctx, f) {
		for _, decl := range exp.Declarations {
			if decl.HasTag(PrivateTag) {
				return true
			}
		}
	}
	return false
}

// Eligible reports whether the manifest publishes the file at filePath.
func (x *Index) Eligible(filePath string) bool {
	if x.manifest == nil {
		return true
	}
	rel := strings.TrimPrefix(filePath, x.baseDir+"/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return x.manifest.Eligible(rel)
}
