// Package graph assembles content modules and analyzed source files into an
// ordered, queryable content graph.
package graph

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/examples"
	"github.com/Aman-CERP/contentgraph/internal/manifest"
	"github.com/Aman-CERP/contentgraph/internal/metadata"
	"github.com/Aman-CERP/contentgraph/internal/pathname"
	"github.com/Aman-CERP/contentgraph/internal/resolver"
	"github.com/Aman-CERP/contentgraph/internal/source"
	"github.com/Aman-CERP/contentgraph/internal/sourcepath"
	"github.com/Aman-CERP/contentgraph/internal/visibility"
)

// SortFunc orders two extracted entries. It returns a negative number when
// a sorts before b, zero when they are equal and a positive number otherwise.
type SortFunc func(a, b *Entry) int

// Options configures an Engine.
type Options struct {
	// BaseDirectory is stripped from the front of every pathname.
	BaseDirectory string

	// BasePath is prepended to every route.
	BasePath string

	// Sort replaces the default order-key ordering. It runs on extracted
	// entries, so every query that needs ordering extracts all modules.
	Sort SortFunc

	// WorkingDir anchors relative patterns and module keys. Defaults to
	// the process working directory.
	WorkingDir string

	// Manifest restricts which source modules are eligible.
	Manifest *manifest.Manifest

	// Links builds source paths. Nil leaves absolute file paths.
	Links *sourcepath.Resolver

	// Project is a shared source project. When nil the engine creates and
	// owns one.
	Project *source.Project

	Logger *slog.Logger
}

// record is one resolved module before extraction.
type record struct {
	key      string
	pathname string
	route    string
	orderKey string
	absPath  string
	file     *source.File
	loader   content.Loader
}

// Engine is the content graph of one pattern. Its module space is fixed at
// construction; entries are extracted on demand and never cached across
// queries. It is safe for concurrent use.
type Engine struct {
	pattern   string
	opts      Options
	project   *source.Project
	ownsProj  bool
	extractor *metadata.Extractor
	logger    *slog.Logger

	records    []*record // default order
	byPathname map[string]*record
	loaders    map[string]content.Loader // every caller module by absolute path
}

// New resolves pattern against modules and builds the pathname space.
// A nil modules map is rejected; two modules normalizing to the same
// pathname are rejected unless one is a source file and the other its
// sibling content module.
func New(ctx context.Context, pattern string, modules content.Modules, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if modules == nil {
		return nil, errors.New(errors.ErrCodeLoaderMissing, "no content loaders configured", nil).
			WithDetail("pattern", pattern).
			WithSuggestion("pass a content.Modules map, e.g. from content.DiscoverModules")
	}

	e := &Engine{pattern: pattern, opts: opts, logger: opts.Logger, project: opts.Project}
	if e.project == nil {
		p, err := source.NewProject(source.Options{WorkingDir: opts.WorkingDir, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		e.project = p
		e.ownsProj = true
	}
	wd := e.project.WorkingDir()

	baseDir := wd
	switch bd := filepath.ToSlash(opts.BaseDirectory); {
	case bd == "":
	case path.IsAbs(bd):
		baseDir = path.Clean(bd)
	default:
		baseDir = path.Join(wd, bd)
	}
	index := visibility.New(e.project, visibility.Options{
		Manifest: opts.Manifest,
		BaseDir:  baseDir,
		Logger:   opts.Logger,
	})
	e.extractor = metadata.NewExtractor(e.project, index, opts.Links, opts.Logger)

	res := resolver.New(e.project, index, opts.Logger)
	resolved, err := res.Resolve(ctx, pattern, modules)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.loaders = make(map[string]content.Loader, len(modules))
	for key, loader := range modules {
		e.loaders[res.Abs(key)] = loader
	}

	norm := pathname.Normalizer{WorkingDir: wd, BaseDir: opts.BaseDirectory}
	e.byPathname = make(map[string]*record, len(resolved.Keys))
	for _, key := range resolved.Keys {
		r := &record{
			key:      key,
			pathname: norm.Normalize(res.Abs(key)),
			orderKey: norm.OrderKey(key),
			absPath:  res.Abs(key),
			file:     resolved.Sources[key],
			loader:   resolved.Modules[key],
		}
		r.route = pathname.Route(opts.BasePath, r.pathname)
		if prev, ok := e.byPathname[r.pathname]; ok {
			e.Close()
			return nil, errors.Newf(errors.ErrCodePathnameCollision, "modules %s and %s both map to pathname %q", prev.key, key, r.pathname).
				WithDetail("pathname", r.pathname).
				WithSuggestion("rename one of the files or narrow the pattern")
		}
		e.byPathname[r.pathname] = r
		e.records = append(e.records, r)
	}
	slices.SortStableFunc(e.records, func(a, b *record) int {
		return pathname.Compare(a.orderKey, a.pathname, b.orderKey, b.pathname)
	})

	e.logger.Debug("content graph built",
		slog.String("pattern", pattern),
		slog.Int("modules", len(e.records)),
		slog.Int("merged", len(resolved.Merged)))
	return e, nil
}

// Close releases the engine's project when the engine created it.
func (e *Engine) Close() {
	if e.ownsProj && e.project != nil {
		e.project.Close()
	}
}

// Pattern returns the pattern the engine was built from.
func (e *Engine) Pattern() string { return e.pattern }

// Len returns the number of modules in the pathname space.
func (e *Engine) Len() int { return len(e.records) }

// All extracts every routable module concurrently and returns the entries
// keyed by route. Example source modules are left out; they surface
// through their owning module's examples.
func (e *Engine) All(ctx context.Context) (map[string]*Entry, error) {
	list, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Entry, len(list))
	for _, en := range list {
		out[en.Pathname] = en
	}
	return out, nil
}

// List is All in graph order, with previous and next links.
func (e *Engine) List(ctx context.Context) ([]*Entry, error) {
	q := e.newQuery()
	seq, err := q.ordered(ctx)
	if err != nil {
		return nil, err
	}

	var listed []int
	for i, r := range seq {
		if !isExampleSource(r) {
			listed = append(listed, i)
		}
	}
	indices := append([]int(nil), listed...)
	for _, i := range listed {
		if j := e.sibling(seq, i, -1); j >= 0 {
			indices = append(indices, j)
		}
		if j := e.sibling(seq, i, 1); j >= 0 {
			indices = append(indices, j)
		}
	}
	if err := q.extractAll(ctx, seq, indices); err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(listed))
	for _, i := range listed {
		out = append(out, q.linked(ctx, seq, i))
	}
	return out, nil
}

// Get returns the entry at pathname with its previous and next siblings,
// or nil when no module maps to it. pathname may be the canonical
// pathname or the full route.
func (e *Engine) Get(ctx context.Context, p string) (*Entry, error) {
	want := e.canonical(p)
	if _, ok := e.byPathname[want]; !ok {
		return nil, nil
	}

	q := e.newQuery()
	seq, err := q.ordered(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(seq, func(r *record) bool { return r.pathname == want })
	indices := []int{i}
	if j := e.sibling(seq, i, -1); j >= 0 {
		indices = append(indices, j)
	}
	if j := e.sibling(seq, i, 1); j >= 0 {
		indices = append(indices, j)
	}
	if err := q.extractAll(ctx, seq, indices); err != nil {
		return nil, err
	}
	return q.linked(ctx, seq, i), nil
}

// Paths returns the segments of every routable pathname in graph order.
// Readme and index modules are left out. Without a custom sort no module
// is loaded.
func (e *Engine) Paths(ctx context.Context) ([][]string, error) {
	seq, err := e.newQuery().ordered(ctx)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for _, r := range seq {
		if pathname.IsDirectoryModule(r.key) || isExampleSource(r) {
			continue
		}
		segments := pathname.Segments(r.pathname)
		if len(segments) == 0 {
			continue
		}
		out = append(out, segments)
	}
	return out, nil
}

// canonical strips the base path and surrounding slashes from a route.
func (e *Engine) canonical(p string) string {
	p = strings.Trim(p, "/")
	if base := strings.Trim(e.opts.BasePath, "/"); base != "" {
		if p == base {
			return ""
		}
		p = strings.TrimPrefix(p, base+"/")
	}
	return p
}

// sibling steps from i in direction dir, skipping modules that are never
// exposed as siblings. It returns -1 at the sequence boundary.
func (e *Engine) sibling(seq []*record, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(seq); j += dir {
		if pathname.IsDirectoryModule(seq[j].key) || isExampleSource(seq[j]) {
			continue
		}
		return j
	}
	return -1
}

// isExampleSource reports whether r is an example source module. Prose
// examples stay routable.
func isExampleSource(r *record) bool {
	if !examples.IsExampleFile(r.key) {
		return false
	}
	return !slices.Contains(content.ProseExtensions, path.Ext(r.key))
}

// query holds the entries extracted during one All, List, Get or Paths
// call. Each module is extracted at most once per query.
type query struct {
	e    *Engine
	mu   sync.Mutex
	memo map[string]*memoEntry
}

type memoEntry struct {
	once  sync.Once
	entry *Entry
	err   error
}

func (e *Engine) newQuery() *query {
	return &query{e: e, memo: make(map[string]*memoEntry)}
}

// entry extracts r once per query.
func (q *query) entry(ctx context.Context, r *record) (*Entry, error) {
	q.mu.Lock()
	m, ok := q.memo[r.pathname]
	if !ok {
		m = &memoEntry{}
		q.memo[r.pathname] = m
	}
	q.mu.Unlock()

	m.once.Do(func() {
		m.entry, m.err = q.e.extract(ctx, r)
	})
	return m.entry, m.err
}

// extractAll extracts the records at indices concurrently and waits for
// all of them.
func (q *query) extractAll(ctx context.Context, seq []*record, indices []int) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, i := range indices {
		r := seq[i]
		g.Go(func() error {
			_, err := q.entry(gctx, r)
			return err
		})
	}
	return g.Wait()
}

// linked returns a copy of the extracted entry at i linked to its
// siblings. Every involved record must already be extracted.
func (q *query) linked(ctx context.Context, seq []*record, i int) *Entry {
	get := func(j int) *Entry {
		if j < 0 {
			return nil
		}
		en, _ := q.entry(ctx, seq[j])
		return en
	}
	return get(i).withSiblings(get(q.e.sibling(seq, i, -1)), get(q.e.sibling(seq, i, 1)))
}

// ordered returns the records in graph order. A custom sort extracts every
// module first.
func (q *query) ordered(ctx context.Context) ([]*record, error) {
	e := q.e
	if e.opts.Sort == nil {
		return e.records, nil
	}

	all := make([]int, len(e.records))
	for i := range all {
		all[i] = i
	}
	if err := q.extractAll(ctx, e.records, all); err != nil {
		return nil, err
	}

	entries := make(map[*record]*Entry, len(e.records))
	for _, r := range e.records {
		en, _ := q.entry(ctx, r)
		entries[r] = en
	}
	seq := slices.Clone(e.records)
	slices.SortStableFunc(seq, func(a, b *record) int {
		return e.opts.Sort(entries[a], entries[b])
	})
	return seq, nil
}

// extract runs metadata extraction for r and assembles its entry.
func (e *Engine) extract(ctx context.Context, r *record) (*Entry, error) {
	res, err := e.extractor.Extract(ctx, metadata.Input{
		ModuleKey: r.key,
		Pathname:  r.route,
		AbsPath:   r.absPath,
		File:      r.file,
		Loader:    r.loader,
		Examples:  e.exampleLoader,
	})
	if err != nil {
		return nil, err
	}

	m := res.Module
	sourcePath := res.SourcePath
	if res.MainDeclaration != nil {
		loc := res.MainDeclaration.Location()
		if e.opts.Links != nil {
			sourcePath = e.opts.Links.Resolve(loc.File, loc.Line, loc.Column)
		}
	}
	return &Entry{
		Pathname:    r.route,
		ModuleKey:   r.key,
		OrderKey:    r.orderKey,
		Title:       res.Title,
		Description: res.Description,
		Headings:    res.Headings,
		FrontMatter: m.FrontMatter,
		Metadata:    m.Metadata,
		Types:       res.Types,
		Examples:    res.Examples,
		SourcePath:  sourcePath,
		Content:     m.Default,
		Exports:     m.Exports,
	}, nil
}

func (e *Engine) exampleLoader(absPath string) (content.Loader, bool) {
	l, ok := e.loaders[absPath]
	return l, ok
}
