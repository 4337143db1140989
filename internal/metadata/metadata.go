// Package metadata extracts the presentable metadata of one module: title,
// description, public type signatures, headings and examples.
package metadata

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/examples"
	"github.com/Aman-CERP/contentgraph/internal/pathname"
	"github.com/Aman-CERP/contentgraph/internal/source"
	"github.com/Aman-CERP/contentgraph/internal/sourcepath"
	"github.com/Aman-CERP/contentgraph/internal/visibility"
)

// TypesHeading is the heading appended before type signatures.
var TypesHeading = content.Heading{Text: "Types", ID: "types", Depth: 2}

// TypeRecord is the public signature of one exported declaration.
type TypeRecord struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Kind        source.Kind      `json:"kind"`
	Description string           `json:"description,omitempty"`
	SourcePath  string           `json:"sourcePath"`
	Props       []*source.Prop   `json:"props,omitempty"`
	UnionProps  [][]*source.Prop `json:"unionProps,omitempty"`
}

// Input describes the module to extract.
type Input struct {
	ModuleKey string

	// Pathname is the module's canonical pathname; example pathnames
	// are nested below it.
	Pathname string

	// AbsPath is the module's absolute file path, used for its source link.
	AbsPath string

	// File is the analyzed source file, nil for prose-only modules.
	File *source.File

	Loader content.Loader

	// Examples finds loaders for example files by absolute path.
	Examples examples.LoaderLookup
}

// Result is the extracted metadata of one module.
type Result struct {
	Module      *content.Module
	Title       string
	Description string
	Headings    []content.Heading
	Types       []TypeRecord
	Examples    []examples.Example
	SourcePath  string

	// MainDeclaration is the module's representative declaration, nil
	// when neither the default export nor a basename match exists.
	MainDeclaration *source.Declaration
}

// Extractor extracts module metadata. It is safe for concurrent use.
type Extractor struct {
	project   *source.Project
	index     *visibility.Index
	collector *examples.Collector
	links     *sourcepath.Resolver
	logger    *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(project *source.Project, index *visibility.Index, links *sourcepath.Resolver, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		project:   project,
		index:     index,
		collector: examples.NewCollector(project, links, logger),
		links:     links,
		logger:    logger,
	}
}

// Extract loads the module's content and examples concurrently and derives
// its metadata. A failing loader fails the extraction.
func (e *Extractor) Extract(ctx context.Context, in Input) (*Result, error) {
	res := &Result{SourcePath: e.sourcePath(in.AbsPath, 0, 0)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if in.Loader == nil {
			return errors.Newf(errors.ErrCodeLoaderMissing, "no loader for module %s", in.ModuleKey)
		}
		m, err := in.Loader(gctx)
		if err != nil {
			return errors.New(errors.ErrCodeLoaderFailed, "content module failed to load", err).
				WithDetail("module", in.ModuleKey)
		}
		if m == nil {
			m = &content.Module{}
		}
		res.Module = m
		return nil
	})
	if in.File != nil {
		g.Go(func() error {
			lookup := in.Examples
			if lookup == nil {
				lookup = func(string) (content.Loader, bool) { return nil, false }
			}
			ex, err := e.collector.Collect(gctx, in.File, in.Pathname, lookup)
			if err != nil {
				return err
			}
			res.Examples = ex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var exports []source.Export
	if in.File != nil {
		exports = e.project.ExportedDeclarations(ctx, in.File)
		res.MainDeclaration = e.mainDeclaration(ctx, in.File, exports, in.ModuleKey)
		res.Types = e.types(ctx, exports)
	}

	m := res.Module
	res.Title = title(m, in.ModuleKey)
	res.Description = description(m, res.MainDeclaration)
	res.Headings = headings(m.Headings, res.Types)

	e.logger.Debug("module extracted",
		slog.String("module", in.ModuleKey),
		slog.Int("types", len(res.Types)),
		slog.Int("examples", len(res.Examples)))
	return res, nil
}

// mainDeclaration selects the export whose symbol is the default export's,
// falling back to the export named after the module's cleaned basename.
func (e *Extractor) mainDeclaration(ctx context.Context, f *source.File, exports []source.Export, moduleKey string) *source.Declaration {
	if sym, ok := e.project.DefaultExportSymbol(ctx, f); ok {
		for _, exp := range exports {
			if exp.Symbol == sym {
				return exp.Primary()
			}
		}
	}
	base := pathname.Basename(moduleKey)
	for _, exp := range exports {
		if exp.Name == base {
			return exp.Primary()
		}
	}
	return nil
}

// types builds a record for every public export. A default export that
// aliases a named export is reported once, under its name.
func (e *Extractor) types(ctx context.Context, exports []source.Export) []TypeRecord {
	seen := make(map[source.Symbol]bool)
	for _, exp := range exports {
		if exp.Name != "default" {
			seen[exp.Symbol] = false
		}
	}

	slugger := content.NewSlugger()
	var records []TypeRecord
	for _, exp := range exports {
		if done, named := seen[exp.Symbol]; done || (named && exp.Name == "default") {
			continue
		}
		seen[exp.Symbol] = true

		decl := exp.Primary()
		if decl == nil || !e.index.IsPublicDeclaration(ctx, decl) {
			continue
		}

		props, union := e.project.Props(ctx, decl)
		loc := decl.Location()
		records = append(records, TypeRecord{
			Name:        exp.Name,
			Slug:        slugger.Slug(exp.Name),
			Kind:        decl.Kind,
			Description: decl.Description(),
			SourcePath:  e.sourcePath(loc.File, loc.Line, loc.Column),
			Props:       props,
			UnionProps:  union,
		})
	}
	return records
}

func (e *Extractor) sourcePath(file string, line, column int) string {
	if file == "" {
		return ""
	}
	if e.links == nil {
		return file
	}
	return e.links.Resolve(file, line, column)
}

// title resolves explicit metadata, then the leading depth-1 heading, then
// the module's filename.
func title(m *content.Module, moduleKey string) string {
	if m.Metadata != nil && m.Metadata.Title != "" {
		return m.Metadata.Title
	}
	if t := content.Title(m.Headings); t != "" {
		return t
	}
	return pathname.FilenameTitle(moduleKey)
}

// description resolves explicit metadata, then the main declaration's doc.
func description(m *content.Module, main *source.Declaration) string {
	if m.Metadata != nil && m.Metadata.Description != "" {
		return m.Metadata.Description
	}
	if main == nil {
		return ""
	}
	return main.Description()
}

// headings appends a Types section listing every type record.
func headings(base []content.Heading, types []TypeRecord) []content.Heading {
	out := append([]content.Heading(nil), base...)
	if len(types) == 0 {
		return out
	}
	out = append(out, TypesHeading)
	for _, t := range types {
		out = append(out, content.Heading{Text: t.Name, ID: t.Slug, Depth: 3})
	}
	return out
}
