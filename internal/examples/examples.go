// Package examples discovers the usage examples of a source module and
// links them into a previous/next chain.
//
// Examples come from a sibling file with an ".examples" qualifier
// (Button.examples.tsx next to Button.tsx) and from an adjacent examples/
// directory. Every exported declaration of those files is one example.
package examples

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/glob"
	"github.com/Aman-CERP/contentgraph/internal/pathname"
	"github.com/Aman-CERP/contentgraph/internal/source"
	"github.com/Aman-CERP/contentgraph/internal/sourcepath"
)

// DirName is the adjacent directory scanned for examples.
const DirName = "examples"

// Qualifier is inserted before the extension of sibling example files.
const Qualifier = ".examples"

// sourceExtensions are the example file extensions scanned in examples/.
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Link points at a neighbouring example.
type Link struct {
	Label    string `json:"label"`
	Pathname string `json:"pathname"`
}

// Example is one exported declaration of an example file.
type Example struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Pathname   string `json:"pathname"`
	SourcePath string `json:"sourcePath"`
	SourceText string `json:"sourceText"`

	// Export is the runtime value the example module exposes under the
	// declaration's name.
	Export any `json:"-"`

	File     string `json:"file"`
	Previous *Link  `json:"previous,omitempty"`
	Next     *Link  `json:"next,omitempty"`
}

// LoaderLookup finds the content loader registered for an absolute file path.
type LoaderLookup func(absPath string) (content.Loader, bool)

// Collector gathers examples for source modules.
type Collector struct {
	project *source.Project
	links   *sourcepath.Resolver
	logger  *slog.Logger
}

// NewCollector creates a Collector.
func NewCollector(project *source.Project, links *sourcepath.Resolver, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{project: project, links: links, logger: logger}
}

// IsExampleFile reports whether a module path is an example source file:
// it carries the ".examples" qualifier or lives under an examples/ segment.
func IsExampleFile(p string) bool {
	p = strings.TrimPrefix(p, "/")
	base := path.Base(p)
	if strings.Contains(base, Qualifier+".") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == DirName {
			return true
		}
	}
	return false
}

// Files returns the example files of f: the qualified sibling first, then
// the direct children of the adjacent examples directory, or all of its
// descendants when it has no direct children.
func (c *Collector) Files(ctx context.Context, f *source.File) []*source.File {
	var out []*source.File

	ext := path.Ext(f.Path)
	sibling := path.Join(f.Dir(), f.Basename()+Qualifier+ext)
	if sf, ok := c.project.Lookup(ctx, sibling); ok {
		out = append(out, sf)
	}

	dir := path.Join(f.Dir(), DirName)
	paths := glob.ReadDir(dir, sourceExtensions)
	if len(paths) == 0 {
		paths = glob.Walk(dir, sourceExtensions)
	}
	for _, p := range paths {
		if sf, ok := c.project.Lookup(ctx, p); ok {
			out = append(out, sf)
		}
	}
	return out
}

// Collect builds the examples of f. Each example file must have a loader;
// a missing loader fails the whole collection. Loaders run concurrently.
func (c *Collector) Collect(ctx context.Context, f *source.File, modulePathname string, lookup LoaderLookup) ([]Example, error) {
	files := c.Files(ctx, f)
	if len(files) == 0 {
		return nil, nil
	}

	loaders := make([]content.Loader, len(files))
	for i, ef := range files {
		loader, ok := lookup(ef.Path)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeExampleModuleMissing, "module not found for %s", ef.Path).
				WithDetail("path", ef.Path).
				WithSuggestion("register a content loader keyed by the example file's absolute path")
		}
		loaders[i] = loader
	}

	modules := make([]*content.Module, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i := range loaders {
		i := i // per-iteration copy; module targets go 1.21 loop semantics
		g.Go(func() error {
			m, err := loaders[i](gctx)
			if err != nil {
				return errors.New(errors.ErrCodeLoaderFailed, "example module failed to load", err).
					WithDetail("path", files[i].Path)
			}
			modules[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Example
	for i, ef := range files {
		all = append(all, c.fromFile(ctx, ef, modulePathname, modules[i])...)
	}
	c.logger.Debug("examples collected",
		slog.String("module", f.Path),
		slog.Int("files", len(files)),
		slog.Int("examples", len(all)))
	return all, nil
}

// fromFile turns each export of an example file into an Example, linked to
// its neighbours within the same file.
func (c *Collector) fromFile(ctx context.Context, f *source.File, modulePathname string, module *content.Module) []Example {
	var examples []Example
	for _, exp := range c.project.ExportedDeclarations(ctx, f) {
		decl := exp.Primary()
		slug := pathname.Kebab(exp.Name)
		loc := decl.Location()

		examples = append(examples, Example{
			Name:       pathname.Title(strings.ReplaceAll(slug, "-", " ")),
			Slug:       slug,
			Pathname:   path.Join(modulePathname, slug),
			SourcePath: c.sourcePath(loc),
			SourceText: decl.Text(),
			Export:     exportOf(module, exp.Name),
			File:       f.Path,
		})
	}

	for i := range examples {
		if i > 0 {
			examples[i].Previous = &Link{Label: examples[i-1].Name, Pathname: examples[i-1].Pathname}
		}
		if i+1 < len(examples) {
			examples[i].Next = &Link{Label: examples[i+1].Name, Pathname: examples[i+1].Pathname}
		}
	}
	return examples
}

func (c *Collector) sourcePath(loc source.Location) string {
	if c.links == nil {
		return loc.File
	}
	return c.links.Resolve(loc.File, loc.Line, loc.Column)
}

func exportOf(m *content.Module, name string) any {
	if m == nil {
		return nil
	}
	if name == "default" {
		return m.Default
	}
	return m.Exports[name]
}
