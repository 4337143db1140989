// Package resolver expands a file pattern into the module keys of one
// content source, merging typed source files with externally supplied
// content loaders.
package resolver

import (
	"context"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/source"
	"github.com/Aman-CERP/contentgraph/internal/visibility"
)

var sourcePatternRe = regexp.MustCompile(`(^|[^a-zA-Z])(tsx?|jsx?|mts|mjs)([^a-zA-Z]|$)`)

// IsSourcePattern reports whether pattern targets typed source files.
func IsSourcePattern(pattern string) bool {
	return sourcePatternRe.MatchString(pattern)
}

// Result is the module space of one pattern.
type Result struct {
	// Keys are all module keys in lexical order.
	Keys []string

	// Modules holds a loader for every key. Source keys without a sibling
	// content module carry a no-op loader.
	Modules content.Modules

	// Sources maps source module keys to their analyzed files.
	Sources map[string]*source.File

	// Merged maps absorbed content keys to the source key that took over
	// their loader.
	Merged map[string]string
}

// Resolver resolves patterns against a source project and visibility index.
type Resolver struct {
	project    *source.Project
	index      *visibility.Index
	workingDir string
	logger     *slog.Logger
}

// New creates a Resolver.
func New(project *source.Project, index *visibility.Index, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		project:    project,
		index:      index,
		workingDir: strings.TrimSuffix(project.WorkingDir(), "/"),
		logger:     logger,
	}
}

// Resolve expands pattern into module keys. A nil modules map means no
// loader wiring is present and is rejected.
func (r *Resolver) Resolve(ctx context.Context, pattern string, modules content.Modules) (*Result, error) {
	if modules == nil {
		return nil, errors.New(errors.ErrCodeLoaderMissing, "no content loaders configured", nil).
			WithDetail("pattern", pattern).
			WithSuggestion("pass a content.Modules map, e.g. from content.DiscoverModules")
	}

	res := &Result{
		Modules: make(content.Modules, len(modules)),
		Sources: make(map[string]*source.File),
		Merged:  make(map[string]string),
	}

	// Content keys by absolute path without extension, for sibling matching.
	siblings := make(map[string]string)
	byAbs := make(map[string]string)
	for _, key := range modules.Keys() {
		abs := r.Abs(key)
		byAbs[abs] = key
		if ext := path.Ext(abs); ext == ".md" || ext == ".mdx" {
			stem := strings.TrimSuffix(abs, ext)
			// .mdx wins over .md for the same stem
			if prev, ok := siblings[stem]; !ok || path.Ext(prev) == ".md" {
				siblings[stem] = key
			}
		}
	}

	absorbed := make(map[string]bool)
	if IsSourcePattern(pattern) {
		files, err := r.project.AddSourceFiles(ctx, pattern)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			ownKey, hasOwnKey := byAbs[f.Path]
			if !r.index.Eligible(f.Path) || !r.index.IsPublic(ctx, f) {
				r.logger.Debug("source file not public", slog.String("path", f.Path))
				if hasOwnKey {
					absorbed[ownKey] = true
				}
				continue
			}

			key := r.Key(f.Path)
			res.Sources[key] = f

			stem := strings.TrimSuffix(f.Path, path.Ext(f.Path))
			switch {
			case hasOwnKey:
				res.Modules[key] = modules[ownKey]
				if ownKey != key {
					absorbed[ownKey] = true
					res.Merged[ownKey] = key
				}
			case siblings[stem] != "":
				sib := siblings[stem]
				res.Modules[key] = modules[sib]
				absorbed[sib] = true
				res.Merged[sib] = key
			default:
				res.Modules[key] = content.Noop()
			}
		}
	}

	for key, loader := range modules {
		if absorbed[key] {
			continue
		}
		if _, ok := res.Modules[key]; !ok {
			res.Modules[key] = loader
		}
	}

	res.Keys = res.Modules.Keys()
	r.logger.Debug("pattern resolved",
		slog.String("pattern", pattern),
		slog.Int("modules", len(res.Keys)),
		slog.Int("sources", len(res.Sources)))
	return res, nil
}

// Key converts an absolute file path back to the working-directory
// relative form patterns are written in. Paths outside the working
// directory stay absolute.
func (r *Resolver) Key(abs string) string {
	if rel, ok := strings.CutPrefix(abs, r.workingDir+"/"); ok {
		return rel
	}
	return abs
}

// Abs resolves a module key to an absolute slash-separated path. Relative
// keys are taken relative to the working directory.
func (r *Resolver) Abs(key string) string {
	key = strings.TrimPrefix(key, "./")
	if path.IsAbs(key) {
		return path.Clean(key)
	}
	return path.Join(r.workingDir, key)
}
