package content

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/glob"
	"github.com/Aman-CERP/contentgraph/internal/source"
)

// ProseExtensions are the file extensions loaded as prose documents.
var ProseExtensions = []string{".md", ".mdx"}

// DiscoverOptions configures DiscoverModules.
type DiscoverOptions struct {
	// WorkingDir resolves relative patterns and relative keys.
	WorkingDir string

	// Project, when set, lets source files expose their export names.
	Project *source.Project

	// AbsoluteKeys keys modules by absolute path instead of by path
	// relative to WorkingDir.
	AbsoluteKeys bool

	Logger *slog.Logger
}

// DiscoverModules builds loaders for the files matching pattern. Prose files
// load their body, front matter and headings; source files load their
// export names. Other files are ignored.
func DiscoverModules(pattern string, opts DiscoverOptions) (Modules, error) {
	if opts.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.IOError("failed to determine working directory", err)
		}
		opts.WorkingDir = wd
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if !glob.Validate(pattern) {
		return nil, errors.Newf(errors.ErrCodeInvalidPattern, "invalid pattern %q", pattern)
	}

	files, err := glob.Files(pattern, opts.WorkingDir)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "failed to expand pattern", err).WithDetail("pattern", pattern)
	}

	wd := strings.TrimSuffix(filepath.ToSlash(opts.WorkingDir), "/")
	modules := make(Modules, len(files))
	for _, file := range files {
		key := file
		if !opts.AbsoluteKeys {
			key = strings.TrimPrefix(file, wd+"/")
		}

		switch ext := strings.ToLower(path.Ext(file)); {
		case isProse(ext):
			modules[key] = proseLoader(file)
		case source.DefaultRegistry().Supports(ext):
			modules[key] = sourceLoader(file, opts.Project)
		default:
			continue
		}
		opts.Logger.Debug("content module discovered", slog.String("key", key))
	}
	return modules, nil
}

func isProse(ext string) bool {
	for _, e := range ProseExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func proseLoader(file string) Loader {
	return func(context.Context) (*Module, error) {
		data, err := os.ReadFile(filepath.FromSlash(file))
		if err != nil {
			return nil, errors.IOError("failed to read content module", err).WithDetail("path", file)
		}
		doc, err := ParseDocument(data)
		if err != nil {
			return nil, errors.New(errors.ErrCodeParseFailed, "invalid content module", err).WithDetail("path", file)
		}
		return &Module{
			Default:     doc.Body,
			Headings:    doc.Headings,
			Metadata:    doc.Metadata(),
			FrontMatter: doc.FrontMatter,
		}, nil
	}
}

func sourceLoader(file string, project *source.Project) Loader {
	return func(ctx context.Context) (*Module, error) {
		m := &Module{Exports: make(map[string]any)}
		if project == nil {
			return m, nil
		}
		f, err := project.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		for _, exp := range project.ExportedDeclarations(ctx, f) {
			if exp.Name == "default" {
				m.Default = exp.Primary().Name
				continue
			}
			m.Exports[exp.Name] = string(exp.Primary().Kind)
		}
		return m, nil
	}
}
