package cmd

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/internal/config"
	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/graph"
	"github.com/Aman-CERP/contentgraph/internal/logging"
	"github.com/Aman-CERP/contentgraph/internal/manifest"
	"github.com/Aman-CERP/contentgraph/internal/output"
	"github.com/Aman-CERP/contentgraph/internal/source"
	"github.com/Aman-CERP/contentgraph/internal/sourcepath"
)

// app holds what every command needs: the project root, its
// configuration and the shared source project.
type app struct {
	root     string
	cfg      *config.Config
	manifest *manifest.Manifest
	links    *sourcepath.Resolver
	project  *source.Project
	logger   *slog.Logger
	out      *output.Writer
}

// loadApp resolves the project root and configuration for cmd.
func loadApp(cmd *cobra.Command) (*app, error) {
	var (
		root string
		cfg  *config.Config
		err  error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		root, err = filepath.Abs(filepath.Dir(configPath))
		if err != nil {
			return nil, err
		}
	} else {
		root, err = config.FindProjectRoot(workDir)
		if err != nil {
			return nil, err
		}
		cfg, err = config.Load(root)
		if err != nil {
			return nil, err
		}
	}

	logger := slog.Default()
	if !debugMode {
		logger, _, err = logging.Setup(logging.Config{Level: cfg.LogLevel, Stderr: cmd.ErrOrStderr()})
		if err != nil {
			return nil, err
		}
		slog.SetDefault(logger)
	}

	var m *manifest.Manifest
	if cfg.Manifest != "" {
		m, err = manifest.Load(filepath.Join(root, cfg.Manifest))
	} else {
		m, err = manifest.Find(root)
	}
	if err != nil {
		return nil, err
	}

	project, err := source.NewProject(source.Options{
		WorkingDir: root,
		CacheSize:  cfg.CacheSize,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("project loaded",
		slog.String("root", root),
		slog.Int("sources", len(cfg.Sources)),
		slog.Bool("manifest", m != nil))

	return &app{
		root:     root,
		cfg:      cfg,
		manifest: m,
		links: sourcepath.New(sourcepath.Options{
			Mode:      sourcepath.Mode(cfg.Links.Mode),
			Editor:    cfg.Links.Editor,
			RootDir:   root,
			GitSource: cfg.Links.GitSource,
			GitBranch: cfg.Links.GitBranch,
		}),
		project: project,
		logger:  logger,
		out:     output.New(cmd.OutOrStdout(), noColor),
	}, nil
}

// Close releases the shared source project.
func (a *app) Close() {
	a.project.Close()
}

// modules discovers the content loaders of a source.
func (a *app) modules(sc config.SourceConfig) (content.Modules, error) {
	opts := content.DiscoverOptions{WorkingDir: a.root, Project: a.project, Logger: a.logger}
	modules, err := content.DiscoverModules(sc.Pattern, opts)
	if err != nil {
		return nil, err
	}
	if sc.Content != "" {
		extra, err := content.DiscoverModules(sc.Content, opts)
		if err != nil {
			return nil, err
		}
		maps.Copy(modules, extra)
	}
	return modules, nil
}

// engine builds the content graph of a source on the shared project.
func (a *app) engine(ctx context.Context, sc config.SourceConfig) (*graph.Engine, error) {
	modules, err := a.modules(sc)
	if err != nil {
		return nil, err
	}
	opts := graph.Options{
		BaseDirectory: sc.BaseDirectory,
		BasePath:      sc.BasePath,
		WorkingDir:    a.root,
		Manifest:      a.manifest,
		Links:         a.links,
		Project:       a.project,
		Logger:        a.logger,
	}
	if sc.SortBy != "" {
		opts.Sort = graph.SortBy(sc.SortBy, sc.Descending())
	}
	return graph.New(ctx, sc.Pattern, modules, opts)
}

// sourceEngine builds the engine of the named source, or of the first
// source when name is empty.
func (a *app) sourceEngine(ctx context.Context, name string) (*graph.Engine, config.SourceConfig, error) {
	sc, err := a.cfg.Source(name)
	if err != nil {
		return nil, sc, err
	}
	e, err := a.engine(ctx, sc)
	return e, sc, err
}

// dbPath resolves the export database path against the project root.
func (a *app) dbPath(override string) string {
	p := a.cfg.Export.Path
	if override != "" {
		p = override
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.root, p)
}
