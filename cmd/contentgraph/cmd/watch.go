package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/internal/store"
	"github.com/Aman-CERP/contentgraph/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export the index whenever source files change",
		Long: `Export every source, then watch the files the sources match and
export again after each burst of changes. Editing the configuration file
reloads it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for {
				a, err := loadApp(cmd)
				if err != nil {
					return err
				}
				reload, err := a.watch(ctx, dbPath)
				a.Close()
				if !reload {
					return err
				}
				a.out.Status("🔄", "Configuration changed, reloading")
			}
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: export.path from config)")

	return cmd
}

// watch exports once and then after every debounced batch of changes. It
// returns reload=true when the configuration changed.
func (a *app) watch(ctx context.Context, dbPath string) (reload bool, err error) {
	st, err := store.Open(a.dbPath(dbPath), a.logger)
	if err != nil {
		return false, err
	}
	defer func() { _ = st.Close() }()

	var patterns []string
	for _, sc := range a.cfg.Sources {
		patterns = append(patterns, sc.Pattern)
		if sc.Content != "" {
			patterns = append(patterns, sc.Content)
		}
	}
	w, err := watcher.New(watcher.Options{
		DebounceWindow: a.cfg.Watch.DebounceDuration(),
		Patterns:       patterns,
		Logger:         a.logger,
	})
	if err != nil {
		return false, err
	}
	defer func() { _ = w.Stop() }()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := w.Start(watchCtx, a.root); err != nil && watchCtx.Err() == nil {
			a.logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
	}()

	total, err := a.exportAll(ctx, st)
	if err != nil {
		return false, err
	}
	a.out.Successf("Exported %d entries, watching %s", total, a.root)

	for {
		select {
		case <-ctx.Done():
			return false, nil
		case err, ok := <-w.Errors():
			if !ok {
				return false, nil
			}
			a.logger.Warn("watch error", slog.String("error", err.Error()))
		case batch, ok := <-w.Events():
			if !ok {
				return false, nil
			}
			paths := make([]string, 0, len(batch))
			for _, ev := range batch {
				if ev.Operation == watcher.OpConfigChange {
					return true, nil
				}
				paths = append(paths, ev.Path)
			}
			a.project.Invalidate(paths...)

			total, err := a.exportAll(ctx, st)
			if err != nil {
				// a broken file must not end the session
				a.out.Error(err.Error())
				continue
			}
			a.out.Successf("Re-exported %d entries after %d changes", total, len(batch))
		}
	}
}
