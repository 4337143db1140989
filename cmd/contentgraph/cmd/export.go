package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/internal/store"
)

func newExportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every source's entries to a SQLite index",
		Long: `Build the content graph of every configured source and write its
entries, type signatures and examples to a SQLite database with a
full-text index, replacing what a previous export wrote.`,
		Example: `  contentgraph export
  contentgraph export --db build/content.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := store.Open(a.dbPath(dbPath), a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			total, err := a.exportAll(cmd.Context(), st)
			if err != nil {
				return err
			}
			a.out.Successf("Exported %d entries from %d sources to %s", total, len(a.cfg.Sources), st.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: export.path from config)")

	return cmd
}

// exportAll rebuilds every source and writes it to st. It returns the
// number of entries written.
func (a *app) exportAll(ctx context.Context, st *store.Store) (int, error) {
	total := 0
	for _, sc := range a.cfg.Sources {
		start := time.Now()
		e, err := a.engine(ctx, sc)
		if err != nil {
			return total, err
		}
		entries, err := e.List(ctx)
		if err != nil {
			return total, err
		}
		if err := st.WriteIndex(ctx, sc.Name, entries); err != nil {
			return total, err
		}
		total += len(entries)
		a.logger.Info("source exported",
			slog.String("source", sc.Name),
			slog.Int("entries", len(entries)),
			slog.Duration("duration", time.Since(start)))
	}
	return total, nil
}
