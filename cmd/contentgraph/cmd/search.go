package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/store"
)

func newSearchCmd() *cobra.Command {
	var (
		dbPath     string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search an exported index",
		Long: `Search titles, descriptions, headings and type names in the index
written by 'contentgraph export'. Every query term must match.`,
		Example: `  contentgraph search button
  contentgraph search "install guide" --limit 5 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			path := a.dbPath(dbPath)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return errors.New(errors.ErrCodeFileNotFound, "no index found", err).
					WithDetail("path", path).
					WithSuggestion("run 'contentgraph export' first")
			}

			st, err := store.Open(path, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			query := strings.Join(args, " ")
			hits, err := st.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			}
			if len(hits) == 0 {
				a.out.Warningf("no results for %q", query)
				return nil
			}
			a.out.Header(fmt.Sprintf("%d results for %q", len(hits), query))
			for _, h := range hits {
				a.out.Route(h.Route, h.Title, h.Source)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: export.path from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
