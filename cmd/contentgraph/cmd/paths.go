package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPathsCmd() *cobra.Command {
	var (
		sourceName string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the routable pathnames of a source",
		Long: `Print the pathname segments of every routable entry, one per line.

Directory index and readme modules are left out, so the output can feed
static route generation directly.`,
		Example: `  contentgraph paths
  contentgraph paths --source components --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			e, _, err := a.sourceEngine(cmd.Context(), sourceName)
			if err != nil {
				return err
			}
			paths, err := e.Paths(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(paths)
			}
			for _, segments := range paths {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(segments, "/")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "Source name (default: first configured source)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output segments as JSON")

	return cmd
}
