package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		sourceName string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a source in order",
		Example: `  contentgraph list
  contentgraph list --source components --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			e, sc, err := a.sourceEngine(cmd.Context(), sourceName)
			if err != nil {
				return err
			}
			entries, err := e.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			a.out.Header(sc.Name)
			for _, entry := range entries {
				a.out.Route(entry.Pathname, entry.Title, entry.Description)
			}
			if len(entries) == 0 {
				a.out.Warningf("no entries match %s", sc.Pattern)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "Source name (default: first configured source)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entries as JSON")

	return cmd
}
