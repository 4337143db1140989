package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/graph"
	"github.com/Aman-CERP/contentgraph/internal/output"
)

func newGetCmd() *cobra.Command {
	var (
		sourceName string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get <pathname>",
		Short: "Show one entry with its headings, types and examples",
		Example: `  contentgraph get getting-started/install
  contentgraph get /components/button --source components --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			e, sc, err := a.sourceEngine(cmd.Context(), sourceName)
			if err != nil {
				return err
			}
			entry, err := e.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				return errors.Newf(errors.ErrCodeInvalidInput, "no entry at %q", args[0]).
					WithDetail("source", sc.Name).
					WithSuggestion("run 'contentgraph paths' to see the available pathnames")
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entry)
			}
			printEntry(a.out, entry)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", "", "Source name (default: first configured source)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the entry as JSON")

	return cmd
}

func printEntry(out *output.Writer, entry *graph.Entry) {
	out.Header(entry.Title)
	out.Field("Route", entry.Pathname)
	out.Field("Description", entry.Description)
	out.Field("Source", entry.SourcePath)
	if entry.Previous != nil {
		out.Field("Previous", entry.Previous.Pathname)
	}
	if entry.Next != nil {
		out.Field("Next", entry.Next.Pathname)
	}

	if len(entry.Headings) > 0 {
		out.Newline()
		out.Header("Headings")
		for _, h := range entry.Headings {
			out.Status("", fmt.Sprintf("%s%s (#%s)", strings.Repeat("  ", max(h.Depth-1, 0)), h.Text, h.ID))
		}
	}

	if len(entry.Types) > 0 {
		out.Newline()
		out.Header("Types")
		for _, t := range entry.Types {
			out.Route(t.Name, string(t.Kind), t.Description)
			for _, p := range t.Props {
				out.Field(p.Name, p.Type)
			}
		}
	}

	if len(entry.Examples) > 0 {
		out.Newline()
		out.Header("Examples")
		for _, ex := range entry.Examples {
			out.Route(ex.Pathname, ex.Name, "")
		}
	}
}
