package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/configs"
	"github.com/Aman-CERP/contentgraph/internal/config"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/output"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .contentgraph.yaml in the project directory",
		Example: `  contentgraph init
  contentgraph init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.New(cmd.OutOrStdout(), noColor)

			dir, err := filepath.Abs(workDir)
			if err != nil {
				return errors.IOError("failed to resolve project directory", err)
			}
			path := filepath.Join(dir, config.FileNames[0])
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeConfigInvalid, "configuration already exists", nil).
					WithDetail("path", path).
					WithSuggestion("use --force to overwrite it")
			}

			if err := os.WriteFile(path, []byte(configs.ProjectConfigTemplate), 0o644); err != nil {
				return errors.IOError("failed to write config file", err).WithDetail("path", path)
			}
			out.Successf("Created %s", path)
			out.Status("", "Edit the sources section, then run 'contentgraph list'")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}
