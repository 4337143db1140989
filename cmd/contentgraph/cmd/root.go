// Package cmd provides the CLI commands for contentgraph.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/contentgraph/internal/logging"
	"github.com/Aman-CERP/contentgraph/internal/profiling"
	"github.com/Aman-CERP/contentgraph/pkg/version"
)

// Global flags
var (
	configPath string
	workDir    string
	debugMode  bool
	noColor    bool

	loggingCleanup func()
)

// Profiling flags
var (
	profileOpts profiling.Options
	profile     *profiling.Session
)

// NewRootCmd creates the root command for the contentgraph CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contentgraph",
		Short: "Index documentation and component sources into a content graph",
		Long: `contentgraph turns Markdown/MDX pages and TypeScript component sources
into an ordered graph of routes with titles, headings, public type
signatures and examples.

Sources are configured in .contentgraph.yaml. Run 'contentgraph init'
to create one.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: startProfilingAndLogging,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return stopProfilingAndLogging()
		},
	}

	cmd.SetVersionTemplate("contentgraph version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a configuration file")
	cmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "Project directory")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.contentgraph/logs/")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.PersistentFlags().StringVar(&profileOpts.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.AddCommand(newPathsCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging enables file logging when --debug is set and
// starts the requested profiles. Without --debug the configured level is
// applied once the configuration is loaded.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Debug("debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}

	if profileOpts.Enabled() {
		s, err := profiling.Start(profileOpts, slog.Default())
		if err != nil {
			return err
		}
		profile = s
	}
	return nil
}

func stopProfilingAndLogging() error {
	err := profile.Stop()
	profile = nil

	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return err
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	// the post-run hook is skipped when a command fails
	if stopErr := stopProfilingAndLogging(); err == nil {
		err = stopErr
	}
	return err
}
