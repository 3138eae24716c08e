// Package cli defines the command-line interface for the component
// renderer.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-components/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	Manifest     string
	TemplatesDir string
	Behavior     string
	LogLevel     string

	logger *slog.Logger
}

// Execute builds the root command, runs it with the provided args, and
// returns any error.
func Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := &Options{
		Manifest:     cfg.Manifest,
		TemplatesDir: cfg.TemplatesDir,
		Behavior:     cfg.Behavior,
		LogLevel:     cfg.LogLevel,
	}

	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "components-cli",
		Short:         "components-cli renders UI components from a YAML manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = logging.New(os.Stderr, logging.ParseLevel(opts.LogLevel))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Manifest, "manifest", "m", opts.Manifest, "Path to the component manifest")
	cmd.PersistentFlags().StringVarP(&opts.TemplatesDir, "templates", "t", opts.TemplatesDir, "Directory holding component template files")
	cmd.PersistentFlags().StringVar(&opts.Behavior, "context-behavior", opts.Behavior, "Context behavior (django, isolated)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newListCommand(opts),
	)
	return cmd
}
