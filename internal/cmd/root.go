package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/spf13/cobra"

	"github.com/pthm/issuesreport/internal/config"
	"github.com/pthm/issuesreport/internal/logging"
	"github.com/pthm/issuesreport/internal/ui"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
	noColor    bool

	globalUI *ui.UI
)

// RootCmd is the issuesreport command
var RootCmd = &cobra.Command{
	Use:   "issuesreport",
	Short: "Summarize static-analysis issues into console and HTML reports",
	Long: `issuesreport aggregates the open and resolved issues of a static-analysis
run into a report broken down by severity, rule and file.

Rule names and descriptions are resolved from the analysis server. The
report is printed as a console summary and can be rendered to HTML, JSON
or posted to Slack.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto", "Log format (auto, console, json)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colors and progress display")
}

func setup(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.New(level, cmd.ErrOrStderr(), format)
	cmd.SetContext(ctxlog.With(ctx, logger))

	globalUI = ui.New(os.Stdout, os.Stderr, noColor)
	return nil
}

// GetUI returns the UI configured for the running command
func GetUI() *ui.UI {
	if globalUI == nil {
		globalUI = ui.New(os.Stdout, os.Stderr, noColor)
	}
	return globalUI
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	ctxlog.From(ctx).Debug("configuration loaded",
		"path", configPath,
		"server", cfg.Server,
		"slack", cfg.Slack,
	)
	return cfg, nil
}
