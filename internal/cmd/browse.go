package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/pthm/issuesreport/internal/ui"
)

var (
	browsePrint   bool
	browseNewOnly bool
)

var browseCmd = &cobra.Command{
	Use:   "browse <analysis>",
	Short: "Interactively browse the issues report of an analysis",
	Long: `Displays an interactive tree of the issues report: files, then the
rules violated in each file, then the issues themselves.

Controls:
  ↑/k, ↓/j    Navigate up/down
  ←/h, →/l    Collapse/expand nodes
  Enter/Space Toggle expand/collapse
  n           Toggle new issues only
  r           Toggle resolved issues
  q           Quit

Examples:
  issuesreport browse analysis.yaml
  issuesreport browse --print --new analysis.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVarP(&browsePrint, "print", "p", false, "Print tree to stdout instead of interactive mode")
	browseCmd.Flags().BoolVar(&browseNewOnly, "new", false, "Only show new issues when printing")
	browseCmd.Flags().StringVar(&reportFlags.projectKey, "project-key", "", "Project key, when the analysis does not name one")
	browseCmd.Flags().StringVar(&reportFlags.baseDir, "base-dir", "", "Project base directory")
	browseCmd.Flags().StringVar(&reportFlags.serverURL, "server-url", "", "Analysis server URL")
	RootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	u := GetUI()

	if !browsePrint && !u.IsInteractive() {
		return goerr.New("browse command requires an interactive terminal (TTY). Use --print for non-interactive output")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyReportFlags(cmd, cfg)

	var spinner *ui.SimpleSpinner
	if !browsePrint {
		spinner = u.StartSimpleSpinner(u.ErrWriter, "Building issues report...")
	}

	ctx, a, err := prepare(ctx, cfg, args[0], nil)
	if err != nil {
		spinner.Stop()
		return err
	}
	rep := a.build(ctx, nil)
	spinner.Stop()

	if browsePrint {
		return ui.PrintReport(u.Writer, rep, u.Styles, browseNewOnly)
	}

	p := tea.NewProgram(ui.NewReportModel(rep), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return goerr.Wrap(err, "error running report browser")
	}
	return nil
}
