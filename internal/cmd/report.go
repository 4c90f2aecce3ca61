package cmd

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/pthm/issuesreport/internal/config"
	"github.com/pthm/issuesreport/internal/job"
	"github.com/pthm/issuesreport/internal/report"
)

var reportFlags struct {
	projectKey   string
	title        string
	baseDir      string
	workDir      string
	exclusions   []string
	html         bool
	htmlLocation string
	lightOnly    bool
	json         bool
	jsonPath     string
	noConsole    bool
	slackChannel string
	serverURL    string
}

var reportCmd = &cobra.Command{
	Use:   "report <analysis>",
	Short: "Build the issues report of an analysis",
	Long: `Build the issues report of an analysis and render it to every enabled
output.

The analysis is a YAML, JSON or SARIF file listing open and resolved issues.
Rule metadata is fetched from the analysis server once per rule.

Examples:
  issuesreport report analysis.yaml
  issuesreport report --html --light-only results.sarif
  issuesreport report --json --json-path - analysis.json > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.projectKey, "project-key", "", "Project key, when the analysis does not name one")
	f.StringVar(&reportFlags.title, "title", "", "Report title")
	f.StringVar(&reportFlags.baseDir, "base-dir", "", "Project base directory")
	f.StringVar(&reportFlags.workDir, "work-dir", "", "Directory receiving generated reports")
	f.StringSliceVar(&reportFlags.exclusions, "exclusions", nil, "Glob patterns of files to leave out")
	f.BoolVar(&reportFlags.html, "html", false, "Generate the HTML report")
	f.StringVar(&reportFlags.htmlLocation, "html-location", "", "HTML report directory")
	f.BoolVar(&reportFlags.lightOnly, "light-only", false, "Only generate the light HTML report")
	f.BoolVar(&reportFlags.json, "json", false, "Generate the JSON report")
	f.StringVar(&reportFlags.jsonPath, "json-path", "", "JSON report path, - for stdout")
	f.BoolVar(&reportFlags.noConsole, "no-console", false, "Do not print the console summary")
	f.StringVar(&reportFlags.slackChannel, "slack-channel", "", "Post the summary to this Slack channel")
	f.StringVar(&reportFlags.serverURL, "server-url", "", "Analysis server URL")
	RootCmd.AddCommand(reportCmd)
}

// applyReportFlags overrides cfg with the flags set on cmd
func applyReportFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("project-key") {
		cfg.Project.Key = reportFlags.projectKey
	}
	if changed("title") {
		cfg.Project.Name = reportFlags.title
	}
	if changed("base-dir") {
		cfg.Project.BaseDir = reportFlags.baseDir
	}
	if changed("work-dir") {
		cfg.Project.WorkDir = reportFlags.workDir
	}
	if changed("exclusions") {
		cfg.Project.Exclusions = reportFlags.exclusions
	}
	if changed("html") {
		cfg.HTML.Enable = reportFlags.html
	}
	if changed("html-location") {
		cfg.HTML.Location = reportFlags.htmlLocation
	}
	if changed("light-only") {
		cfg.HTML.LightModeOnly = reportFlags.lightOnly
	}
	if changed("json") {
		cfg.JSON.Enable = reportFlags.json
	}
	if changed("json-path") {
		cfg.JSON.Path = reportFlags.jsonPath
	}
	if changed("no-console") {
		cfg.Console.Enable = !reportFlags.noConsole
	}
	if changed("slack-channel") {
		cfg.Slack.Enable = true
		cfg.Slack.Channel = reportFlags.slackChannel
	}
	if changed("server-url") {
		cfg.Server.URL = reportFlags.serverURL
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyReportFlags(cmd, cfg)
	if cfg.JSON.Path == "-" {
		// stdout belongs to the JSON document
		cfg.Console.Enable = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	u := GetUI()
	progress := u.StartProgress()
	defer func() {
		progress.Done(nil)
	}()

	ctx, a, err := prepare(ctx, cfg, args[0], progress)
	if err != nil {
		return err
	}

	reporters, err := a.reporters(ctx, u)
	if err != nil {
		return err
	}

	_, err = job.New(reporters...).Execute(ctx, func(ctx context.Context) (*report.Report, error) {
		rep := a.build(ctx, progress)
		// Reporters write to the terminal from here on
		progress.Done(nil)
		progress = nil
		return rep, nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to generate issues report")
	}
	return nil
}
