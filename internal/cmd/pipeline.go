package cmd

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/pthm/issuesreport/internal/config"
	"github.com/pthm/issuesreport/internal/job"
	"github.com/pthm/issuesreport/internal/parser"
	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/reporter"
	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
	"github.com/pthm/issuesreport/internal/sonarapi"
	"github.com/pthm/issuesreport/internal/ui"
)

// analysisRun is a loaded analysis and the run scope it is reported in
type analysisRun struct {
	cfg      *config.Config
	run      *job.Run
	analysis *parser.Analysis
}

func newRuleService(cfg *config.Config) rules.Service {
	var opts []sonarapi.Option
	if cfg.Server.Login != "" {
		opts = append(opts, sonarapi.WithCredentials(cfg.Server.Login, cfg.Server.Password))
	}
	return sonarapi.New(cfg.Server.URL, opts...)
}

// prepare loads the analysis at path and registers the project files in a
// new run
func prepare(ctx context.Context, cfg *config.Config, path string, progress *ui.ProgressController) (context.Context, *analysisRun, error) {
	logger := ctxlog.From(ctx)

	progress.SetStage(ui.StageLoadAnalysis)
	progress.SetOperation(filepath.Base(path))
	analysis, err := parser.Parse(path, parser.Options{
		ProjectKey: cfg.Project.Key,
		Title:      cfg.Project.Name,
	})
	if err != nil {
		return ctx, nil, err
	}
	if analysis.ProjectKey == "" {
		return ctx, nil, goerr.New("project key is required", goerr.V("analysis", path))
	}

	ctx, run, err := job.NewRun(ctx, newRuleService(cfg), cfg.Cache.Rules)
	if err != nil {
		return ctx, nil, err
	}

	progress.SetStage(ui.StageCollectFiles)
	files, err := resource.Collect(ctx, resource.CollectOptions{
		ProjectKey: analysis.ProjectKey,
		BaseDir:    cfg.Project.BaseDir,
		Exclusions: cfg.Project.Exclusions,
		Encoding:   cfg.Project.Encoding,
	})
	if err != nil {
		return ctx, nil, err
	}
	run.Resources.RegisterAll(files)

	logger.Debug("analysis loaded",
		"project", analysis.ProjectKey,
		"open", len(analysis.Open),
		"resolved", len(analysis.Resolved),
		"files", run.Resources.Len(),
	)
	return ctx, &analysisRun{cfg: cfg, run: run, analysis: analysis}, nil
}

// build folds the analysis into a report
func (a *analysisRun) build(ctx context.Context, progress *ui.ProgressController) *report.Report {
	progress.SetStage(ui.StageResolveRules)
	b := a.run.Builder(report.WithProgress(progress.IssueProgress))
	return b.Build(ctx, a.analysis.Input())
}

func (a *analysisRun) htmlReporter(enable bool) (*reporter.HTMLReporter, error) {
	cfg := a.cfg
	return reporter.NewHTMLReporter(reporter.HTMLOptions{
		Enable:        enable,
		WorkDir:       cfg.Project.WorkDir,
		Location:      cfg.HTML.Location,
		Name:          cfg.HTML.Name,
		LightModeOnly: cfg.HTML.LightModeOnly,
	}, rules.NewNameProvider(a.run.Catalog), reporter.NewSourceProvider())
}

// reporters returns every sink, enabled or not, in output order
func (a *analysisRun) reporters(ctx context.Context, u *ui.UI) ([]reporter.Reporter, error) {
	cfg := a.cfg

	html, err := a.htmlReporter(cfg.HTML.Enable)
	if err != nil {
		return nil, err
	}

	var slackClient reporter.SlackPoster
	if cfg.Slack.Token != "" {
		slackClient = slack.New(cfg.Slack.Token)
	}

	return []reporter.Reporter{
		html,
		reporter.NewJSONReporter(reporter.JSONOptions{
			Enable:  cfg.JSON.Enable,
			WorkDir: cfg.Project.WorkDir,
			Path:    cfg.JSON.Path,
			Writer:  u.Writer,
		}),
		reporter.NewSlackReporter(slackClient, cfg.Slack.Channel, cfg.Slack.Enable),
		reporter.NewConsoleReporter(u.Writer, u.Styles, cfg.Console.Enable),
	}, nil
}
