package job_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/job"
	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

type fakeReporter struct {
	name    string
	enabled bool
	err     error
	got     []*report.Report
}

func (r *fakeReporter) Name() string  { return r.name }
func (r *fakeReporter) Enabled() bool { return r.enabled }
func (r *fakeReporter) Report(_ context.Context, rep *report.Report) error {
	r.got = append(r.got, rep)
	return r.err
}

type fakeService struct{}

func (fakeService) ShowRule(_ context.Context, key rules.Key) (*rules.Rule, error) {
	return &rules.Rule{Key: key, Name: "Rule " + key.String()}, nil
}

func TestExecuteSkipsBuildWhenNothingEnabled(t *testing.T) {
	builds := 0
	build := func(context.Context) (*report.Report, error) {
		builds++
		return nil, nil
	}

	disabled := &fakeReporter{name: "html"}
	rep, err := job.New(disabled, nil).Execute(context.Background(), build)
	gt.NoError(t, err)
	gt.V(t, rep).Nil()
	gt.Equal(t, builds, 0)
	gt.A(t, disabled.got).Length(0)
}

func TestExecuteBuildsOnceForAllReporters(t *testing.T) {
	builds := 0
	built := report.NewBuilder(nil, resource.NewIndex()).Build(context.Background(), report.Input{Title: "p"})
	build := func(context.Context) (*report.Report, error) {
		builds++
		return built, nil
	}

	console := &fakeReporter{name: "console", enabled: true}
	html := &fakeReporter{name: "html", enabled: true}
	off := &fakeReporter{name: "json"}

	rep, err := job.New(console, html, off).Execute(context.Background(), build)
	gt.NoError(t, err)
	gt.Equal(t, builds, 1)
	gt.Equal(t, rep, built)
	gt.A(t, console.got).Length(1)
	gt.A(t, html.got).Length(1)
	gt.Equal(t, console.got[0], html.got[0])
	gt.A(t, off.got).Length(0)
}

func TestExecuteReporterFailureDoesNotStopOthers(t *testing.T) {
	built := report.NewBuilder(nil, resource.NewIndex()).Build(context.Background(), report.Input{})
	build := func(context.Context) (*report.Report, error) { return built, nil }

	cause := errors.New("disk full")
	failing := &fakeReporter{name: "html", enabled: true, err: cause}
	console := &fakeReporter{name: "console", enabled: true}

	_, err := job.New(failing, console).Execute(context.Background(), build)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, cause))
	gt.A(t, console.got).Length(1)
}

func TestExecuteBuildFailure(t *testing.T) {
	cause := errors.New("bad input")
	build := func(context.Context) (*report.Report, error) { return nil, cause }

	r := &fakeReporter{name: "console", enabled: true}
	_, err := job.New(r).Execute(context.Background(), build)
	gt.True(t, errors.Is(err, cause))
	gt.A(t, r.got).Length(0)
}

func TestNewRunIsolatesState(t *testing.T) {
	ctx := context.Background()
	_, first, err := job.NewRun(ctx, fakeService{}, 0)
	gt.NoError(t, err).Required()
	_, second, err := job.NewRun(ctx, fakeService{}, 0)
	gt.NoError(t, err).Required()

	gt.True(t, first.ID != second.ID)

	first.Resources.Register(&resource.Resource{Key: "p:a.go", Name: "a.go", Kind: resource.File})
	gt.Equal(t, first.Resources.Len(), 1)
	gt.Equal(t, second.Resources.Len(), 0)

	_, err = first.Catalog.Get(ctx, rules.MustParseKey("foo:bar"))
	gt.NoError(t, err)
	gt.Equal(t, first.Catalog.Len(), 1)
	gt.Equal(t, second.Catalog.Len(), 0)
}

func TestRunBuilderStampsRunID(t *testing.T) {
	ctx, run, err := job.NewRun(context.Background(), fakeService{}, 16)
	gt.NoError(t, err).Required()
	run.Resources.Register(&resource.Resource{Key: "p:a.go", Name: "a.go", Kind: resource.File})

	rep := run.Builder().Build(ctx, report.Input{
		Open: []report.Issue{{Rule: rules.MustParseKey("foo:bar"), Severity: rules.Major, ComponentKey: "p:a.go", New: true}},
	})
	gt.Equal(t, rep.RunID, run.ID)
	gt.Equal(t, rep.Summary().Total().New(), 1)
}

func TestNewRunRequiresService(t *testing.T) {
	_, _, err := job.NewRun(context.Background(), nil, 0)
	gt.Error(t, err)
}
