// Package job runs one issues report: it owns the per-run resource index and
// rule catalog, builds the report once and hands it to every enabled reporter.
package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/reporter"
	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

// Run is the scope of one analysis run. Nothing it holds outlives it.
type Run struct {
	ID        string
	Resources *resource.Index
	Catalog   *rules.Catalog
}

// NewRun creates a run with a fresh resource index and rule catalog. The
// returned context carries a logger tagged with the run ID.
func NewRun(ctx context.Context, service rules.Service, cacheSize int) (context.Context, *Run, error) {
	catalog, err := rules.NewCatalog(service, cacheSize)
	if err != nil {
		return ctx, nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		Resources: resource.NewIndex(),
		Catalog:   catalog,
	}
	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("run_id", run.ID))
	return ctx, run, nil
}

// Builder returns a report builder bound to the run's lookups
func (r *Run) Builder(opts ...report.BuilderOption) *report.Builder {
	opts = append([]report.BuilderOption{report.WithRunID(r.ID)}, opts...)
	return report.NewBuilder(r.Catalog, r.Resources, opts...)
}

// BuildFunc produces the report of a run
type BuildFunc func(ctx context.Context) (*report.Report, error)

// Job dispatches a report to its reporters
type Job struct {
	reporters []reporter.Reporter
}

// New creates a job over reporters
func New(reporters ...reporter.Reporter) *Job {
	return &Job{reporters: reporters}
}

// Execute builds the report if any reporter is enabled, then runs every
// enabled reporter on it. A failing reporter does not stop the others; their
// errors are joined. The report is nil when no reporter is enabled.
func (j *Job) Execute(ctx context.Context, build BuildFunc) (*report.Report, error) {
	logger := ctxlog.From(ctx)

	enabled := reporter.Enabled(j.reporters)
	if len(enabled) == 0 {
		logger.Info("no reporter enabled, skipping issues report")
		return nil, nil
	}

	rep, err := build(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build issues report")
	}

	var errs []error
	for _, r := range enabled {
		logger.Debug("running reporter", "reporter", r.Name())
		if err := r.Report(ctx, rep); err != nil {
			logger.Error("reporter failed", "reporter", r.Name(), "error", err)
			errs = append(errs, goerr.Wrap(err, "reporter failed", goerr.V("reporter", r.Name())))
		}
	}
	return rep, errors.Join(errs...)
}
