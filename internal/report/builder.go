package report

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

// RuleLookup resolves rule metadata; *rules.Catalog implements it
type RuleLookup interface {
	Get(ctx context.Context, key rules.Key) (*rules.Rule, error)
}

// ResourceLookup resolves component keys; *resource.Index implements it
type ResourceLookup interface {
	Lookup(key string) (*resource.Resource, bool)
}

// Input is what one analysis hands to the builder
type Input struct {
	Title    string
	Open     []Issue
	Resolved []Issue
}

// Builder folds issues into a Report
type Builder struct {
	rules     RuleLookup
	resources ResourceLookup
	now       func() time.Time
	runID     string
	progress  func(done, total int)
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithClock sets the function providing the report date
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// WithRunID stamps built reports with the analysis run ID
func WithRunID(id string) BuilderOption {
	return func(b *Builder) { b.runID = id }
}

// WithProgress registers a callback invoked after each issue is folded
func WithProgress(fn func(done, total int)) BuilderOption {
	return func(b *Builder) { b.progress = fn }
}

// NewBuilder creates a Builder resolving rules and resources with the given
// lookups
func NewBuilder(ruleLookup RuleLookup, resourceLookup ResourceLookup, opts ...BuilderOption) *Builder {
	b := &Builder{
		rules:     ruleLookup,
		resources: resourceLookup,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build processes the open issues, then the resolved ones. Issues whose rule
// or resource cannot be resolved are logged and left out of every tally.
func (b *Builder) Build(ctx context.Context, in Input) *Report {
	report := newReport(in.Title, b.now(), b.runID)

	total := len(in.Open) + len(in.Resolved)
	var done, skipped int
	step := func(kept bool) {
		if !kept {
			skipped++
		}
		done++
		if b.progress != nil {
			b.progress(done, total)
		}
	}

	for _, issue := range in.Open {
		step(b.fold(ctx, report, issue, false))
	}
	for _, issue := range in.Resolved {
		step(b.fold(ctx, report, issue, true))
	}

	ctxlog.From(ctx).Debug("report built",
		"open", len(in.Open),
		"resolved", len(in.Resolved),
		"skipped", skipped,
		"resources", len(report.resourceReports),
	)
	return report
}

// fold adds one issue to report and reports whether it was kept. Nothing is
// counted until both the rule and the resource are known.
func (b *Builder) fold(ctx context.Context, report *Report, issue Issue, resolved bool) bool {
	logger := ctxlog.From(ctx)

	rule, err := b.rules.Get(ctx, issue.Rule)
	if err != nil || rule == nil {
		attrs := []any{"rule", issue.Rule.String(), "component", issue.ComponentKey}
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		logger.Warn("unknown rule, issue skipped", attrs...)
		return false
	}

	res, ok := b.resources.Lookup(issue.ComponentKey)
	if !ok {
		logger.Debug("unknown resource, issue skipped",
			"component", issue.ComponentKey,
			"rule", issue.Rule.String(),
		)
		return false
	}

	key := RuleReportKey{Rule: rule, Severity: issue.Severity}
	summary := report.summary
	resourceReport := report.resourceReport(res)

	tallies := []*Tally{
		&summary.total,
		&summary.ruleReport(key).Total,
		summary.ruleTally(rule.Key.String()),
		summary.severityTally(issue.Severity),
		&resourceReport.total,
		&resourceReport.ruleReport(key).Total,
	}

	reported := &ReportedIssue{Issue: issue, Rule: rule, Resolved: resolved}
	if resolved {
		reported.Issue.New = false
		for _, t := range tallies {
			t.IncrementResolved()
		}
		resourceReport.addResolved(reported)
		return true
	}

	for _, t := range tallies {
		t.IncrementCurrent()
		if issue.New {
			t.IncrementNew()
		}
	}
	resourceReport.addOpen(reported)
	return true
}
