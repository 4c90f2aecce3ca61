package reporter_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/reporter"
	"github.com/pthm/issuesreport/internal/rules"
)

func TestConsoleReporterNoIssues(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewConsoleReporter(&buf, nil, true)
	gt.Equal(t, r.Name(), "console")
	gt.True(t, r.Enabled())

	gt.NoError(t, r.Report(context.Background(), buildReport(t, report.Input{})))

	gt.Equal(t, buf.String(),
		"\n\n-------------  Issues Report  -------------\n\n"+
			"  No new issue\n"+
			"\n-------------------------------------------\n\n")
}

func TestConsoleReporterSingleNewIssue(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewConsoleReporter(&buf, nil, true)

	rep := buildReport(t, report.Input{
		Open: []report.Issue{newIssue("foo:bar", rules.Blocker, "main.go", 3, true)},
	})
	gt.NoError(t, r.Report(context.Background(), rep))

	gt.Equal(t, buf.String(),
		"\n\n-------------  Issues Report  -------------\n\n"+
			"        +1 issue\n\n"+
			"        +1 blocking\n"+
			"\n-------------------------------------------\n\n")
}

func TestConsoleReporterSeverityBreakdown(t *testing.T) {
	var buf bytes.Buffer
	r := reporter.NewConsoleReporter(&buf, nil, true)

	rep := buildReport(t, report.Input{
		Open: []report.Issue{
			newIssue("foo:bar", rules.Minor, "main.go", 1, true),
			newIssue("foo:bar", rules.Critical, "main.go", 2, true),
			newIssue("foo:baz", rules.Minor, "util.go", 3, true),
			newIssue("foo:baz", rules.Major, "util.go", 4, false),
		},
		Resolved: []report.Issue{newIssue("foo:bar", rules.Info, "main.go", 9, false)},
	})
	gt.NoError(t, r.Report(context.Background(), rep))

	out := buf.String()
	gt.S(t, out).Contains("        +3 issues\n\n")
	gt.S(t, out).Contains("        +1 critical\n        +2 minor\n")
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("major")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("info")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("No new issue")))
}
