package reporter_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/reporter"
	"github.com/pthm/issuesreport/internal/rules"
)

func newHTMLReporter(t *testing.T, opts reporter.HTMLOptions) *reporter.HTMLReporter {
	t.Helper()
	names := rules.NewNameProvider(testRules)
	r, err := reporter.NewHTMLReporter(opts, names, reporter.NewSourceProvider())
	gt.NoError(t, err).Required()
	return r
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	return string(data)
}

func TestHTMLReporterEmptyReport(t *testing.T) {
	workDir := t.TempDir()
	r := newHTMLReporter(t, reporter.HTMLOptions{Enable: true, WorkDir: workDir})
	gt.Equal(t, r.Name(), "html")
	gt.True(t, r.Enabled())

	gt.NoError(t, r.Report(context.Background(), buildReport(t, report.Input{}))).Required()

	dir := filepath.Join(workDir, reporter.DefaultHTMLLocation)
	full := readFile(t, filepath.Join(dir, "issues-report.html"))
	gt.S(t, full).Contains("<title>Test Project - Issues Report</title>")
	gt.S(t, full).Contains("Wed May 1 12:30:00 2024")
	gt.S(t, full).Contains("run-42")
	gt.S(t, full).Contains("No issues.")

	light := readFile(t, filepath.Join(dir, "issues-report-light.html"))
	gt.S(t, light).Contains("No new issues.")

	for _, asset := range []string{"issuesreport.css", "issuesreport.js", "favicon.svg", "logo.svg"} {
		_, err := os.Stat(filepath.Join(dir, reporter.AssetsDir, asset))
		gt.NoError(t, err)
	}
}

func TestHTMLReporterLightModeOnly(t *testing.T) {
	workDir := t.TempDir()
	r := newHTMLReporter(t, reporter.HTMLOptions{
		Enable:        true,
		WorkDir:       workDir,
		Location:      "out",
		Name:          "result",
		LightModeOnly: true,
	})

	gt.NoError(t, r.Report(context.Background(), buildReport(t, report.Input{}))).Required()

	gt.Equal(t, r.CompleteFile(), "result.html")
	gt.Equal(t, r.LightFile(), "result-light.html")

	_, err := os.Stat(filepath.Join(workDir, "out", r.CompleteFile()))
	gt.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(workDir, "out", r.LightFile()))
	gt.NoError(t, err)
}

func TestHTMLReporterReportDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs")
	testCases := []struct {
		name     string
		workDir  string
		location string
		expected string
	}{
		{name: "relative location", workDir: "/work", location: "reports", expected: filepath.Join("/work", "reports")},
		{name: "html file location", workDir: "/work", location: "reports/index.html", expected: filepath.Join("/work", "reports")},
		{name: "absolute location", workDir: "/work", location: abs, expected: abs},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newHTMLReporter(t, reporter.HTMLOptions{WorkDir: tc.workDir, Location: tc.location})
			gt.Equal(t, r.ReportDir(context.Background()), tc.expected)
		})
	}
}

func TestHTMLReporterRendersIssues(t *testing.T) {
	rep := buildReport(t, report.Input{
		Open: []report.Issue{
			newIssue("foo:bar", rules.Major, "main.go", 3, true),
			newIssue("foo:baz", rules.Minor, "util.go", 10, false),
			newIssue("foo:baz", rules.Info, "util.go", 0, false),
		},
		Resolved: []report.Issue{newIssue("foo:bar", rules.Major, "main.go", 11, false)},
	})
	r := newHTMLReporter(t, reporter.HTMLOptions{WorkDir: t.TempDir()})

	t.Run("complete", func(t *testing.T) {
		out, err := r.Render(context.Background(), rep, true)
		gt.NoError(t, err).Required()

		gt.S(t, out).Contains("Bar &lt;must&gt; not be used")
		gt.S(t, out).Contains(`'foo:bar': 'Bar <must> not be used'`)
		gt.S(t, out).Contains(`'foo:baz': 'Don\'t baz'`)
		gt.S(t, out).Contains("main.go")
		gt.S(t, out).Contains("util.go")
		gt.S(t, out).Contains("RESOLVED")
		// lines 1 to 5 around line 3, lines 8 to 12 around lines 10 and 11
		gt.S(t, out).Contains("<pre>line 5</pre>")
		gt.S(t, out).Contains("<pre>line 8</pre>")
		gt.False(t, strings.Contains(out, "<pre>line 6</pre>"))
		gt.False(t, strings.Contains(out, "<pre>line 7</pre>"))
	})

	t.Run("light", func(t *testing.T) {
		out, err := r.Render(context.Background(), rep, false)
		gt.NoError(t, err).Required()

		gt.S(t, out).Contains("main.go")
		gt.False(t, strings.Contains(out, "util.go"))
		gt.False(t, strings.Contains(out, "RESOLVED"))
		gt.S(t, out).Contains("<pre>line 5</pre>")
		gt.False(t, strings.Contains(out, "<pre>line 6</pre>"))
		gt.False(t, strings.Contains(out, "<pre>line 11</pre>"))
	})
}

func TestHTMLReporterEscapesMessages(t *testing.T) {
	in := report.Input{Open: []report.Issue{newIssue("foo:bar", rules.Major, "main.go", 2, true)}}
	in.Open[0].Message = "<script>alert(1)</script>"
	rep := buildReport(t, in)

	r := newHTMLReporter(t, reporter.HTMLOptions{WorkDir: t.TempDir()})
	out, err := r.Render(context.Background(), rep, true)
	gt.NoError(t, err).Required()

	gt.False(t, strings.Contains(out, "<script>alert(1)</script>"))
	gt.S(t, out).Contains("&lt;script&gt;")
}

func TestHTMLReporterMissingSource(t *testing.T) {
	in := report.Input{Open: []report.Issue{newIssue("foo:bar", rules.Major, "main.go", 2, true)}}
	in.Open[0].Message = "Issue on unreadable file"
	rep := buildReport(t, in)
	gt.NoError(t, os.Remove(rep.ResourceReports()[0].Resource().Path)).Required()

	r := newHTMLReporter(t, reporter.HTMLOptions{WorkDir: t.TempDir()})
	for _, complete := range []bool{true, false} {
		out, err := r.Render(context.Background(), rep, complete)
		gt.NoError(t, err).Required()
		gt.S(t, out).Contains("Source code not available")
		gt.S(t, out).Contains("Issue on unreadable file")
		gt.S(t, out).Contains("L2")
	}
}

func TestHTMLReporterResolvedIssueWithoutLine(t *testing.T) {
	in := report.Input{
		Open:     []report.Issue{newIssue("foo:bar", rules.Major, "main.go", 3, true)},
		Resolved: []report.Issue{newIssue("foo:baz", rules.Minor, "main.go", 0, false)},
	}
	in.Resolved[0].Message = "Fixed file-level issue"
	rep := buildReport(t, in)
	gt.Equal(t, rep.ResourceReports()[0].Total().Resolved(), 1)

	r := newHTMLReporter(t, reporter.HTMLOptions{WorkDir: t.TempDir()})

	complete, err := r.Render(context.Background(), rep, true)
	gt.NoError(t, err).Required()
	gt.S(t, complete).Contains("Fixed file-level issue")

	light, err := r.Render(context.Background(), rep, false)
	gt.NoError(t, err).Required()
	gt.False(t, strings.Contains(light, "Fixed file-level issue"))
}

func TestHTMLReporterIssueBeyondEndOfFile(t *testing.T) {
	in := report.Input{Open: []report.Issue{
		newIssue("foo:bar", rules.Major, "main.go", 3, false),
		newIssue("foo:bar", rules.Major, "main.go", 40, true),
	}}
	in.Open[1].Message = "Issue after the last line"
	rep := buildReport(t, in)

	r := newHTMLReporter(t, reporter.HTMLOptions{WorkDir: t.TempDir()})
	for _, complete := range []bool{true, false} {
		out, err := r.Render(context.Background(), rep, complete)
		gt.NoError(t, err).Required()
		gt.S(t, out).Contains("Issue after the last line")
		gt.S(t, out).Contains("L40")
	}
}
