package reporter_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

type ruleMap map[rules.Key]*rules.Rule

func (m ruleMap) Get(_ context.Context, key rules.Key) (*rules.Rule, error) {
	if r, ok := m[key]; ok {
		return r, nil
	}
	return nil, errors.New("rule not found")
}

var testRules = ruleMap{
	rules.MustParseKey("foo:bar"): {Key: rules.MustParseKey("foo:bar"), Name: "Bar <must> not be used"},
	rules.MustParseKey("foo:baz"): {Key: rules.MustParseKey("foo:baz"), Name: "Don't baz"},
}

// testSource is the content of every indexed file
const testSource = "line 1\nline 2\nline 3\nline 4\nline 5\nline 6\nline 7\nline 8\nline 9\nline 10\nline 11\nline 12\n"

func newIssue(rule string, sev rules.Severity, file string, line int, isNew bool) report.Issue {
	return report.Issue{
		Rule:         rules.MustParseKey(rule),
		Severity:     sev,
		ComponentKey: resource.ComponentKey("proj", file),
		Line:         line,
		Message:      "Fix " + rule + " in " + file,
		New:          isNew,
	}
}

// buildReport folds in over main.go and util.go, written to a temp dir
func buildReport(t *testing.T, in report.Input) *report.Report {
	t.Helper()
	dir := t.TempDir()
	idx := resource.NewIndex()
	for _, name := range []string{"main.go", "util.go"} {
		p := filepath.Join(dir, name)
		gt.NoError(t, os.WriteFile(p, []byte(testSource), 0o644)).Required()
		idx.Register(&resource.Resource{
			Key:      resource.ComponentKey("proj", name),
			Name:     name,
			Path:     p,
			Encoding: resource.DefaultEncoding,
			Kind:     resource.File,
		})
	}

	if in.Title == "" {
		in.Title = "Test Project"
	}
	b := report.NewBuilder(testRules, idx,
		report.WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }),
		report.WithRunID("run-42"),
	)
	return b.Build(context.Background(), in)
}
