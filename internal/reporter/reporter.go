package reporter

import (
	"context"

	"github.com/pthm/issuesreport/internal/report"
)

// Reporter renders a finished report to one output. Reporters only read the
// report.
type Reporter interface {
	// Name identifies the reporter in logs and errors
	Name() string
	// Enabled reports whether the reporter is switched on by configuration
	Enabled() bool
	// Report renders r
	Report(ctx context.Context, r *report.Report) error
}

// Enabled returns the reporters that are switched on
func Enabled(reporters []Reporter) []Reporter {
	var result []Reporter
	for _, r := range reporters {
		if r != nil && r.Enabled() {
			result = append(result, r)
		}
	}
	return result
}
