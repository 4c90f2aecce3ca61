package report

import "github.com/pthm/issuesreport/internal/rules"

// Issue is an issue as delivered by the analysis engine
type Issue struct {
	// Key optionally identifies the issue across analyses
	Key          string
	Rule         rules.Key
	Severity     rules.Severity
	ComponentKey string
	// Line is 1-based; 0 means the issue is not attached to a line
	Line    int
	Message string
	// New is only meaningful for open issues
	New bool
}

// HasLine reports whether the issue is attached to a line
func (i Issue) HasLine() bool {
	return i.Line > 0
}

// ReportedIssue is an issue folded into a ResourceReport together with its
// resolved rule
type ReportedIssue struct {
	Issue    Issue
	Rule     *rules.Rule
	Resolved bool
}
