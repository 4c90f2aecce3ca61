package report

import (
	"slices"

	"github.com/pthm/issuesreport/internal/resource"
)

// contextLines is the number of lines shown around an issue line
const contextLines = 2

// ResourceReport holds the issues of one resource and the lines to display
// when rendering its source.
type ResourceReport struct {
	resource *resource.Resource
	total    Tally

	ruleReports map[ruleKeyID]*RuleReport

	issues         []*ReportedIssue
	resolvedIssues []*ReportedIssue

	// number of issues recorded per line
	lines    map[int]int
	newLines map[int]int
}

func newResourceReport(r *resource.Resource) *ResourceReport {
	return &ResourceReport{
		resource:    r,
		ruleReports: make(map[ruleKeyID]*RuleReport),
		lines:       make(map[int]int),
		newLines:    make(map[int]int),
	}
}

// Resource returns the reported resource
func (rr *ResourceReport) Resource() *resource.Resource { return rr.resource }

// Name returns the display name of the resource
func (rr *ResourceReport) Name() string { return rr.resource.Name }

// Total returns the tally of the resource
func (rr *ResourceReport) Total() Tally { return rr.total }

func (rr *ResourceReport) ruleReport(key RuleReportKey) *RuleReport {
	id := key.id()
	report, ok := rr.ruleReports[id]
	if !ok {
		report = &RuleReport{Key: key}
		rr.ruleReports[id] = report
	}
	return report
}

// RuleReports returns the per-rule tallies of the resource sorted with Compare
func (rr *ResourceReport) RuleReports() []*RuleReport {
	return sortedRuleReports(rr.ruleReports)
}

func (rr *ResourceReport) addOpen(issue *ReportedIssue) {
	rr.issues = append(rr.issues, issue)
	if issue.Issue.HasLine() {
		rr.lines[issue.Issue.Line]++
		if issue.Issue.New {
			rr.newLines[issue.Issue.Line]++
		}
	}
}

func (rr *ResourceReport) addResolved(issue *ReportedIssue) {
	rr.resolvedIssues = append(rr.resolvedIssues, issue)
	if issue.Issue.HasLine() {
		rr.lines[issue.Issue.Line]++
	}
}

// Issues returns the open issues in processing order
func (rr *ResourceReport) Issues() []*ReportedIssue {
	return rr.issues
}

// ResolvedIssues returns the resolved issues in processing order
func (rr *ResourceReport) ResolvedIssues() []*ReportedIssue {
	return rr.resolvedIssues
}

// IssuesAtLine returns the open and resolved issues recorded at line
func (rr *ResourceReport) IssuesAtLine(line int) []*ReportedIssue {
	if line < 1 || rr.lines[line] == 0 {
		return nil
	}
	var result []*ReportedIssue
	for _, issue := range rr.issues {
		if issue.Issue.Line == line {
			result = append(result, issue)
		}
	}
	for _, issue := range rr.resolvedIssues {
		if issue.Issue.Line == line {
			result = append(result, issue)
		}
	}
	return result
}

// IssuesWithoutLine returns the open then resolved issues not attached to a
// line
func (rr *ResourceReport) IssuesWithoutLine() []*ReportedIssue {
	var result []*ReportedIssue
	for _, issue := range rr.issues {
		if !issue.Issue.HasLine() {
			result = append(result, issue)
		}
	}
	for _, issue := range rr.resolvedIssues {
		if !issue.Issue.HasLine() {
			result = append(result, issue)
		}
	}
	return result
}

// IsDisplayableLine reports whether line lies within two lines of a recorded
// issue line. With all set, every recorded line counts; otherwise only lines
// of new issues do. Lines below 1 are never displayable.
func (rr *ResourceReport) IsDisplayableLine(line int, all bool) bool {
	if line < 1 {
		return false
	}
	index := rr.newLines
	if all {
		index = rr.lines
	}
	for l := line - contextLines; l <= line+contextLines; l++ {
		if index[l] > 0 {
			return true
		}
	}
	return false
}

// IssueLines returns the recorded issue lines in ascending order
func (rr *ResourceReport) IssueLines() []int {
	lines := make([]int, 0, len(rr.lines))
	for l := range rr.lines {
		lines = append(lines, l)
	}
	slices.Sort(lines)
	return lines
}
