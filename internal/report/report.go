package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

// Report is the result of one aggregation pass. It is not modified after
// Build returns.
type Report struct {
	Title string
	Date  time.Time
	RunID string

	summary         *Summary
	resourceReports map[string]*ResourceReport
}

func newReport(title string, date time.Time, runID string) *Report {
	return &Report{
		Title:           title,
		Date:            date,
		RunID:           runID,
		summary:         newSummary(),
		resourceReports: make(map[string]*ResourceReport),
	}
}

// Summary returns the project-wide tallies
func (r *Report) Summary() *Summary { return r.summary }

// ResourceReports returns the reports of every resource with at least one
// issue, sorted by resource name
func (r *Report) ResourceReports() []*ResourceReport {
	result := make([]*ResourceReport, 0, len(r.resourceReports))
	for _, rr := range r.resourceReports {
		result = append(result, rr)
	}
	slices.SortFunc(result, func(a, b *ResourceReport) int {
		if c := cmp.Compare(a.resource.Name, b.resource.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.resource.Key, b.resource.Key)
	})
	return result
}

// ResourceReport returns the report of the resource with the given component key
func (r *Report) ResourceReport(componentKey string) (*ResourceReport, bool) {
	rr, ok := r.resourceReports[componentKey]
	return rr, ok
}

// HasNewIssues reports whether the analysis introduced any issue
func (r *Report) HasNewIssues() bool {
	return r.summary.total.New() > 0
}

// NewIssuesBySeverity returns the new-issue count of each severity that has
// at least one, most severe first
func (r *Report) NewIssuesBySeverity() []SeverityCount {
	var result []SeverityCount
	for _, sev := range rules.Severities() {
		if n := r.summary.TotalBySeverity(sev).New(); n > 0 {
			result = append(result, SeverityCount{Severity: sev, Count: n})
		}
	}
	return result
}

// SeverityCount pairs a severity with an issue count
type SeverityCount struct {
	Severity rules.Severity
	Count    int
}

func (r *Report) resourceReport(res *resource.Resource) *ResourceReport {
	report, ok := r.resourceReports[res.Key]
	if !ok {
		report = newResourceReport(res)
		r.resourceReports[res.Key] = report
	}
	return report
}
