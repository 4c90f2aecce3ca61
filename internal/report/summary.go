package report

import (
	"slices"

	"github.com/pthm/issuesreport/internal/rules"
)

// Summary aggregates tallies over every reported resource
type Summary struct {
	total Tally

	ruleReports     map[ruleKeyID]*RuleReport
	totalByRule     map[string]*Tally
	totalBySeverity map[rules.Severity]*Tally
}

func newSummary() *Summary {
	return &Summary{
		ruleReports:     make(map[ruleKeyID]*RuleReport),
		totalByRule:     make(map[string]*Tally),
		totalBySeverity: make(map[rules.Severity]*Tally),
	}
}

// Total returns the global tally
func (s *Summary) Total() Tally { return s.total }

// RuleReports returns one report per (rule, severity) sorted with Compare
func (s *Summary) RuleReports() []*RuleReport {
	return sortedRuleReports(s.ruleReports)
}

// TotalByRuleKey returns the tally of a rule over all severities. ruleKey is
// the "repository:rule" form.
func (s *Summary) TotalByRuleKey(ruleKey string) Tally {
	if t, ok := s.totalByRule[ruleKey]; ok {
		return *t
	}
	return Tally{}
}

// TotalBySeverity returns the tally of one severity
func (s *Summary) TotalBySeverity(severity rules.Severity) Tally {
	if t, ok := s.totalBySeverity[severity]; ok {
		return *t
	}
	return Tally{}
}

// RuleKeys returns the keys of every tallied rule in ascending order
func (s *Summary) RuleKeys() []string {
	keys := make([]string, 0, len(s.totalByRule))
	for k := range s.totalByRule {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Summary) ruleReport(key RuleReportKey) *RuleReport {
	id := key.id()
	report, ok := s.ruleReports[id]
	if !ok {
		report = &RuleReport{Key: key}
		s.ruleReports[id] = report
	}
	return report
}

func (s *Summary) ruleTally(ruleKey string) *Tally {
	t, ok := s.totalByRule[ruleKey]
	if !ok {
		t = &Tally{}
		s.totalByRule[ruleKey] = t
	}
	return t
}

func (s *Summary) severityTally(severity rules.Severity) *Tally {
	t, ok := s.totalBySeverity[severity]
	if !ok {
		t = &Tally{}
		s.totalBySeverity[severity] = t
	}
	return t
}

func sortedRuleReports(m map[ruleKeyID]*RuleReport) []*RuleReport {
	result := make([]*RuleReport, 0, len(m))
	for _, r := range m {
		result = append(result, r)
	}
	slices.SortFunc(result, func(a, b *RuleReport) int {
		return Compare(a.Key, b.Key)
	})
	return result
}
