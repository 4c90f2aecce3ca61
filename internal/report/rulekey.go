package report

import (
	"strings"

	"github.com/pthm/issuesreport/internal/rules"
)

// RuleReportKey groups issues by rule and severity. Issues of one rule whose
// severity was overridden are tallied under a separate key.
type RuleReportKey struct {
	Rule     *rules.Rule
	Severity rules.Severity
}

// ruleKeyID is the comparable form of RuleReportKey used for map lookups
type ruleKeyID struct {
	rule     rules.Key
	severity rules.Severity
}

func (k RuleReportKey) id() ruleKeyID {
	return ruleKeyID{rule: k.Rule.Key, severity: k.Severity}
}

func (k RuleReportKey) String() string {
	return k.Rule.Key.String() + "/" + k.Severity.String()
}

// Compare orders keys by severity, most severe first, then by rule key
func Compare(a, b RuleReportKey) int {
	if a.Severity != b.Severity {
		if a.Severity.MoreSevereThan(b.Severity) {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Rule.Key.String(), b.Rule.Key.String())
}

// RuleReport is the tally of one RuleReportKey
type RuleReport struct {
	Key   RuleReportKey
	Total Tally
}

// Rule returns the rule of the report
func (r *RuleReport) Rule() *rules.Rule { return r.Key.Rule }

// Severity returns the severity of the report
func (r *RuleReport) Severity() rules.Severity { return r.Key.Severity }
