package parser

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/resource"
	"github.com/pthm/issuesreport/internal/rules"
)

// SARIFParser parses SARIF 2.1.0 logs
type SARIFParser struct{}

// CanParse returns true if this parser can handle the file
func (p *SARIFParser) CanParse(path string) bool {
	return GetFormat(path) == FormatSARIF
}

// Parse converts every result of every run into an issue. Results with
// baselineState "absent" are resolved issues, "new" ones are new.
func (p *SARIFParser) Parse(path string, content []byte, opts Options) (*Analysis, error) {
	log, err := sarif.FromBytes(content)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Title:      opts.Title,
		ProjectKey: opts.ProjectKey,
	}

	for _, run := range log.Runs {
		if run == nil {
			continue
		}
		driver := driverName(run)
		for i, res := range run.Results {
			if res == nil {
				continue
			}
			issue, err := toIssue(res, driver, a.ProjectKey)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid sarif result", goerr.V("index", i), goerr.V("driver", driver))
			}

			switch baselineState(res) {
			case "absent":
				issue.New = false
				a.Resolved = append(a.Resolved, issue)
			case "new":
				issue.New = true
				a.Open = append(a.Open, issue)
			default:
				a.Open = append(a.Open, issue)
			}
		}
	}
	return a, nil
}

func driverName(run *sarif.Run) string {
	if run.Tool.Driver == nil || run.Tool.Driver.Name == "" {
		return "sarif"
	}
	return strings.ToLower(run.Tool.Driver.Name)
}

func toIssue(res *sarif.Result, driver, projectKey string) (report.Issue, error) {
	if res.RuleID == nil || *res.RuleID == "" {
		return report.Issue{}, goerr.New("result has no ruleId")
	}
	ruleID := *res.RuleID
	key, err := rules.ParseKey(ruleID)
	if err != nil {
		key = rules.Key{Repository: driver, Rule: ruleID}
	}

	sev, err := resultSeverity(res)
	if err != nil {
		return report.Issue{}, err
	}

	uri, line := resultLocation(res)
	if uri == "" {
		return report.Issue{}, goerr.New("result has no location", goerr.V("rule", ruleID))
	}

	issue := report.Issue{
		Rule:         key,
		Severity:     sev,
		ComponentKey: resource.ComponentKey(projectKey, strings.TrimPrefix(uri, "file://")),
		Line:         line,
	}
	if res.Message.Text != nil {
		issue.Message = *res.Message.Text
	}
	return issue, nil
}

// resultSeverity prefers an explicit "severity" property over the SARIF level
func resultSeverity(res *sarif.Result) (rules.Severity, error) {
	if v, ok := res.Properties["severity"].(string); ok && v != "" {
		return rules.ParseSeverity(v)
	}

	level := "warning"
	if res.Level != nil {
		level = strings.ToLower(*res.Level)
	}
	switch level {
	case "error":
		return rules.Critical, nil
	case "warning":
		return rules.Major, nil
	case "note":
		return rules.Minor, nil
	case "none":
		return rules.Info, nil
	default:
		return 0, goerr.New("unknown sarif level", goerr.V("level", level))
	}
}

func resultLocation(res *sarif.Result) (string, int) {
	if len(res.Locations) == 0 || res.Locations[0] == nil {
		return "", 0
	}
	loc := res.Locations[0].PhysicalLocation
	if loc == nil || loc.ArtifactLocation == nil || loc.ArtifactLocation.URI == nil {
		return "", 0
	}
	line := 0
	if loc.Region != nil && loc.Region.StartLine != nil {
		line = *loc.Region.StartLine
	}
	return *loc.ArtifactLocation.URI, line
}

func baselineState(res *sarif.Result) string {
	if res.BaselineState == nil {
		return ""
	}
	return strings.ToLower(*res.BaselineState)
}
