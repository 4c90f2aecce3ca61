package reporter

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/rules"
)

// JSONOptions configures the JSON reporter
type JSONOptions struct {
	Enable  bool
	WorkDir string
	// Path of the output file, relative to WorkDir unless absolute. "-"
	// writes to Writer.
	Path   string
	Writer io.Writer
}

// JSONReporter outputs the report as JSON
type JSONReporter struct {
	opts JSONOptions
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(opts JSONOptions) *JSONReporter {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	return &JSONReporter{opts: opts}
}

func (r *JSONReporter) Name() string  { return "json" }
func (r *JSONReporter) Enabled() bool { return r.opts.Enable }

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Title      string         `json:"title"`
	Date       string         `json:"date"`
	RunID      string         `json:"runId,omitempty"`
	Total      report.Tally   `json:"total"`
	Severities []JSONSeverity `json:"severities"`
	Rules      []JSONRule     `json:"rules"`
	Files      []JSONFile     `json:"files"`
}

// JSONSeverity is the tally of one severity
type JSONSeverity struct {
	Severity string       `json:"severity"`
	Total    report.Tally `json:"total"`
}

// JSONRule is the tally of one (rule, severity) pair
type JSONRule struct {
	Rule     string       `json:"rule"`
	Name     string       `json:"name"`
	Severity string       `json:"severity"`
	Total    report.Tally `json:"total"`
}

// JSONFile represents one resource and its issues
type JSONFile struct {
	Key    string       `json:"key"`
	Name   string       `json:"name"`
	Total  report.Tally `json:"total"`
	Issues []JSONIssue  `json:"issues"`
}

// JSONIssue represents an issue in JSON format
type JSONIssue struct {
	Key      string `json:"key,omitempty"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	New      bool   `json:"new"`
	Resolved bool   `json:"resolved"`
}

// Output converts rep to its JSON representation
func Output(rep *report.Report) JSONOutput {
	summary := rep.Summary()
	out := JSONOutput{
		Title:      rep.Title,
		Date:       rep.Date.UTC().Format("2006-01-02T15:04:05Z"),
		RunID:      rep.RunID,
		Total:      summary.Total(),
		Severities: make([]JSONSeverity, 0, len(rules.Severities())),
		Rules:      []JSONRule{},
		Files:      []JSONFile{},
	}

	for _, sev := range rules.Severities() {
		out.Severities = append(out.Severities, JSONSeverity{Severity: sev.String(), Total: summary.TotalBySeverity(sev)})
	}

	for _, rr := range summary.RuleReports() {
		out.Rules = append(out.Rules, JSONRule{
			Rule:     rr.Rule().Key.String(),
			Name:     rr.Rule().DisplayName(),
			Severity: rr.Severity().String(),
			Total:    rr.Total,
		})
	}

	for _, rr := range rep.ResourceReports() {
		file := JSONFile{
			Key:    rr.Resource().Key,
			Name:   rr.Name(),
			Total:  rr.Total(),
			Issues: []JSONIssue{},
		}
		for _, list := range [][]*report.ReportedIssue{rr.Issues(), rr.ResolvedIssues()} {
			for _, ri := range list {
				file.Issues = append(file.Issues, JSONIssue{
					Key:      ri.Issue.Key,
					Rule:     ri.Rule.Key.String(),
					Severity: ri.Issue.Severity.String(),
					Message:  ri.Issue.Message,
					Line:     ri.Issue.Line,
					New:      ri.Issue.New,
					Resolved: ri.Resolved,
				})
			}
		}
		out.Files = append(out.Files, file)
	}

	return out
}

// Report writes the report as indented JSON
func (r *JSONReporter) Report(ctx context.Context, rep *report.Report) error {
	if r.opts.Path == "-" || r.opts.Path == "" {
		return encode(r.opts.Writer, rep)
	}

	path := r.opts.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.opts.WorkDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create json report directory", goerr.V("path", path))
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create json report", goerr.V("path", path))
	}
	defer f.Close()

	if err := encode(f, rep); err != nil {
		return goerr.Wrap(err, "failed to write json report", goerr.V("path", path))
	}
	ctxlog.From(ctx).Info("JSON issues report generated", "path", absPath(path))
	return nil
}

func encode(w io.Writer, rep *report.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Output(rep))
}
