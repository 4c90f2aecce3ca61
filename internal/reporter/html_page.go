package reporter

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/m-mizutani/ctxlog"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/rules"
	"github.com/pthm/issuesreport/internal/version"
)

const dateLayout = "Mon Jan 2 15:04:05 2006"

// htmlPage is the data rendered by the report template
type htmlPage struct {
	Title       string
	Date        string
	RunID       string
	Version     string
	Complete    bool
	Kind        string
	AssetsDir   string
	RuleNamesJS string

	Total      tallyView
	Severities []severityView
	Rules      []ruleView
	Files      []fileView
}

type tallyView struct {
	Current  int
	New      int
	Resolved int
}

type severityView struct {
	Name  string
	Class string
	Tally tallyView
}

type ruleView struct {
	Key      string
	NameHTML string
	Severity string
	Class    string
	Tally    tallyView
}

type fileView struct {
	ID          string
	Key         string
	Name        string
	Tally       tallyView
	Issues      []issueView
	Blocks      []blockView
	SourceError string
}

type blockView struct {
	Lines []lineView
}

type lineView struct {
	Number int
	Source string
	Issues []issueView
}

type issueView struct {
	RuleKey      string
	RuleNameHTML string
	Severity     string
	Class        string
	Message      string
	Line         int
	New          bool
	Resolved     bool
}

type pageBuilder struct {
	names   NameLookup
	sources *SourceProvider
}

func newPageBuilder(names NameLookup, sources *SourceProvider) *pageBuilder {
	return &pageBuilder{names: names, sources: sources}
}

func toTallyView(t report.Tally) tallyView {
	return tallyView{Current: t.Current(), New: t.New(), Resolved: t.Resolved()}
}

func severityClass(s rules.Severity) string {
	return strings.ToLower(s.String())
}

func (b *pageBuilder) nameHTML(ctx context.Context, rule *rules.Rule) string {
	if b.names == nil {
		return html.EscapeString(rule.DisplayName())
	}
	return b.names.NameForHTML(ctx, rule.Key)
}

// build assembles the page. The light page only keeps what relates to new
// issues.
func (b *pageBuilder) build(ctx context.Context, rep *report.Report, complete bool) *htmlPage {
	summary := rep.Summary()
	page := &htmlPage{
		Title:     rep.Title,
		Date:      rep.Date.Format(dateLayout),
		RunID:     rep.RunID,
		Version:   version.Short(),
		Complete:  complete,
		Kind:      "light",
		AssetsDir: AssetsDir,
		Total:     toTallyView(summary.Total()),
	}
	if complete {
		page.Kind = "complete"
	}

	for _, sev := range rules.Severities() {
		t := summary.TotalBySeverity(sev)
		page.Severities = append(page.Severities, severityView{
			Name:  sev.String(),
			Class: severityClass(sev),
			Tally: toTallyView(t),
		})
	}

	var jsNames []string
	seen := map[string]bool{}
	for _, rr := range summary.RuleReports() {
		if !complete && rr.Total.New() == 0 {
			continue
		}
		key := rr.Rule().Key.String()
		page.Rules = append(page.Rules, ruleView{
			Key:      key,
			NameHTML: b.nameHTML(ctx, rr.Rule()),
			Severity: rr.Severity().String(),
			Class:    severityClass(rr.Severity()),
			Tally:    toTallyView(rr.Total),
		})
		if !seen[key] {
			seen[key] = true
			jsNames = append(jsNames, fmt.Sprintf("'%s': '%s'", rules.EscapeJS(key), b.jsName(ctx, rr.Rule())))
		}
	}
	page.RuleNamesJS = strings.Join(jsNames, ", ")

	for i, rr := range rep.ResourceReports() {
		if !complete && rr.Total().New() == 0 {
			continue
		}
		page.Files = append(page.Files, b.file(ctx, i, rr, complete))
	}
	return page
}

func (b *pageBuilder) jsName(ctx context.Context, rule *rules.Rule) string {
	if b.names == nil {
		return rules.EscapeJS(rule.DisplayName())
	}
	return b.names.NameForJS(ctx, rule.Key.String())
}

func (b *pageBuilder) issue(ctx context.Context, ri *report.ReportedIssue) issueView {
	return issueView{
		RuleKey:      ri.Rule.Key.String(),
		RuleNameHTML: b.nameHTML(ctx, ri.Rule),
		Severity:     ri.Issue.Severity.String(),
		Class:        severityClass(ri.Issue.Severity),
		Message:      ri.Issue.Message,
		Line:         ri.Issue.Line,
		New:          ri.Issue.New,
		Resolved:     ri.Resolved,
	}
}

func keepIssue(ri *report.ReportedIssue, complete bool) bool {
	return complete || (ri.Issue.New && !ri.Resolved)
}

func (b *pageBuilder) file(ctx context.Context, idx int, rr *report.ResourceReport, complete bool) fileView {
	fv := fileView{
		ID:    fmt.Sprintf("file-%d", idx),
		Key:   rr.Resource().Key,
		Name:  rr.Name(),
		Tally: toTallyView(rr.Total()),
	}

	for _, ri := range rr.IssuesWithoutLine() {
		if keepIssue(ri, complete) {
			fv.Issues = append(fv.Issues, b.issue(ctx, ri))
		}
	}

	issueLines := rr.IssueLines()
	if len(issueLines) == 0 {
		return fv
	}

	lines, err := b.sources.Lines(rr.Resource())
	if err != nil {
		ctxlog.From(ctx).Warn("source not available for html report", "resource", rr.Resource().Key, "error", err)
		fv.SourceError = "Source code not available"
		b.listLineIssues(ctx, &fv, rr, issueLines, complete)
		return fv
	}

	var current *blockView
	for n := 1; n <= len(lines); n++ {
		if !rr.IsDisplayableLine(n, complete) {
			current = nil
			continue
		}
		if current == nil {
			fv.Blocks = append(fv.Blocks, blockView{})
			current = &fv.Blocks[len(fv.Blocks)-1]
		}

		lv := lineView{Number: n, Source: lines[n-1]}
		for _, ri := range rr.IssuesAtLine(n) {
			if keepIssue(ri, complete) {
				lv.Issues = append(lv.Issues, b.issue(ctx, ri))
			}
		}
		current.Lines = append(current.Lines, lv)
	}

	// lines beyond the end of the file cannot be shown in the source table
	var beyond []int
	for _, l := range issueLines {
		if l > len(lines) {
			beyond = append(beyond, l)
		}
	}
	b.listLineIssues(ctx, &fv, rr, beyond, complete)
	return fv
}

// listLineIssues appends the issues of the given lines to the file's flat list
func (b *pageBuilder) listLineIssues(ctx context.Context, fv *fileView, rr *report.ResourceReport, lines []int, complete bool) {
	for _, l := range lines {
		for _, ri := range rr.IssuesAtLine(l) {
			if keepIssue(ri, complete) {
				fv.Issues = append(fv.Issues, b.issue(ctx, ri))
			}
		}
	}
}
