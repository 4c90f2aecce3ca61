package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/ui"
)

const (
	consoleBanner = "-------------  Issues Report  -------------"
	consoleFooter = "-------------------------------------------"
	consolePad    = 10
)

// ConsoleReporter prints the new-issue summary of a report
type ConsoleReporter struct {
	w       io.Writer
	styles  *ui.Styles
	enabled bool
}

// NewConsoleReporter creates a console reporter writing to w. styles may be
// nil for plain output.
func NewConsoleReporter(w io.Writer, styles *ui.Styles, enabled bool) *ConsoleReporter {
	if styles == nil {
		styles = ui.NewStyles(false)
	}
	return &ConsoleReporter{w: w, styles: styles, enabled: enabled}
}

func (r *ConsoleReporter) Name() string  { return "console" }
func (r *ConsoleReporter) Enabled() bool { return r.enabled }

// Report prints the summary
func (r *ConsoleReporter) Report(_ context.Context, rep *report.Report) error {
	if _, err := io.WriteString(r.w, r.render(rep)); err != nil {
		return goerr.Wrap(err, "failed to write console report")
	}
	return nil
}

func (r *ConsoleReporter) render(rep *report.Report) string {
	s := r.styles
	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(s.Header.Render(consoleBanner))
	sb.WriteString("\n\n")

	newIssues := rep.Summary().Total().New()
	if newIssues > 0 {
		plural := ""
		if newIssues > 1 {
			plural = "s"
		}
		sb.WriteString(leftPad(fmt.Sprintf("+%d", newIssues), consolePad))
		sb.WriteString(" issue" + plural)
		sb.WriteString("\n\n")

		for _, sc := range rep.NewIssuesBySeverity() {
			line := leftPad(fmt.Sprintf("+%d", sc.Count), consolePad) + " " + sc.Severity.Label()
			sb.WriteString(s.Severity(sc.Severity).Render(line))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(s.Success.Render("  No new issue"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(s.Separator.Render(consoleFooter))
	sb.WriteString("\n\n")
	return sb.String()
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
