package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/pthm/issuesreport/internal/report"
)

// SlackPoster posts messages to a channel; *slack.Client implements it
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackReporter posts the new-issue summary to a Slack channel
type SlackReporter struct {
	client  SlackPoster
	channel string
	enabled bool
}

// NewSlackReporter creates a Slack reporter. Use slack.New(token) for client.
func NewSlackReporter(client SlackPoster, channel string, enabled bool) *SlackReporter {
	return &SlackReporter{client: client, channel: channel, enabled: enabled}
}

func (r *SlackReporter) Name() string  { return "slack" }
func (r *SlackReporter) Enabled() bool { return r.enabled }

// Report posts the summary
func (r *SlackReporter) Report(ctx context.Context, rep *report.Report) error {
	if r.client == nil {
		return goerr.New("slack client is not configured")
	}
	if r.channel == "" {
		return goerr.New("slack channel is required")
	}

	_, ts, err := r.client.PostMessageContext(ctx, r.channel,
		slack.MsgOptionText(SlackText(rep), false),
		slack.MsgOptionBlocks(SlackBlocks(rep)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post issues report to Slack", goerr.V("channel", r.channel))
	}

	ctxlog.From(ctx).Debug("issues report posted to Slack", "channel", r.channel, "ts", ts)
	return nil
}

// SlackText is the notification fallback text
func SlackText(rep *report.Report) string {
	n := rep.Summary().Total().New()
	switch n {
	case 0:
		return fmt.Sprintf("%s: no new issue", rep.Title)
	case 1:
		return fmt.Sprintf("%s: +1 issue", rep.Title)
	default:
		return fmt.Sprintf("%s: +%d issues", rep.Title, n)
	}
}

// SlackBlocks builds the Block Kit message of a report
func SlackBlocks(rep *report.Report) []slack.Block {
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Issues Report: %s*", rep.Title), false, false),
		nil, nil,
	)

	var body string
	if rep.HasNewIssues() {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("*+%d* new, *-%d* resolved\n", rep.Summary().Total().New(), rep.Summary().Total().Resolved()))
		for _, sc := range rep.NewIssuesBySeverity() {
			sb.WriteString(fmt.Sprintf("• +%d %s\n", sc.Count, sc.Severity.Label()))
		}
		body = sb.String()
	} else {
		body = "No new issue"
	}
	summary := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, body, false, false), nil, nil)

	blocks := []slack.Block{header, summary}

	var files []string
	for _, rr := range rep.ResourceReports() {
		if n := rr.Total().New(); n > 0 {
			files = append(files, fmt.Sprintf("`%s` +%d", rr.Name(), n))
		}
	}
	if len(files) > 0 {
		blocks = append(blocks, slack.NewDividerBlock(), slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(files, "\n"), false, false),
			nil, nil,
		))
	}

	meta := rep.Date.Format(dateLayout)
	if rep.RunID != "" {
		meta += " · run " + rep.RunID
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, meta, false, false),
	))
	return blocks
}
