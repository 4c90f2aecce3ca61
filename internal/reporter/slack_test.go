package reporter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"

	"github.com/pthm/issuesreport/internal/report"
	"github.com/pthm/issuesreport/internal/reporter"
	"github.com/pthm/issuesreport/internal/rules"
)

type fakePoster struct {
	channels []string
	err      error
}

func (p *fakePoster) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	p.channels = append(p.channels, channelID)
	return channelID, "1700000000.000100", p.err
}

func TestSlackReporterPosts(t *testing.T) {
	poster := &fakePoster{}
	r := reporter.NewSlackReporter(poster, "C123", true)
	gt.Equal(t, r.Name(), "slack")
	gt.True(t, r.Enabled())

	gt.NoError(t, r.Report(context.Background(), buildReport(t, report.Input{})))
	gt.Equal(t, poster.channels, []string{"C123"})
}

func TestSlackReporterErrors(t *testing.T) {
	rep := buildReport(t, report.Input{})

	gt.Error(t, reporter.NewSlackReporter(&fakePoster{}, "", true).Report(context.Background(), rep))
	gt.Error(t, reporter.NewSlackReporter(nil, "C123", true).Report(context.Background(), rep))

	cause := errors.New("channel_not_found")
	err := reporter.NewSlackReporter(&fakePoster{err: cause}, "C123", true).Report(context.Background(), rep)
	gt.True(t, errors.Is(err, cause))
}

func TestSlackBlocks(t *testing.T) {
	rep := buildReport(t, report.Input{
		Open: []report.Issue{
			newIssue("foo:bar", rules.Critical, "main.go", 3, true),
			newIssue("foo:baz", rules.Minor, "util.go", 4, true),
			newIssue("foo:baz", rules.Minor, "util.go", 5, true),
		},
	})

	gt.Equal(t, reporter.SlackText(rep), "Test Project: +3 issues")

	blocks := reporter.SlackBlocks(rep)
	gt.A(t, blocks).Length(5)

	summary, ok := blocks[1].(*slack.SectionBlock)
	gt.True(t, ok)
	gt.S(t, summary.Text.Text).Contains("+1 critical")
	gt.S(t, summary.Text.Text).Contains("+2 minor")

	files, ok := blocks[3].(*slack.SectionBlock)
	gt.True(t, ok)
	gt.Equal(t, files.Text.Text, "`main.go` +1\n`util.go` +2")
}

func TestSlackBlocksNoNewIssue(t *testing.T) {
	rep := buildReport(t, report.Input{
		Open: []report.Issue{newIssue("foo:bar", rules.Major, "main.go", 3, false)},
	})

	gt.Equal(t, reporter.SlackText(rep), "Test Project: no new issue")
	blocks := reporter.SlackBlocks(rep)
	gt.A(t, blocks).Length(3)
	summary := blocks[1].(*slack.SectionBlock)
	gt.Equal(t, summary.Text.Text, "No new issue")
}
