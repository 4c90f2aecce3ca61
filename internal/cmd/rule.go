package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm/issuesreport/internal/rules"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Inspect rules of the analysis server",
}

var ruleShowCmd = &cobra.Command{
	Use:   "show <repository:rule>",
	Short: "Show the metadata of a rule",
	Long: `Fetch a rule from the analysis server and print its name, description
and parameters.

Examples:
  issuesreport rule show go:S1186`,
	Args: cobra.ExactArgs(1),
	RunE: runRuleShow,
}

func init() {
	ruleShowCmd.Flags().StringVar(&reportFlags.serverURL, "server-url", "", "Analysis server URL")
	ruleCmd.AddCommand(ruleShowCmd)
	RootCmd.AddCommand(ruleCmd)
}

func runRuleShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	key, err := rules.ParseKey(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyReportFlags(cmd, cfg)

	u := GetUI()
	spinner := u.StartSimpleSpinner(u.ErrWriter, "Fetching rule "+key.String()+"...")
	rule, err := newRuleService(cfg).ShowRule(ctx, key)
	spinner.Stop()
	if err != nil {
		return err
	}

	s := u.Styles
	var sb strings.Builder
	sb.WriteString(s.Header.Render(rule.DisplayName()))
	sb.WriteString("\n")
	sb.WriteString(s.Path.Render(rule.Key.String()))
	sb.WriteString("\n\n")
	if rule.Description != "" {
		sb.WriteString(rule.Description)
		sb.WriteString("\n")
	}
	if len(rule.Params) > 0 {
		sb.WriteString("\n")
		sb.WriteString(s.Subheader.Render("Parameters"))
		sb.WriteString("\n")
		for _, p := range rule.Params {
			sb.WriteString(fmt.Sprintf("  %s  %s\n", s.Rule.Render(p.Key), p.Description))
		}
	}

	_, err = fmt.Fprint(u.Writer, sb.String())
	return err
}
