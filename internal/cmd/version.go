package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/issuesreport/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Info()
		if versionShort {
			info = version.Short()
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), info)
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
