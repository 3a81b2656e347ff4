package cli

import (
	"fmt"

	"cicd-demo/backend/internal/buildinfo"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		printInfo(cmd, buildinfo.GetBuildInfo())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printInfo(cmd *cobra.Command, info buildinfo.Info) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold("── "+info.Service+" build information ──"))
	fmt.Fprintf(out, "  %s: %s\n", faint("Version"), info.Version)
	fmt.Fprintf(out, "  %s:  %s\n", faint("Commit"), info.CommitHash)
}
