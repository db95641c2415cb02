package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msureshc21/Doculyzer/cmd/doculyzer/app"
)

func newVersionCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "doculyzer %s (commit %s, built %s, %s)\n",
				a.Version(), a.Commit(), a.Date(), runtime.Version())
			return nil
		},
	}
}
