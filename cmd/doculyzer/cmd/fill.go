package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msureshc21/Doculyzer/cmd/doculyzer/app"
	"github.com/msureshc21/Doculyzer/internal/cli/output"
)

func newFillCommand(a *app.App) *cobra.Command {
	var docNames map[string]string

	cmd := &cobra.Command{
		Use:   "fill <label>...",
		Short: "Resolve form field labels to facts with explanations",
		Long: `Fill maps each external field label to a known attribute, looks up the
canonical fact, and explains where the value came from and how much to
trust it. Results preserve the input order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			results, err := engine.Fill(cmd.Context(), args, docNames)
			if err != nil {
				return err
			}

			format := output.ParseFormat(a.Config().Format)
			if format != output.FormatTable {
				return output.Write(cmd.OutOrStdout(), format, results)
			}

			data := output.Data{
				Headers: []string{"LABEL", "KEY", "VALUE", "REASON"},
			}
			for _, r := range results {
				data.Rows = append(data.Rows, []string{
					r.Label, r.FactKey.String(), r.Value, r.Reason,
				})
			}
			return output.Write(cmd.OutOrStdout(), format, data)
		},
	}

	cmd.Flags().StringToStringVar(&docNames, "doc-name", nil,
		"source document display names as id=name pairs, used in explanations")
	return cmd
}
