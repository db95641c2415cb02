package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msureshc21/Doculyzer/cmd/doculyzer/app"
	"github.com/msureshc21/Doculyzer/internal/cli/output"
	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/types"
)

func newFactsCommand(a *app.App) *cobra.Command {
	factsCmd := &cobra.Command{
		Use:   "facts",
		Short: "Inspect and manage canonical facts",
	}

	factsCmd.AddCommand(
		newFactsListCommand(a),
		newFactsGetCommand(a),
		newFactsHistoryCommand(a),
		newFactsEditCommand(a),
		newFactsDeprecateCommand(a),
	)
	return factsCmd
}

func newFactsListCommand(a *app.App) *cobra.Command {
	var category string
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored facts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			listed, err := engine.Facts(cmd.Context(), facts.ListOptions{
				Category:        types.Category(category),
				IncludeInactive: includeInactive,
			})
			if err != nil {
				return err
			}

			format := output.ParseFormat(a.Config().Format)
			if format != output.FormatTable {
				return output.Write(cmd.OutOrStdout(), format, listed)
			}

			data := output.Data{
				Headers: []string{"KEY", "VALUE", "CONFIDENCE", "STATUS", "EDITS"},
			}
			for _, f := range listed {
				data.Rows = append(data.Rows, []string{
					f.Key.String(),
					f.Value,
					fmt.Sprintf("%.2f", f.Confidence),
					f.Status.String(),
					strconv.Itoa(f.EditCount),
				})
			}
			return output.Write(cmd.OutOrStdout(), format, data)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category: company_info, legal, location, contact")
	cmd.Flags().BoolVar(&includeInactive, "all", false, "include deprecated and merged facts")
	return cmd
}

func newFactsGetCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show the active fact for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			fact, err := engine.Fact(cmd.Context(), types.FactKey(args[0]))
			if err != nil {
				return err
			}

			format := output.ParseFormat(a.Config().Format)
			if format == output.FormatTable {
				format = output.FormatYAML
			}
			return output.Write(cmd.OutOrStdout(), format, fact)
		},
	}
}

func newFactsHistoryCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <key>",
		Short: "Show the change history for a key, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			entries, err := engine.History(cmd.Context(), types.FactKey(args[0]))
			if err != nil {
				return err
			}

			format := output.ParseFormat(a.Config().Format)
			if format != output.FormatTable {
				return output.Write(cmd.OutOrStdout(), format, entries)
			}

			data := output.Data{
				Headers: []string{"CHANGED AT", "TYPE", "VALUE", "BY", "REASON"},
			}
			for _, e := range entries {
				data.Rows = append(data.Rows, []string{
					e.ChangedAt.Format("2006-01-02 15:04:05"),
					e.ChangeType.String(),
					e.NewValue,
					e.ChangedBy,
					e.Reason,
				})
			}
			return output.Write(cmd.OutOrStdout(), format, data)
		},
	}
}

func newFactsEditCommand(a *app.App) *cobra.Command {
	var editedBy, reason string

	cmd := &cobra.Command{
		Use:   "edit <key> <value>",
		Short: "Manually correct a fact, protecting it from automated updates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			fact, err := engine.EditFact(cmd.Context(), types.FactKey(args[0]), args[1], editedBy, reason)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %q (edit #%d)\n", fact.Key, fact.Value, fact.EditCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&editedBy, "by", "", "editor identity (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in the history ledger")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newFactsDeprecateCommand(a *app.App) *cobra.Command {
	var changedBy, reason string

	cmd := &cobra.Command{
		Use:   "deprecate <key>",
		Short: "Retire a fact without deleting it or its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			fact, err := engine.DeprecateFact(cmd.Context(), types.FactKey(args[0]), changedBy, reason)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s deprecated (was %q)\n", fact.Key, fact.Value)
			return nil
		},
	}

	cmd.Flags().StringVar(&changedBy, "by", "", "actor identity recorded in the ledger")
	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in the history ledger")
	return cmd
}
