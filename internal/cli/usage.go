package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewUsageCmd creates the 'usage' command group.
func NewUsageCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Record and inspect the visitor's tool usage history",
		Long: `The usage history keeps the visitor's last 50 tool visits, newest first.
It feeds personalized recommendations and search ranking.`,
	}

	cmd.AddCommand(newUsageRecordCmd(opts))
	cmd.AddCommand(newUsageHistoryCmd(opts))
	cmd.AddCommand(newUsageRecentCmd(opts))
	cmd.AddCommand(newUsageFrequentCmd(opts))
	cmd.AddCommand(newUsageClearCmd(opts))

	return cmd
}

func newUsageRecordCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "record <tool-id>...",
		Short:   "Record visits to tools",
		Example: `  calc-hub usage record /tip-calculator /split-bill-calculator`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				for _, toolID := range args {
					if !a.catalog.Has(toolID) {
						a.logger.Warn("recording visit to a tool outside the catalog", zap.String("tool", toolID))
					}
					a.service.RecordUsage(toolID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d visit(s)\n", len(args))
				return nil
			})
		},
	}
}

func newUsageHistoryCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show every retained visit, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				events := a.history.History()
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), events)
				}
				if len(events) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No usage recorded.")
					return nil
				}
				for _, e := range events {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Timestamp.Local().Format(time.RFC3339), e.ToolID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func newUsageRecentCmd(opts *globalOptions) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently used tools, without repeats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				recent := a.history.RecentDistinct(limit)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), recent)
				}
				for _, toolID := range recent {
					fmt.Fprintln(cmd.OutOrStdout(), toolID)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of tools")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func newUsageFrequentCmd(opts *globalOptions) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "frequent",
		Short: "Show the most used tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				counts := a.history.Frequent(limit)
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), counts)
				}
				for _, c := range counts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", c.ToolID, c.Count)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of tools")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func newUsageClearCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the visitor's usage history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				a.history.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), "Usage history cleared")
				return nil
			})
		},
	}
}
