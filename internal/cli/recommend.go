package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/recommend"
)

// NewRecommendCmd creates the 'recommend' command.
func NewRecommendCmd(opts *globalOptions) *cobra.Command {
	var contextValues map[string]string
	var limit int
	var personalized bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recommend <tool-id>",
		Short: "List related tools for a calculator",
		Long: `List the tools to show next to a calculator. Results start with the
curated related tools, followed by tools suggested by the calculation result
passed with --context.

With personalization on, tools from the visitor's usage history fill the
remaining slots, ranked by how often and how recently they were used.`,
		Example: `  calc-hub recommend /tip-calculator
  calc-hub recommend /loan-calculator --context amount=250000
  calc-hub recommend /bmi-calculator --context bmi=31.5 --limit 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				ctx := make(recommend.Context, len(contextValues))
				for k, v := range contextValues {
					ctx[k] = v
				}

				n := limit
				if !cmd.Flags().Changed("limit") {
					n = a.cfg.Recommendations.Limit
				}

				usePersonal := a.cfg.Recommendations.Personalized
				if cmd.Flags().Changed("personalized") {
					usePersonal = personalized
				}

				var recs []recommend.Recommendation
				if usePersonal {
					recs = a.service.RecommendPersonalized(args[0], ctx, n)
				} else {
					recs = a.service.Recommend(args[0], ctx, n)
				}

				if jsonOutput {
					if recs == nil {
						recs = []recommend.Recommendation{}
					}
					return printJSON(cmd.OutOrStdout(), recs)
				}
				if len(recs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No related tools.")
					return nil
				}
				for _, r := range recs {
					name := r.ToolID
					if t, ok := a.catalog.Get(r.ToolID); ok {
						name = t.Name
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-7s %s (%s)\n", r.ToolID, r.Priority, r.Reason, name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringToStringVarP(&contextValues, "context", "c", nil, "Calculation result fields (key=value)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of tools, 0 for all (default from config)")
	cmd.Flags().BoolVarP(&personalized, "personalized", "p", true, "Blend in the visitor's usage history (default from config)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
