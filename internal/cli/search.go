package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/search"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd(opts *globalOptions) *cobra.Command {
	var limit int
	var category string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the tool catalog",
		Long: `Search tool names and descriptions. Results are ranked by text relevance,
boosted by how often the visitor has used each tool.

With --category the search is restricted to one category and ranked by text
relevance only.`,
		Example: `  calc-hub search loan
  calc-hub search "body weight" --category health`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				if err := a.withSearch(); err != nil {
					return err
				}

				var results []search.SearchResult
				var err error
				if category != "" {
					results, err = a.index.SearchByCategory(args[0], category, limit)
				} else {
					results, err = a.service.Search(args[0], limit)
				}
				if err != nil {
					return err
				}

				if jsonOutput {
					if results == nil {
						results = []search.SearchResult{}
					}
					return printJSON(cmd.OutOrStdout(), results)
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching tools.")
					return nil
				}
				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%-28s %.3f  %s\n", r.Tool.ID, r.Score, r.Tool.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of results")
	cmd.Flags().StringVar(&category, "category", "", "Restrict to a category (everyday, finance, health)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
