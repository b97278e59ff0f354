package cli

import (
	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/version"
)

// NewRootCmd creates the calc-hub command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "calc-hub",
		Short: "Experiment assignment and tool recommendations for the calculator catalog",
		Long: `calc-hub assigns visitors to experiment variants and recommends related
calculators, from a per-visitor store that persists across runs.

Assignments are deterministic for a visitor and stable once made. Related
tools combine the curated affinity graph, rules reacting to calculation
results and the visitor's usage history.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $CALC_HUB_CONFIG or ~/.calc-hub.json)")
	flags.StringVar(&opts.visitorID, "visitor", "", "Act as this visitor id instead of the stored one")
	flags.StringVar(&opts.backend, "backend", "", "Storage backend: sqlite, bolt or memory")
	flags.StringVar(&opts.dbPath, "db", "", "Storage file path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	flags.BoolVar(&opts.noTrack, "no-track", false, "Do not record analytics events for this run")

	rootCmd.AddCommand(NewAssignCmd(opts))
	rootCmd.AddCommand(NewAssignmentsCmd(opts))
	rootCmd.AddCommand(NewUsageCmd(opts))
	rootCmd.AddCommand(NewRecommendCmd(opts))
	rootCmd.AddCommand(NewTestsCmd(opts))
	rootCmd.AddCommand(NewSearchCmd(opts))
	rootCmd.AddCommand(NewEventsCmd(opts))
	rootCmd.AddCommand(NewVisitorCmd(opts))
	rootCmd.AddCommand(NewConfigCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
