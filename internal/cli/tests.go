package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/benchmark"
	"github.com/khanglvm/calc-hub/internal/experiments"
)

// NewTestsCmd creates the 'tests' command group.
func NewTestsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Inspect the configured experiments",
		Long: `Experiments come from the file named by experimentsFile in the config, or
the built-in set when none is configured.`,
	}

	cmd.AddCommand(newTestsListCmd(opts))
	cmd.AddCommand(newTestsValidateCmd(opts))
	cmd.AddCommand(newTestsExportCmd(opts))
	cmd.AddCommand(newTestsSimulateCmd(opts))

	return cmd
}

// configuredTests loads the experiments without opening storage.
func configuredTests(opts *globalOptions) ([]experiments.Test, error) {
	cfg, configPath, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return loadTests(cfg, configPath)
}

type testSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Variants []string `json:"variants"`
}

func newTestsListCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List experiments and their status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tests, err := configuredTests(opts)
			if err != nil {
				return err
			}
			registry := experiments.NewRegistry(tests)

			summaries := make([]testSummary, 0, len(tests))
			for _, t := range registry.All() {
				s := testSummary{ID: t.ID, Name: t.Name, Status: registry.Status(t.ID)}
				for _, v := range t.Variants {
					s.Variants = append(s.Variants, fmt.Sprintf("%s=%g", v.ID, v.Weight))
				}
				summaries = append(summaries, s)
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No experiments configured.")
				return nil
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-14s %v\n", s.ID, s.Status, s.Variants)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func newTestsValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check experiments for configuration problems",
		Long: `Check an experiments file, or the configured experiments, for malformed
tests. Malformed tests are never served to visitors, and a file that cannot
be parsed leaves no test active; this command reports both and exits
non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tests []experiments.Test
			var loadErr error
			if len(args) == 1 {
				tests, loadErr = experiments.LoadFile(args[0])
			} else {
				cfg, configPath, err := loadConfig(opts)
				if err != nil {
					return err
				}
				tests, loadErr = loadTests(cfg, configPath)
			}

			var problems []error
			if loadErr != nil {
				problems = append(problems, loadErr)
			}
			problems = append(problems, experiments.NewRegistry(tests).Problems()...)
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d experiment problem(s) found", len(problems))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d experiment(s) valid\n", len(tests))
			return nil
		},
	}
}

func newTestsExportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the configured experiments as YAML",
		Long: `Print the configured experiments in the experiments file layout. Redirect
the output to a file and point experimentsFile at it to start customizing
the built-in set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tests, err := configuredTests(opts)
			if err != nil {
				return err
			}
			data, err := experiments.Marshal(tests)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newTestsSimulateCmd(opts *globalOptions) *cobra.Command {
	var visitors int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "simulate <test-id>",
		Short: "Simulate visitor traffic to check a test's variant split",
		Long: `Bucket synthetic visitors into a test and compare the observed traffic
share of each variant with its configured weight. Nothing is persisted.`,
		Example: `  calc-hub tests simulate related-tools-placement --visitors 100000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tests, err := configuredTests(opts)
			if err != nil {
				return err
			}

			test, ok := experiments.NewRegistry(tests).FindByID(args[0])
			if !ok {
				return fmt.Errorf("experiment not found: %s", args[0])
			}

			result, err := benchmark.Simulate(test, nil, visitors)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprint(cmd.OutOrStdout(), benchmark.FormatResult(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&visitors, "visitors", benchmark.DefaultVisitors, "Number of simulated visitors")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}
