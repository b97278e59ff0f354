package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/assignment"
)

// NewAssignCmd creates the 'assign' command.
func NewAssignCmd(opts *globalOptions) *cobra.Command {
	var defaultVariant string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "assign [test-id]",
		Short: "Assign the visitor to a test variant",
		Long: `Return the variant the current visitor sees for a test, bucketing and
persisting a new assignment the first time. Without a test id every active
test is assigned.

Inactive or unknown tests return the --default variant and are not stored.`,
		Example: `  calc-hub assign result-layout
  calc-hub assign cta-copy --default control --visitor alice
  calc-hub assign --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				var decisions []assignment.Decision
				if len(args) == 0 {
					decisions = a.service.AssignAll(a.visitorID)
				} else {
					decisions = []assignment.Decision{a.service.Decide(args[0], a.visitorID, defaultVariant)}
				}

				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), decisions)
				}
				for _, d := range decisions {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%s%s)\n", d.TestID, d.VariantID, d.Source, persistedNote(d))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&defaultVariant, "default", "d", "control", "Variant returned when the test is not active")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func persistedNote(d assignment.Decision) string {
	if d.Source == assignment.SourceBucketed && !d.Persisted {
		return ", not persisted"
	}
	return ""
}

// NewAssignmentsCmd creates the 'assignments' command group.
func NewAssignmentsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Inspect or clear the visitor's stored assignments",
	}

	cmd.AddCommand(newAssignmentsListCmd(opts))
	cmd.AddCommand(newAssignmentsClearCmd(opts))

	return cmd
}

func newAssignmentsListCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored assignments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				table, err := a.assignments().All(a.visitorID)
				if err != nil {
					return fmt.Errorf("failed to read assignments: %w", err)
				}

				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), table)
				}
				if len(table) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assignments stored.")
					return nil
				}

				testIDs := make([]string, 0, len(table))
				for id := range table {
					testIDs = append(testIDs, id)
				}
				sort.Strings(testIDs)
				for _, id := range testIDs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, table[id])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func newAssignmentsClearCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [test-id]",
		Short: "Clear one or all stored assignments",
		Long: `Remove stored assignments so the visitor is bucketed again on the next
evaluation. Bucketing is deterministic, so an unchanged test yields the same
variant again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				store := a.assignments()
				if len(args) == 1 {
					if err := store.Remove(a.visitorID, args[0]); err != nil {
						return fmt.Errorf("failed to clear assignment: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared assignment for %s\n", args[0])
					return nil
				}

				if err := store.Clear(a.visitorID); err != nil {
					return fmt.Errorf("failed to clear assignments: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all assignments")
				return nil
			})
		},
	}
}
