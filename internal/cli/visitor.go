package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/visitor"
)

// NewVisitorCmd creates the 'visitor' command.
func NewVisitorCmd(opts *globalOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "visitor",
		Short: "Show the visitor id",
		Long: `Print the anonymous visitor id stored for this client. With --reset a new
id is generated; the old id's assignments and history stay in the store but
are no longer used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				id := a.visitorID
				if reset {
					if err := visitor.Reset(a.store); err != nil {
						return fmt.Errorf("failed to reset visitor id: %w", err)
					}
					id = visitor.Resolve(a.store, "", a.logger)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Generate a new visitor id")
	return cmd
}
