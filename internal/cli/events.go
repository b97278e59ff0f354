package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/calc-hub/internal/tracking"
)

// NewEventsCmd creates the 'events' command group.
func NewEventsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Export or clear stored analytics events",
		Long: `With the storage sink, analytics events are kept in the visitor store
(the most recent 500) until they are exported.`,
	}

	cmd.AddCommand(newEventsExportCmd(opts))
	cmd.AddCommand(newEventsClearCmd(opts))

	return cmd
}

func newEventsExportCmd(opts *globalOptions) *cobra.Command {
	var output string
	var clearAfter bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored events as JSON",
		Example: `  calc-hub events export
  calc-hub events export --output events.json --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				sink := tracking.NewStorageSink(a.store, a.logger)
				events, err := sink.Events()
				if err != nil {
					return err
				}
				if events == nil {
					events = []tracking.Event{}
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}
				if err := printJSON(w, events); err != nil {
					return err
				}

				if clearAfter {
					return sink.Clear()
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&clearAfter, "clear", false, "Clear stored events after exporting")

	return cmd
}

func newEventsClearCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete stored events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, func(a *app) error {
				if err := tracking.NewStorageSink(a.store, a.logger).Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Events cleared")
				return nil
			})
		},
	}
}
