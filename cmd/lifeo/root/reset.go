package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Roll stored state over to today if the date changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			ctrl := a.controller()
			trigger, err := ctrl.Boot(ctx)
			if err := persisted(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", good.Render("state is current for"), ctrl.Today(), trigger)
			return nil
		},
	}
}
