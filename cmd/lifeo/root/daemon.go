package root

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newDaemonCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Roll the day over at midnight and keep the badge current",
		Long: "daemon resets the stored day at start, at every local midnight and on SIGUSR1, " +
			"and mirrors today's completed count to the configured badges.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			ctrl := a.controller()
			stopReset := notifyResetSignal(ctx, ctrl.Signal)
			defer stopReset()

			a.logger.Info("daemon started", "pid", os.Getpid(), "data_dir", a.cfg.DataDir)
			err = ctrl.Run(ctx)
			a.logger.Info("daemon stopped")
			return err
		},
	}
}
