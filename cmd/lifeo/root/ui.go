package root

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeo/internal/update"
)

func newUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
}

func runUI(cmd *cobra.Command, opts *globalOptions) error {
	ctx := cmd.Context()
	// The terminal belongs to the program; logs only go to a configured file.
	a, cleanup, err := openApp(ctx, opts, io.Discard)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.store.Watch(ctx); err != nil {
		a.logger.Warn("live reload disabled", "err", err)
	}
	changes, cancel := a.store.Subscribe()
	defer cancel()

	m := update.NewModel(ctx, a.session, update.Options{
		Changes:   changes,
		FocusTick: a.cfg.Focus.Tick,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
