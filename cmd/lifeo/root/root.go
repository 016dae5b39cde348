package root

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	good  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	bad   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	muted = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	h2    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
)

// globalOptions are the persistent flags every subcommand sees.
type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "lifeo",
		Short:         "lifeo - plan three missions a day and keep momentum",
		Long:          "lifeo keeps a small daily plan, rolls it over at midnight and tracks completion momentum.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.lifeo/config.yaml)")

	cmd.AddCommand(
		newUICmd(opts),
		newDaemonCmd(opts),
		newResetCmd(opts),
		newStatusCmd(opts),
		newAddCmd(opts),
		newTargetCmd(opts, "done", "Mark a mission done"),
		newTargetCmd(opts, "skip", "Skip a mission for now"),
		newTargetCmd(opts, "reopen", "Reopen a completed mission"),
		newTargetCmd(opts, "carry", "Carry one of yesterday's open missions into today"),
		newPlanCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, bad.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
