package root

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/lifeo/internal/model"
)

// exportDoc is everything lifeo stores, in one document.
type exportDoc struct {
	Today    string            `json:"today" yaml:"today"`
	Missions []model.Mission   `json:"missions" yaml:"missions"`
	Momentum model.Momentum    `json:"momentum" yaml:"momentum"`
	History  []model.DayRecord `json:"history" yaml:"history"`
	Prefs    model.UIPrefs     `json:"uiPrefs" yaml:"uiPrefs"`
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print stored state as YAML or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := persisted(a.session.Load(ctx)); err != nil {
				return err
			}
			snap := a.session.Snapshot()
			doc := exportDoc{
				Today:    snap.Today,
				Missions: snap.Missions,
				Momentum: snap.Momentum,
				History:  snap.History,
				Prefs:    a.session.LoadPrefs(ctx),
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml|json)")
	return cmd
}
