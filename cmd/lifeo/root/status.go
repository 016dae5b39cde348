package root

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeo/internal/daily"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/planner"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's missions and momentum",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := persisted(a.session.Load(ctx)); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), a.session.Snapshot())
			return nil
		},
	}
}

func printStatus(w io.Writer, snap planner.Snapshot) {
	done := daily.CountCompleted(snap.Missions)
	fmt.Fprintln(w, h2.Render("Today "+snap.Today))
	if len(snap.Missions) == 0 {
		fmt.Fprintln(w, muted.Render("no missions planned"))
	}
	for i, m := range snap.Missions {
		fmt.Fprintf(w, "%d. %s\n", i+1, missionLine(m))
	}
	fmt.Fprintf(w, "%s %d of %d (%d%%)\n\n", muted.Render("done:"), done, len(snap.Missions), snap.CompletionRate)

	fmt.Fprintln(w, h2.Render("Momentum"))
	fmt.Fprintf(w, "- this week: %d/%d\n", snap.Momentum.WeeklyScore, model.MaxWeeklyScore)
	fmt.Fprintf(w, "- lifetime: %d since %s\n", snap.Momentum.LifetimeTotal, snap.Momentum.TrackingStartDate)

	if len(snap.YesterdayIncomplete) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, h2.Render("Left open yesterday"))
		for i, m := range snap.YesterdayIncomplete {
			fmt.Fprintf(w, "%d. %s\n", i+1, missionLine(m))
		}
	}
}

func missionLine(m model.Mission) string {
	box := "[ ]"
	if m.Completed {
		box = good.Render("[x]")
	}
	return fmt.Sprintf("%s %s %s", box, m.Title, muted.Render(fmt.Sprintf("(%s, %dm)", m.Category, m.DurationMinutes)))
}
