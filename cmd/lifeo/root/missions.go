package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifeo/internal/commands"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/planner"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	var rationale string
	cmd := &cobra.Command{
		Use:   "add <title> [#category] [<n>m]",
		Short: "Add a mission to today's plan",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse("add " + strings.Join(args, " "))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			mission, err := a.session.AddTask(ctx, planner.Draft{
				Title:           parsed.Add.Title,
				Category:        parsed.Add.Category,
				DurationMinutes: parsed.Add.DurationMinutes,
				Rationale:       rationale,
			})
			if err := persisted(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", good.Render("added"), missionLine(mission))
			return nil
		},
	}
	cmd.Flags().StringVarP(&rationale, "why", "w", "", "why this mission matters today")
	return cmd
}

// newTargetCmd builds done, skip, reopen and carry. Each takes a 1-based
// mission number or a mission id.
func newTargetCmd(opts *globalOptions, verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <number|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse(verb + " " + args[0])
			if err != nil {
				return err
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
			pool := snap.Missions
			if parsed.Type == commands.TypeCarry {
				pool = snap.YesterdayIncomplete
			}
			target, err := parsed.Target.Resolve(pool)
			if err != nil {
				return err
			}
			result, err := applyTarget(ctx, a.session, parsed.Type, target)
			if err := persisted(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", good.Render(string(parsed.Type)), missionLine(result))
			return nil
		},
	}
}

func applyTarget(ctx context.Context, s *planner.Session, typ commands.Type, target model.Mission) (model.Mission, error) {
	var err error
	switch typ {
	case commands.TypeDone:
		err = s.CompleteTask(ctx, target.ID)
	case commands.TypeSkip:
		err = s.SkipTask(ctx, target.ID)
	case commands.TypeReopen:
		err = s.ReopenTask(ctx, target.ID)
	case commands.TypeCarry:
		return s.CarryOver(ctx, target.ID)
	default:
		return model.Mission{}, fmt.Errorf("unsupported command %s", typ)
	}
	if err != nil && !errors.Is(err, planner.ErrNotPersisted) {
		return model.Mission{}, err
	}
	for _, m := range s.Snapshot().Missions {
		if m.ID == target.ID {
			return m, err
		}
	}
	return target, err
}
