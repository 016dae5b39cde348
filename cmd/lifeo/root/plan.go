package root

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandeepkv93/lifeo/internal/commands"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/planner"
)

// draftFields back one mission's inputs in the plan form.
type draftFields struct {
	title     string
	category  string
	minutes   string
	rationale string
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	var missions []string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Replace today's plan",
		Long: "plan replaces today's missions. Pass --mission once per mission " +
			`("title #category 25m"), or answer the form when no flags are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			var drafts []planner.Draft
			if len(missions) > 0 {
				drafts, err = draftsFromFlags(missions)
			} else {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.New("no terminal for the plan form, pass --mission instead")
				}
				drafts, err = draftsFromForm(a.cfg.Planner.MaxMissions, a.cfg.Planner.DefaultDurationMinutes)
			}
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				return errors.New("no missions given, plan unchanged")
			}

			plan, err := a.session.GeneratePlan(ctx, drafts)
			if err := persisted(err); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h2.Render("Plan for "+a.session.Snapshot().Today))
			for i, m := range plan {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, missionLine(m))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&missions, "mission", "m", nil, `mission as "title #category 25m" (repeatable)`)
	return cmd
}

func draftsFromFlags(raw []string) ([]planner.Draft, error) {
	drafts := make([]planner.Draft, 0, len(raw))
	for _, r := range raw {
		parsed, err := commands.Parse("add " + r)
		if err != nil {
			return nil, fmt.Errorf("mission %q: %w", r, err)
		}
		drafts = append(drafts, planner.Draft{
			Title:           parsed.Add.Title,
			Category:        parsed.Add.Category,
			DurationMinutes: parsed.Add.DurationMinutes,
		})
	}
	return drafts, nil
}

func draftsFromForm(slots, defaultMinutes int) ([]planner.Draft, error) {
	fields := make([]*draftFields, slots)
	groups := make([]*huh.Group, 0, slots)
	categories := make([]huh.Option[string], 0, len(model.Categories))
	for _, c := range model.Categories {
		categories = append(categories, huh.NewOption(string(c), string(c)))
	}

	for i := range fields {
		f := &draftFields{category: string(model.CategoryFocus), minutes: strconv.Itoa(defaultMinutes)}
		fields[i] = f
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Mission %d", i+1)).
				Description("leave empty to stop here").
				Value(&f.title),
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&f.category),
			huh.NewInput().
				Title("Minutes").
				Value(&f.minutes).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Why today?").
				Value(&f.rationale),
		))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}
	return draftsFromFields(fields), nil
}

// draftsFromFields stops at the first mission left without a title.
func draftsFromFields(fields []*draftFields) []planner.Draft {
	drafts := make([]planner.Draft, 0, len(fields))
	for _, f := range fields {
		title := strings.TrimSpace(f.title)
		if title == "" {
			break
		}
		minutes, _ := strconv.Atoi(strings.TrimSpace(f.minutes))
		drafts = append(drafts, planner.Draft{
			Title:           title,
			Category:        model.Category(f.category),
			DurationMinutes: minutes,
			Rationale:       strings.TrimSpace(f.rationale),
		})
	}
	return drafts
}

func validateMinutes(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return errors.New("minutes must be a positive number")
	}
	return nil
}
