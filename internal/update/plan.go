package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifeo/internal/commands"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/planner"
	"github.com/sandeepkv93/lifeo/internal/views"
)

func (m Model) handlePlanKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.Cursor = clamp(m.Cursor+1, len(m.Snapshot.Missions))
	case "k", "up":
		m.Cursor = clamp(m.Cursor-1, len(m.Snapshot.Missions))
	case "a":
		if len(m.Snapshot.Missions) >= m.Snapshot.MaxMissions {
			m.Status = StatusBar{Text: fmt.Sprintf("plan is full (%d missions)", m.Snapshot.MaxMissions), IsError: true}
			return m, nil
		}
		m.Adding = true
		m.addInput.SetValue("")
		m.addInput.Focus()
	case "c":
		if mission, ok := m.missionAtCursor(); ok {
			return m, m.completeCmd(mission)
		}
	case "s":
		if mission, ok := m.missionAtCursor(); ok {
			return m, m.skipCmd(mission)
		}
	case "o":
		if mission, ok := m.missionAtCursor(); ok {
			return m, m.reopenCmd(mission)
		}
	case "y":
		if len(m.Snapshot.YesterdayIncomplete) == 0 {
			m.Status = StatusBar{Text: "nothing left open yesterday"}
			return m, nil
		}
		return m, m.carryCmd(m.Snapshot.YesterdayIncomplete[0])
	case "enter":
		if _, ok := m.missionAtCursor(); ok {
			m.Prefs.FocusCursor = m.Cursor
			return m.switchScreen(model.ScreenFocus)
		}
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Adding = false
		m.addInput.Blur()
		m.addInput.SetValue("")
		return m, nil
	case "enter":
		m.Adding = false
		m.addInput.Blur()
		cmd, err := commands.Parse("add " + m.addInput.Value())
		m.addInput.SetValue("")
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		return m, m.addCmd(*cmd.Add)
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m Model) addCmd(args commands.AddArgs) tea.Cmd {
	draft := planner.Draft{Title: args.Title, Category: args.Category, DurationMinutes: args.DurationMinutes}
	return m.mutateCmd("added: "+args.Title, func(ctx context.Context, s *planner.Session) error {
		_, err := s.AddTask(ctx, draft)
		return err
	})
}

func (m Model) completeCmd(mission model.Mission) tea.Cmd {
	return m.mutateCmd("completed: "+mission.Title, func(ctx context.Context, s *planner.Session) error {
		return s.CompleteTask(ctx, mission.ID)
	})
}

func (m Model) skipCmd(mission model.Mission) tea.Cmd {
	return m.mutateCmd("skipped: "+mission.Title, func(ctx context.Context, s *planner.Session) error {
		return s.SkipTask(ctx, mission.ID)
	})
}

func (m Model) reopenCmd(mission model.Mission) tea.Cmd {
	return m.mutateCmd("reopened: "+mission.Title, func(ctx context.Context, s *planner.Session) error {
		return s.ReopenTask(ctx, mission.ID)
	})
}

func (m Model) carryCmd(mission model.Mission) tea.Cmd {
	return m.mutateCmd("carried over: "+mission.Title, func(ctx context.Context, s *planner.Session) error {
		_, err := s.CarryOver(ctx, mission.ID)
		return err
	})
}

func (m Model) renderPlanView() string {
	return views.RenderPlanPanel(views.PlanPanelData{
		Date:        m.Snapshot.Today,
		Missions:    missionRows(m.Snapshot.Missions),
		Cursor:      m.Cursor,
		MaxMissions: m.Snapshot.MaxMissions,
		AddActive:   m.Adding,
		AddView:     m.addInput.View(),
		Yesterday:   missionRows(m.Snapshot.YesterdayIncomplete),
	})
}

func missionRows(missions []model.Mission) []views.MissionRow {
	out := make([]views.MissionRow, 0, len(missions))
	for _, ms := range missions {
		out = append(out, views.MissionRow{
			ID:        ms.ID,
			Title:     ms.Title,
			Category:  string(ms.Category),
			Minutes:   ms.DurationMinutes,
			Rationale: ms.Rationale,
			Completed: ms.Completed,
		})
	}
	return out
}
