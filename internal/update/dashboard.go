package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifeo/internal/daily"
	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/views"
)

const heatmapWeeks = 12

var weekLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "y" {
		if len(m.Snapshot.YesterdayIncomplete) == 0 {
			m.Status = StatusBar{Text: "nothing left open yesterday"}
			return m, nil
		}
		return m, m.carryCmd(m.Snapshot.YesterdayIncomplete[0])
	}
	return m, nil
}

func (m Model) dashboardData() views.DashboardData {
	snap := m.Snapshot
	summary := daily.WeekSummary(snap.History, snap.Today)
	week := make([]views.WeekDay, 0, len(summary))
	for i, n := range summary {
		week = append(week, views.WeekDay{Label: weekLabels[i], Completed: n})
	}
	return views.DashboardData{
		Date:           snap.Today,
		Completed:      daily.CountCompleted(snap.Missions),
		Total:          len(snap.Missions),
		CompletionRate: snap.CompletionRate,
		WeeklyScore:    snap.Momentum.WeeklyScore,
		MaxWeekly:      model.MaxWeeklyScore,
		LifetimeTotal:  snap.Momentum.LifetimeTotal,
		TrackingSince:  snap.Momentum.TrackingStartDate,
		ShowWeekly:     m.Prefs.ShowWeeklyBox,
		Week:           week,
		HeatmapRows:    heatmapRows(daily.Heatmap(snap.History, snap.Today, heatmapWeeks)),
		Yesterday:      missionRows(snap.YesterdayIncomplete),
	}
}

// heatmapRows turns weeks into weekday rows: one line per weekday, one
// column per week, like a contribution graph.
func heatmapRows(weeks [][]daily.HeatCell) []string {
	if len(weeks) == 0 {
		return nil
	}
	rows := make([]string, 7)
	for d := 0; d < 7; d++ {
		var b strings.Builder
		for _, week := range weeks {
			if d >= len(week) {
				b.WriteString("  ")
				continue
			}
			switch week[d].Level {
			case daily.HeatHigh:
				b.WriteString("# ")
			case daily.HeatSome:
				b.WriteString("o ")
			default:
				b.WriteString(". ")
			}
		}
		rows[d] = strings.TrimRight(b.String(), " ")
	}
	return rows
}

func (m Model) renderDashboardView() string {
	return views.RenderMarkdown(views.DashboardMarkdown(m.dashboardData()), m.Prefs.DarkMode)
}
