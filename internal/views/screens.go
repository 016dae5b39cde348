package views

import (
	"fmt"
	"strings"
)

type MissionRow struct {
	ID        string
	Title     string
	Category  string
	Minutes   int
	Rationale string
	Completed bool
}

type PlanPanelData struct {
	Date        string
	Missions    []MissionRow
	Cursor      int
	MaxMissions int
	AddActive   bool
	AddView     string
	Yesterday   []MissionRow
}

type FocusPanelData struct {
	Mission      *MissionRow
	Position     int
	Total        int
	Timer        string
	Running      bool
	ProgressView string
	ProgressPct  int
	AllDone      bool
}

type HelpPanelData struct {
	Screen   string
	Bindings []string
	HelpView string
}

type WeekDay struct {
	Label     string
	Completed int
}

type DashboardData struct {
	Date           string
	Completed      int
	Total          int
	CompletionRate int
	WeeklyScore    int
	MaxWeekly      int
	LifetimeTotal  int
	TrackingSince  string
	ShowWeekly     bool
	Week           []WeekDay
	HeatmapRows    []string
	Yesterday      []MissionRow
}

func RenderPlanPanel(data PlanPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("plan for %s (%d/%d):\n", data.Date, len(data.Missions), data.MaxMissions))
	if len(data.Missions) == 0 {
		b.WriteString("  (no missions yet, press [a] to add)\n")
	}
	for i, m := range data.Missions {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s %s [%s, %dm]\n", cursor, i+1, checkbox(m.Completed), m.Title, m.Category, m.Minutes))
		if m.Rationale != "" {
			b.WriteString(fmt.Sprintf("     %s\n", m.Rationale))
		}
	}
	if data.AddActive {
		b.WriteString("\nnew mission: " + data.AddView + "\n")
		b.WriteString("format: <title> [#category] [<n>m], [enter] save [esc] cancel\n")
	}
	if len(data.Yesterday) > 0 {
		b.WriteString("\nleft open yesterday:\n")
		for i, m := range data.Yesterday {
			b.WriteString(fmt.Sprintf("  %d. %s [%s]\n", i+1, m.Title, m.Category))
		}
		b.WriteString("  [y] carry the first one over, or /carry <n>\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.AllDone {
		b.WriteString("every mission is done for today\n")
		return strings.TrimSpace(b.String())
	}
	if data.Mission == nil {
		b.WriteString("no missions planned\n")
		return strings.TrimSpace(b.String())
	}
	b.WriteString(fmt.Sprintf("mission %d of %d\n", data.Position, data.Total))
	b.WriteString(fmt.Sprintf("%s %s\n", checkbox(data.Mission.Completed), data.Mission.Title))
	b.WriteString(fmt.Sprintf("category: %s | planned: %dm\n", data.Mission.Category, data.Mission.Minutes))
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("timer: %s (%s)\n", data.Timer, state))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString("actions: [space]start/pause [r]reset [c]complete [s]skip [n]next")
	return b.String()
}

// DashboardMarkdown builds the dashboard as markdown for RenderMarkdown.
func DashboardMarkdown(data DashboardData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Today, %s\n\n", data.Date))
	b.WriteString(fmt.Sprintf("**%d of %d missions done** (%d%%)\n\n", data.Completed, data.Total, data.CompletionRate))

	b.WriteString("## Momentum\n\n")
	b.WriteString(fmt.Sprintf("- Weekly score: %d / %d\n", data.WeeklyScore, data.MaxWeekly))
	b.WriteString(fmt.Sprintf("- Lifetime total: %d since %s\n\n", data.LifetimeTotal, data.TrackingSince))

	if data.ShowWeekly && len(data.Week) > 0 {
		b.WriteString("## This week\n\n")
		header := make([]string, 0, len(data.Week))
		sep := make([]string, 0, len(data.Week))
		counts := make([]string, 0, len(data.Week))
		for _, d := range data.Week {
			header = append(header, d.Label)
			sep = append(sep, "---")
			counts = append(counts, fmt.Sprintf("%d", d.Completed))
		}
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
		b.WriteString("| " + strings.Join(counts, " | ") + " |\n\n")
	}

	if len(data.HeatmapRows) > 0 {
		b.WriteString("## Activity\n\n```\n")
		for _, row := range data.HeatmapRows {
			b.WriteString(row + "\n")
		}
		b.WriteString("```\n\n")
	}

	if len(data.Yesterday) > 0 {
		b.WriteString("## Left open yesterday\n\n")
		for i, m := range data.Yesterday {
			b.WriteString(fmt.Sprintf("%d. %s (%s, %dm)\n", i+1, m.Title, m.Category, m.Minutes))
		}
	}
	return b.String()
}

// RenderMomentumBar draws the weekly score as a fixed-width bar.
func RenderMomentumBar(score, limit, width int) string {
	if limit <= 0 || width <= 0 {
		return ""
	}
	filled := score * width / limit
	filled = max(0, min(width, filled))
	return fmt.Sprintf("momentum [%s%s] %d/%d", strings.Repeat("#", filled), strings.Repeat("-", width-filled), score, limit)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s screen:\n%s\n%s",
		strings.ToLower(data.Screen),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
