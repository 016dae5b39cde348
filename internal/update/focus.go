package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	mission, ok := m.focusMission()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.Focus.Running = false
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.Focus.TotalSec
		}
		m.Focus.Running = true
		m.Status = StatusBar{Text: "focus running"}
		return m, m.focusTickCmd()
	case "r":
		m.Focus.Running = false
		m.Focus.RemainingSec = m.Focus.TotalSec
		m.Status = StatusBar{Text: "focus reset"}
		return m, nil
	case "c":
		m.Focus.Running = false
		m = m.advanceFocus()
		return m, tea.Batch(m.completeCmd(mission), m.savePrefsCmd())
	case "s":
		m.Focus.Running = false
		m = m.advanceFocus()
		return m, tea.Batch(m.skipCmd(mission), m.savePrefsCmd())
	case "n":
		m.Focus.Running = false
		m = m.advanceFocus()
		return m, m.savePrefsCmd()
	}
	return m, nil
}

func (m Model) onFocusTick() (Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	if m.Focus.RemainingSec > 0 {
		m.Focus.RemainingSec--
	}
	if m.Focus.RemainingSec == 0 {
		m.Focus.Running = false
		m.Status = StatusBar{Text: "time is up: press c to complete or s to skip"}
		return m, nil
	}
	return m, m.focusTickCmd()
}

func (m Model) focusTickCmd() tea.Cmd {
	return tea.Tick(m.focusTick, func(time.Time) tea.Msg { return FocusTickMsg{} })
}

func (m Model) focusMission() (model.Mission, bool) {
	missions := m.Snapshot.Missions
	if len(missions) == 0 {
		return model.Mission{}, false
	}
	return missions[clamp(m.Prefs.FocusCursor, len(missions))], true
}

// advanceFocus moves the cursor to the next mission, staying on the last.
func (m Model) advanceFocus() Model {
	if next := m.Prefs.FocusCursor + 1; next < len(m.Snapshot.Missions) {
		m.Prefs.FocusCursor = next
	}
	m.syncFocusMission()
	return m
}

// syncFocusMission resets the timer when the focused mission changes.
func (m *Model) syncFocusMission() {
	mission, ok := m.focusMission()
	if !ok {
		m.Focus = FocusState{}
		return
	}
	if mission.ID == m.Focus.MissionID {
		return
	}
	total := mission.DurationMinutes * 60
	m.Focus = FocusState{MissionID: mission.ID, TotalSec: total, RemainingSec: total}
}

func (m Model) renderFocusView() string {
	mission, ok := m.focusMission()
	if !ok {
		return views.RenderFocusPanel(views.FocusPanelData{})
	}
	allDone := len(m.Snapshot.Missions) > 0
	for _, ms := range m.Snapshot.Missions {
		if !ms.Completed {
			allDone = false
			break
		}
	}
	pct := 0.0
	if m.Focus.TotalSec > 0 {
		pct = float64(m.Focus.TotalSec-m.Focus.RemainingSec) / float64(m.Focus.TotalSec)
	}
	rows := missionRows([]model.Mission{mission})
	return views.RenderFocusPanel(views.FocusPanelData{
		Mission:      &rows[0],
		Position:     clamp(m.Prefs.FocusCursor, len(m.Snapshot.Missions)) + 1,
		Total:        len(m.Snapshot.Missions),
		Timer:        formatClock(m.Focus.RemainingSec),
		Running:      m.Focus.Running,
		ProgressView: m.focusProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
		AllDone:      allDone,
	})
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
