package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.loadPrefsCmd(), waitForChangeCmd(m.changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		if m.Adding {
			return m.handleAddKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Plan:
			return m.switchScreen(model.ScreenPlan)
		case m.Keys.Focus:
			return m.switchScreen(model.ScreenFocus)
		case m.Keys.Dashboard:
			return m.switchScreen(model.ScreenDashboard)
		case m.Keys.Theme:
			m.Prefs.DarkMode = !m.Prefs.DarkMode
			return m, m.savePrefsCmd()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.Screen {
		case model.ScreenPlan:
			return m.handlePlanKey(typed)
		case model.ScreenFocus:
			return m.handleFocusKey(typed)
		case model.ScreenDashboard:
			return m.handleDashboardKey(typed)
		}
	case SnapshotMsg:
		return m.applySnapshot(typed), nil
	case PrefsLoadedMsg:
		m.Prefs = typed.Prefs
		m.Screen = typed.Prefs.Screen
		m.syncFocusMission()
		return m, nil
	case PrefsSavedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: "preferences not saved", IsError: true}
		}
		return m, nil
	case StoreChangedMsg:
		if typed.Key == model.KeyAppState {
			return m, tea.Batch(m.loadCmd(), waitForChangeCmd(m.changes))
		}
		return m, waitForChangeCmd(m.changes)
	case FocusTickMsg:
		return m.onFocusTick()
	case progress.FrameMsg:
		next, cmd := m.focusProgress.Update(typed)
		if p, ok := next.(progress.Model); ok {
			m.focusProgress = p
		}
		return m, cmd
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) switchScreen(screen model.Screen) (Model, tea.Cmd) {
	if !screen.IsValid() {
		return m, nil
	}
	m.Screen = screen
	m.Prefs.Screen = screen
	if screen == model.ScreenFocus {
		m.syncFocusMission()
	}
	return m, m.savePrefsCmd()
}

func (m Model) View() string {
	main := ""
	switch m.Screen {
	case model.ScreenPlan:
		main = m.renderPlanView()
	case model.ScreenFocus:
		main = m.renderFocusView()
	case model.ScreenDashboard:
		main = m.renderDashboardView()
	}
	side := views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value())
	if m.HelpVisible {
		if side != "" {
			side += "\n\n"
		}
		side += m.renderHelpView()
	}

	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}
	bar := ""
	if m.Prefs.ShowMomentumBar {
		bar = views.RenderMomentumBar(m.Snapshot.Momentum.WeeklyScore, model.MaxWeeklyScore, 20)
	}

	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("lifeo | %s | screen: %s", m.Snapshot.Today, m.Screen),
		MainPane:    main,
		SidePane:    side,
		MomentumBar: bar,
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s plan | %s focus | %s dashboard | / cmd | %s theme | %s help | %s quit",
			m.Keys.Plan, m.Keys.Focus, m.Keys.Dashboard, m.Keys.Theme, m.Keys.Help, m.Keys.Quit),
		Dark: m.Prefs.DarkMode,
	})
}
