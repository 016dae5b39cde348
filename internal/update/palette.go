package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifeo/internal/commands"
	"github.com/sandeepkv93/lifeo/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	onToday := func(verb string, build func(model.Mission) tea.Cmd) func(commands.TargetArgs) (commands.Result, error) {
		return func(t commands.TargetArgs) (commands.Result, error) {
			mission, err := t.Resolve(m.Snapshot.Missions)
			if err != nil {
				return commands.Result{}, err
			}
			followUp = build(mission)
			return commands.Result{Message: fmt.Sprintf("%s %s", verb, mission.Title)}, nil
		}
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			followUp = m.addCmd(a)
			return commands.Result{Message: "adding " + a.Title}, nil
		},
		Done:   onToday("completing", m.completeCmd),
		Skip:   onToday("skipping", m.skipCmd),
		Reopen: onToday("reopening", m.reopenCmd),
		Carry: func(t commands.TargetArgs) (commands.Result, error) {
			mission, err := t.Resolve(m.Snapshot.YesterdayIncomplete)
			if err != nil {
				return commands.Result{}, err
			}
			followUp = m.carryCmd(mission)
			return commands.Result{Message: "carrying over " + mission.Title}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			switch t.Mode {
			case commands.ThemeDark:
				m.Prefs.DarkMode = true
			case commands.ThemeLight:
				m.Prefs.DarkMode = false
			default:
				m.Prefs.DarkMode = !m.Prefs.DarkMode
			}
			followUp = m.savePrefsCmd()
			if m.Prefs.DarkMode {
				return commands.Result{Message: "dark mode on"}, nil
			}
			return commands.Result{Message: "dark mode off"}, nil
		},
		Go: func(g commands.GoArgs) (commands.Result, error) {
			var next tea.Cmd
			m, next = m.switchScreen(g.Screen)
			followUp = next
			return commands.Result{Message: "switched to " + string(g.Screen)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, followUp
}
