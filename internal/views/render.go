package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header      string
	MainPane    string
	SidePane    string
	MomentumBar string
	StatusLine  string
	StatusError bool
	Footer      string
	Dark        bool
}

type theme struct {
	header lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	panel  lipgloss.Style
	footer lipgloss.Style
}

func themeFor(dark bool) theme {
	if dark {
		return theme{
			header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			status: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
			footer: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		}
	}
	return theme{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func RenderApp(data AppData) string {
	th := themeFor(data.Dark)
	main := th.panel.Width(58).Render(data.MainPane)
	row := main
	if strings.TrimSpace(data.SidePane) != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Top, main, th.panel.Width(40).Render(data.SidePane))
	}

	lines := []string{th.header.Render(data.Header)}
	if data.MomentumBar != "" {
		lines = append(lines, data.MomentumBar)
	}
	lines = append(lines, row)
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, th.err.Render(data.StatusLine))
		} else {
			lines = append(lines, th.status.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, th.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when glamour fails.
func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
