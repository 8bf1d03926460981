package feed

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/clipzy/tui/common"
)

func (m Model) renderKeyDialog() string {
	m.help.ShowAll = true
	m.help.Width = max(m.width-6, 20)
	body := []string{
		common.AppTitleStyle.Render("Keys"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		"mouse wheel     scroll between clips",
		"c / s           comments / share open as sheets",
		"",
		common.StatusBarStyle.Render("?, esc or q to close"),
	}
	dialog := common.SheetStyle.Render(strings.Join(body, "\n"))
	return lipgloss.Place(max(m.width, 1), max(m.height, 1), lipgloss.Center, lipgloss.Center, dialog)
}
