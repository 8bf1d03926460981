package share

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/clipzy/tui/common"
)

// View renders the picker.
func (m Model) View() string {
	width := max(m.width-2, 30)
	inner := width - 4

	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("Share clip"))
	if caption := common.OneLine(m.clip.Caption); caption != "" {
		b.WriteString(common.TaglineStyle.Render(common.Truncate(caption, max(inner-14, 8))))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s Loading followers...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render("Couldn't load followers."))
		b.WriteString("\n")
	case len(m.recipients) == 0:
		b.WriteString(common.MetadataStyle.Render("No one to share with yet."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList(inner))
	}

	b.WriteString("\n")
	switch {
	case m.sending:
		b.WriteString(fmt.Sprintf("%s Sending...", m.spinner.View()))
	case m.hint != "":
		b.WriteString(common.BannerStyle.Render(m.hint))
	default:
		b.WriteString(common.MetadataStyle.Render(fmt.Sprintf("%d selected", len(m.Selected()))))
	}
	b.WriteString("\n")
	b.WriteString(common.StatusBarStyle.Render("j/k: move • space: select • enter: send • esc: back"))

	return common.SheetStyle.Width(width).Render(b.String())
}

func (m Model) renderList(width int) string {
	rows := max(m.height-10, 3)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.recipients))

	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.recipients[i]
		box := "[ ]"
		if m.selected[i] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, r.Username)
		if r.RoomID != 0 {
			line += common.MetadataStyle.Render("  chat")
		}
		line = common.Truncate(line, width-2)
		if i == m.cursor {
			b.WriteString(common.SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
