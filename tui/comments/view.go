package comments

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/clipzy/tui/common"
)

// View renders the sheet.
func (m Model) View() string {
	width := max(m.width-2, 30)
	inner := width - 4

	var b strings.Builder
	title := common.AppTitleStyle.Render("Comments")
	if m.clip.Creator != "" {
		title += common.TaglineStyle.Render("on @" + m.clip.Creator + "'s clip")
	}
	b.WriteString(common.Truncate(title, inner))
	b.WriteString("\n")
	if caption := common.OneLine(m.clip.Caption); caption != "" {
		b.WriteString(common.ContentStyle.Render(common.Truncate(caption, inner)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// list area: everything not taken by the chrome and the input
	listHeight := max(m.height-14, 3)
	switch {
	case m.loading:
		b.WriteString(common.MetadataStyle.Render("Loading comments..."))
		b.WriteString("\n")
	case len(m.comments) == 0:
		b.WriteString(common.MetadataStyle.Render("No comments yet. Be the first."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList(inner, listHeight))
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.banner != "":
		b.WriteString(common.BannerStyle.Render(m.banner))
	case m.posting:
		b.WriteString(common.MetadataStyle.Render("Posting..."))
	}
	b.WriteString("\n")

	hint := fmt.Sprintf("enter: send • ctrl+e: $EDITOR • esc: back • %d/%d",
		len([]rune(m.input.Value())), m.input.CharLimit)
	b.WriteString(common.StatusBarStyle.Render(hint))

	return common.SheetStyle.Width(width).Render(b.String())
}

func (m Model) renderList(width, height int) string {
	now := time.Now()
	var lines []string
	for _, c := range m.comments[min(m.offset, len(m.comments)):] {
		head := common.CreatorStyle.Render("@" + c.User)
		if ago := common.Ago(c.CreatedAt, now); ago != "" {
			head += "  " + common.TimestampStyle.Render(ago)
		}
		lines = append(lines, head)
		body := lipgloss.NewStyle().Width(width - 2).Render(common.ContentStyle.Render(c.Text))
		for _, l := range strings.Split(body, "\n") {
			lines = append(lines, "  "+l)
		}
		if len(lines) >= height {
			break
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n") + "\n"
}
