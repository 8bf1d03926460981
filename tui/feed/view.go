package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/clipzy/domain"
	"github.com/CrestNiraj12/clipzy/tui/common"
)

// View renders the feed as a string.
func (m Model) View() string {
	if m.showHelp {
		return m.renderKeyDialog()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.loading && m.ctrl.Playlist().Len() == 0:
		b.WriteString(m.fill(fmt.Sprintf("  %s Loading clips...", m.spinner.View())))
	case m.err != nil:
		msg := common.ErrorStyle.Render("  Couldn't load the feed.") +
			"\n  " + common.Truncate(common.OneLine(m.err.Error()), max(m.width-4, 10)) +
			"\n\n  Press r to retry."
		b.WriteString(m.fill(msg))
	case m.ctrl.Playlist().Len() == 0:
		b.WriteString(m.fill("  No clips yet. Press r to refresh."))
	default:
		b.WriteString(m.renderViewport())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := common.AppTitleStyle.Render("▶ clipzy")
	tagline := common.TaglineStyle.Render("short clips, right in your terminal")
	line1 := common.Truncate(title+" "+tagline, m.width)

	strip := common.TaglineStyle.Render("New creators: none yet")
	if len(m.creators) > 0 {
		names := make([]string, 0, len(m.creators))
		seen := make(map[string]bool, len(m.creators))
		for _, c := range m.creators {
			name := c.Creator
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, common.CreatorStyle.Render("@"+name))
		}
		if len(names) > 0 {
			strip = common.TaglineStyle.Render("New creators: ") + strings.Join(names, " · ")
		}
	}
	line2 := " " + common.Truncate(strip, max(m.width-1, 1))
	return line1 + "\n" + line2 + "\n"
}

func (m Model) renderFooter() string {
	notice := ""
	if m.notice != "" {
		notice = common.BannerStyle.Render("  " + m.notice)
	} else if m.loadingMore > 0 {
		notice = fmt.Sprintf("  %s fetching more clips...", m.spinner.View())
	}
	m.help.Width = max(m.width-2, 16)
	hints := common.StatusBarStyle.Render("  " + m.help.ShortHelpView(m.keys.ShortHelp()))
	return common.Truncate(notice, m.width) + "\n" + hints
}

// fill pads content to the viewport height so the footer stays anchored.
func (m Model) fill(content string) string {
	return padLines(strings.Split(content, "\n"), m.pageHeight())
}

// renderViewport renders the pages overlapping the scroll window and cuts
// exactly one page height of lines out of them.
func (m Model) renderViewport() string {
	page := m.pageHeight()
	clips := m.ctrl.Playlist()
	first := m.scrollLine / page
	current, _ := m.ctrl.Current()

	var lines []string
	for i := first; i < clips.Len() && i <= first+1; i++ {
		clip, _ := clips.At(i)
		lines = append(lines, m.renderPage(clip, clip.ID == current, page)...)
	}
	offset := m.scrollLine - first*page
	if offset > len(lines) {
		offset = len(lines)
	}
	lines = lines[offset:]
	if len(lines) > page {
		lines = lines[:page]
	}
	return padLines(lines, page)
}

// renderPage renders one clip as exactly height lines.
func (m Model) renderPage(clip domain.Clip, isCurrent bool, height int) []string {
	st := m.ctrl.State(clip.ID)
	width := max(m.width, 24)
	inner := width - 4 // border + padding
	innerHeight := max(height-2, 1)

	status := common.MetadataStyle.Render("   idle")
	switch {
	case st.Playing:
		status = common.SuccessStyle.Render(" ▶ playing")
	case isCurrent:
		status = common.BannerStyle.Render(" ❚❚ paused")
	}
	status += common.MetadataStyle.Render(fmt.Sprintf("  %3d%%", int(st.Progress*100)))

	var overlay []string
	caption := strings.TrimSpace(clip.Caption)
	if caption != "" {
		wrapped := lipgloss.NewStyle().Width(inner).Render(common.ContentStyle.Render(caption))
		overlay = append(overlay, clipLines(strings.Split(wrapped, "\n"), 3)...)
	}
	if len(clip.Categories) > 0 {
		tags := make([]string, 0, len(clip.Categories))
		for _, c := range clip.Categories {
			tags = append(tags, "#"+c)
		}
		overlay = append(overlay, common.Truncate(common.CategoryStyle.Render(strings.Join(tags, " ")), inner))
	}

	meta := ""
	if clip.Creator != "" {
		meta = common.CreatorStyle.Render("@"+clip.Creator) + "  "
	}
	if ago := common.Ago(clip.CreatedAt, m.clock.Now()); ago != "" {
		meta += common.TimestampStyle.Render(ago) + "  "
	}
	heart := common.MetadataStyle.Render("♡")
	if st.Liked {
		heart = common.LikeActiveStyle.Render("♥")
	}
	meta += heart + common.MetadataStyle.Render(fmt.Sprintf(" %d", st.LikeCount))
	if m.likePending[clip.ID] {
		meta += common.MetadataStyle.Render(" …")
	}
	overlay = append(overlay, common.Truncate(meta, inner))

	bar := m.progress
	bar.Width = inner
	overlay = append(overlay, bar.ViewAs(st.Progress))

	body := []string{status}
	gap := innerHeight - len(body) - len(overlay)
	for i := 0; i < gap; i++ {
		body = append(body, "")
	}
	body = append(body, overlay...)
	body = clipLines(body, innerHeight)

	style := common.ScreenStyle
	if isCurrent {
		style = common.ActiveScreenStyle
	}
	rendered := style.Width(width - 2).Render(strings.Join(body, "\n"))
	return strings.Split(padLines(strings.Split(rendered, "\n"), height), "\n")
}

func clipLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[:n]
}

func padLines(lines []string, n int) string {
	lines = clipLines(lines, n)
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
