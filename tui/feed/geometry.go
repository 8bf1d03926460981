package feed

const (
	headerLines  = 3 // title, creators strip, blank
	footerLines  = 2 // notice, help
	minPageLines = 8
)

// pageHeight is the number of lines one clip page occupies.
func (m Model) pageHeight() int {
	return max(m.height-headerLines-footerLines, minPageLines)
}

func (m Model) maxScroll() int {
	n := m.ctrl.Playlist().Len()
	if n == 0 {
		return 0
	}
	return (n - 1) * m.pageHeight()
}

func (m *Model) clampScroll() {
	m.scrollLine = max(0, min(m.scrollLine, m.maxScroll()))
}

// visibleFraction returns the share of page index i inside a viewport of
// one page height starting at scroll.
func visibleFraction(i, page, scroll int) float64 {
	if page <= 0 {
		return 0
	}
	top := i * page
	bottom := top + page
	overlap := min(bottom, scroll+page) - max(top, scroll)
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / float64(page)
}
