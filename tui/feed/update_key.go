package feed

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const wheelStep = 3

func (m Model) handleInputMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if m.showHelp || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			return m.scrollBy(wheelStep)
		case tea.MouseButtonWheelUp:
			return m.scrollBy(-wheelStep)
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m.refresh()
		case m.err != nil || m.loading:
			return m, nil
		case key.Matches(msg, m.keys.Down):
			return m.page(1)
		case key.Matches(msg, m.keys.Up):
			return m.page(-1)
		case key.Matches(msg, m.keys.PlayPause):
			m.ctrl.TogglePlay()
			return m, nil
		case key.Matches(msg, m.keys.Like):
			return m.toggleLike()
		case key.Matches(msg, m.keys.Open):
			clip, ok := m.CurrentClip()
			if !ok {
				return m, nil
			}
			if st := m.ctrl.State(clip.ID); st.Playing {
				m.ctrl.TogglePlay()
			}
			return m, m.openExternal(clip)
		}
	}
	return m, nil
}

// page snaps the viewport to the clip delta pages away from the current one.
func (m Model) page(delta int) (Model, tea.Cmd) {
	n := m.ctrl.Playlist().Len()
	if n == 0 {
		return m, nil
	}
	idx := m.anchorIndex() + delta
	idx = max(0, min(idx, n-1))
	return m.scrollTo(idx * m.pageHeight())
}

func (m Model) scrollBy(lines int) (Model, tea.Cmd) {
	return m.scrollTo(m.scrollLine + lines)
}

func (m Model) scrollTo(line int) (Model, tea.Cmd) {
	prev := m.scrollLine
	m.scrollLine = line
	m.clampScroll()
	if m.scrollLine == prev {
		return m, nil
	}
	return m.observe()
}

// anchorIndex is the clip whose page is nearest to the viewport top.
func (m Model) anchorIndex() int {
	page := m.pageHeight()
	return (m.scrollLine + page/2) / page
}
