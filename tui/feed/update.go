package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	if m.closed() {
		// Results of work started before teardown are dropped.
		return m, nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		anchor := m.anchorIndex()
		m.width = msg.Width
		m.height = msg.Height
		if id, ok := m.ctrl.Current(); ok {
			anchor = m.ctrl.Playlist().IndexOf(id)
		}
		m.scrollLine = anchor * m.pageHeight()
		m.clampScroll()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && m.loadingMore == 0 {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case NoticeMsg:
		return m.showNotice(msg.Text)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	switch msg.(type) {
	case ClipsLoadedMsg, ClipsErrorMsg, MoreClipsMsg, CreatorsLoadedMsg, LikedLoadedMsg:
		return m.handleFeedLoadingMsg(msg)
	case settleMsg, pollMsg, DurationProbedMsg:
		return m.handlePlaybackMsg(msg)
	case LikeResultMsg, MetricsSentMsg, CommentedMsg, OpenedMsg:
		return m.handleEngagementMsg(msg)
	case tea.KeyMsg, tea.MouseMsg:
		return m.handleInputMsg(msg)
	}

	return m, nil
}
