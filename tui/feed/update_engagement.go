package feed

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleEngagementMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LikeResultMsg:
		delete(m.likePending, msg.ClipID)
		if msg.Err != nil {
			m.log.Warn("like request failed", "clip_id", msg.ClipID, "liked", msg.Liked, "err", msg.Err)
			return m, nil
		}
		m.ctrl.SetLiked(msg.ClipID, msg.Liked)
		return m, m.sendMetrics(m.ctrl.LikeMetric(msg.ClipID, msg.Liked))

	case CommentedMsg:
		if _, ok := m.ctrl.Playlist().Get(msg.ClipID); !ok {
			return m, nil
		}
		return m, m.sendMetrics(m.ctrl.CommentMetric(msg.ClipID))

	case MetricsSentMsg:
		if msg.Err != nil {
			m.log.Warn("metrics not sent", "count", msg.Count, "err", msg.Err)
		}
		return m, nil

	case OpenedMsg:
		if msg.Err != nil {
			m.log.Warn("open in player failed", "clip_id", msg.ClipID, "err", msg.Err)
			return m.showNotice("Could not open an external player.")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) toggleLike() (Model, tea.Cmd) {
	id, ok := m.ctrl.Current()
	if !ok || m.likePending[id] {
		return m, nil
	}
	m.likePending[id] = true
	return m, m.setLike(id, !m.ctrl.State(id).Liked)
}

// showNotice sets the footer notice and schedules its dismissal.
func (m Model) showNotice(text string) (Model, tea.Cmd) {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return m, tea.Tick(m.settings.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
