package feed

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/clipzy/playback"
)

func (m Model) handlePlaybackMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settleMsg:
		if msg.seq != m.settleSeq {
			return m, nil
		}
		id, ok := m.view.Settle(m.clock.Now())
		if !ok {
			return m, nil
		}
		return m.activate(id)

	case pollMsg:
		if msg.gen != m.pollGen {
			return m, nil
		}
		sample, ok := m.ctrl.Poll(msg.clipID)
		if !ok {
			return m, nil
		}
		cmds := []tea.Cmd{m.schedulePoll()}
		if sample.Prefetch {
			m.log.Debug("near end, fetching next", "clip_id", sample.ClipID)
			cmds = append(cmds, m.startFetchMore())
		}
		return m, tea.Batch(cmds...)

	case DurationProbedMsg:
		if msg.Err != nil {
			m.log.Debug("duration unknown", "clip_id", msg.ClipID, "err", msg.Err)
			return m, nil
		}
		m.player.SetDuration(msg.ClipID, msg.Duration)
		return m, nil
	}
	return m, nil
}

// activate switches playback to clipID and emits the outgoing clip's metric.
func (m Model) activate(clipID int64) (Model, tea.Cmd) {
	tr, ok := m.ctrl.Activate(clipID)
	if !ok {
		return m, nil
	}
	m.view.Commit(clipID)
	m.pollGen++

	var cmds []tea.Cmd
	if tr.Outgoing != nil {
		m.log.Debug("watch metric", "clip_id", tr.Outgoing.VideoID, "pct", tr.Outgoing.WatchPercentage)
		cmds = append(cmds, m.sendMetrics(*tr.Outgoing))
	}
	if tr.Prefetch {
		cmds = append(cmds, m.startFetchMore())
	}
	cmds = append(cmds, m.schedulePoll())
	return m, tea.Batch(cmds...)
}

// observe feeds the current scroll geometry to the visibility rules.
func (m Model) observe() (Model, tea.Cmd) {
	items := m.visibleFractions()
	if !m.view.Observe(items, m.clock.Now()) {
		return m, nil
	}
	m.settleSeq++
	return m, m.scheduleSettle()
}

func (m Model) visibleFractions() []playback.Visible {
	ids := m.ctrl.Playlist().IDs()
	page := m.pageHeight()
	out := make([]playback.Visible, 0, 2)
	for i, id := range ids {
		if f := visibleFraction(i, page, m.scrollLine); f > 0 {
			out = append(out, playback.Visible{ClipID: id, Fraction: f})
		}
	}
	return out
}
