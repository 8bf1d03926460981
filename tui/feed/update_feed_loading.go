package feed

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleFeedLoadingMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClipsLoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.notice = ""
		m.scrollLine = 0
		m.view.Reset()
		m.pollGen++
		m.settleSeq++

		kept, prefetch := m.ctrl.Load(msg.Clips)
		m.log.Info("feed loaded", "clips", len(kept))
		if len(kept) == 0 {
			m.notice = "No clips yet. Press r to refresh."
			return m, nil
		}
		m.view.Commit(kept[0].ID)

		cmds := []tea.Cmd{
			m.fetchLiked(msg.ReqSeq, nil),
			m.probeDurations(kept),
			m.schedulePoll(),
		}
		if prefetch {
			cmds = append(cmds, m.startFetchMore())
		}
		return m, tea.Batch(cmds...)

	case ClipsErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		m.log.Error("initial load failed", "err", msg.Err)
		return m, nil

	case MoreClipsMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		if m.loadingMore > 0 {
			m.loadingMore--
		}
		if msg.Err != nil {
			m.log.Warn("load more failed", "err", msg.Err)
			return m, nil
		}
		added := m.ctrl.Append(msg.Clips)
		if dropped := len(msg.Clips) - len(added); dropped > 0 {
			m.log.Debug("dropped already seen clips", "count", dropped)
		}
		if len(added) == 0 {
			return m, nil
		}
		ids := make([]int64, len(added))
		for i, c := range added {
			ids[i] = c.ID
		}
		return m, tea.Batch(m.fetchLiked(msg.ReqSeq, ids), m.probeDurations(added))

	case CreatorsLoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		if msg.Err != nil {
			m.log.Warn("new creators fetch failed", "err", msg.Err)
			return m, nil
		}
		m.creators = msg.Clips
		return m, nil

	case LikedLoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		if msg.Err != nil {
			m.log.Warn("liked clips fetch failed", "err", msg.Err)
			return m, nil
		}
		if msg.ClipIDs == nil {
			m.ctrl.ApplyLiked(msg.Liked)
			return m, nil
		}
		var ids []int64
		for _, id := range msg.ClipIDs {
			if !m.likePending[id] {
				ids = append(ids, id)
			}
		}
		m.ctrl.ApplyLikedTo(msg.Liked, ids)
		return m, nil
	}

	return m, nil
}

// refresh finalizes the current clip, clears the list and reloads.
func (m Model) refresh() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if final := m.ctrl.Leave(); final != nil {
		cmds = append(cmds, m.sendMetrics(*final))
	}
	for _, id := range m.ctrl.Playlist().IDs() {
		m.player.Forget(id)
		delete(m.probed, id)
	}
	m.ctrl.Load(nil)
	m.view.Reset()
	m.reqSeq++
	m.pollGen++
	m.settleSeq++
	m.loading = true
	m.loadingMore = 0
	m.err = nil
	m.notice = ""
	m.scrollLine = 0
	m.creators = nil
	cmds = append(cmds,
		m.fetchInitial(m.reqSeq),
		m.fetchCreators(m.reqSeq),
		m.spinner.Tick,
	)
	return m, tea.Batch(cmds...)
}

func (m *Model) startFetchMore() tea.Cmd {
	m.loadingMore++
	return tea.Batch(m.fetchMore(m.reqSeq), m.spinner.Tick)
}
