package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/clipzy/domain"
)

func (m Model) fetchInitial(seq int) tea.Cmd {
	feed, ctx, count := m.svc.Feed, m.ctx, m.settings.PageSize
	return func() tea.Msg {
		clips, err := feed.NextClips(ctx, count, nil)
		if err != nil {
			return ClipsErrorMsg{Err: err, ReqSeq: seq}
		}
		return ClipsLoadedMsg{Clips: clips, ReqSeq: seq}
	}
}

func (m Model) fetchCreators(seq int) tea.Cmd {
	feed, ctx := m.svc.Feed, m.ctx
	return func() tea.Msg {
		clips, err := feed.NewCreators(ctx)
		return CreatorsLoadedMsg{Clips: clips, Err: err, ReqSeq: seq}
	}
}

func (m Model) fetchLiked(seq int, ids []int64) tea.Cmd {
	feed, ctx := m.svc.Feed, m.ctx
	return func() tea.Msg {
		liked, err := feed.LikedClipIDs(ctx)
		return LikedLoadedMsg{Liked: liked, ClipIDs: ids, Err: err, ReqSeq: seq}
	}
}

// fetchMore asks for clips beyond the held ones. The exclusion list is
// captured when the request is issued.
func (m Model) fetchMore(seq int) tea.Cmd {
	feed, ctx, count := m.svc.Feed, m.ctx, m.settings.LoadMoreCount
	exclude := m.ctrl.Playlist().IDs()
	return func() tea.Msg {
		clips, err := feed.NextClips(ctx, count, exclude)
		return MoreClipsMsg{Clips: clips, Err: err, ReqSeq: seq}
	}
}

func (m Model) setLike(clipID int64, liked bool) tea.Cmd {
	eng, ctx := m.svc.Engagement, m.ctx
	return func() tea.Msg {
		var err error
		if liked {
			err = eng.Like(ctx, clipID)
		} else {
			err = eng.Unlike(ctx, clipID)
		}
		return LikeResultMsg{ClipID: clipID, Liked: liked, Err: err}
	}
}

func (m Model) sendMetrics(metrics ...domain.Metric) tea.Cmd {
	if len(metrics) == 0 {
		return nil
	}
	eng, ctx := m.svc.Engagement, m.ctx
	return func() tea.Msg {
		err := eng.SendMetrics(ctx, metrics)
		return MetricsSentMsg{Count: len(metrics), Err: err}
	}
}

// sendFinalMetric runs detached from the model context, which is already
// cancelled when it is issued.
func (m Model) sendFinalMetric(metric domain.Metric) tea.Cmd {
	eng, log := m.svc.Engagement, m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), finalMetricTimeout)
		defer cancel()
		err := eng.SendMetrics(ctx, []domain.Metric{metric})
		if err != nil {
			log.Warn("final metric not sent", "clip_id", metric.VideoID, "err", err)
		}
		return MetricsSentMsg{Count: 1, Err: err}
	}
}

func (m Model) probeDurations(clips []domain.Clip) tea.Cmd {
	if m.svc.Prober == nil {
		return nil
	}
	prober, ctx := m.svc.Prober, m.ctx
	var cmds []tea.Cmd
	for _, c := range clips {
		if m.probed[c.ID] {
			continue
		}
		m.probed[c.ID] = true
		id, url := c.ID, c.ClipURL
		cmds = append(cmds, func() tea.Msg {
			d, err := prober.Duration(ctx, url)
			return DurationProbedMsg{ClipID: id, Duration: d, Err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (m Model) openExternal(clip domain.Clip) tea.Cmd {
	if m.svc.Open == nil {
		return nil
	}
	open := m.svc.Open
	return func() tea.Msg {
		return OpenedMsg{ClipID: clip.ID, Err: open(clip.ClipURL)}
	}
}

func (m Model) schedulePoll() tea.Cmd {
	id, ok := m.ctrl.Current()
	if !ok {
		return nil
	}
	gen := m.pollGen
	return tea.Tick(m.settings.PollInterval, func(time.Time) tea.Msg {
		return pollMsg{gen: gen, clipID: id}
	})
}

func (m Model) scheduleSettle() tea.Cmd {
	seq := m.settleSeq
	return tea.Tick(m.view.Dwell(), func(time.Time) tea.Msg {
		return settleMsg{seq: seq}
	})
}
