package playback

import (
	"testing"
	"time"

	"github.com/CrestNiraj12/clipzy/domain"
)

func newTestController() (*Controller, *fakeClock, *fakePlayer) {
	clk := newFakeClock()
	pl := newFakePlayer()
	return NewController(clk, pl, Options{}), clk, pl
}

func TestController_LoadStartsFirstClip(t *testing.T) {
	c, _, pl := newTestController()
	kept, prefetch := c.Load([]domain.Clip{clip(1), clip(2)})

	if len(kept) != 2 || prefetch {
		t.Fatalf("unexpected load result: %d clips prefetch=%v", len(kept), prefetch)
	}
	if id, ok := c.Current(); !ok || id != 1 {
		t.Fatalf("expected clip 1 current, got %d", id)
	}
	if !c.State(1).Playing || c.State(2).Playing {
		t.Fatalf("only the first clip may play")
	}
	if !pl.statuses[1].Playing {
		t.Fatalf("player must be started for clip 1")
	}
}

func TestController_LoadSingleClipRequestsMore(t *testing.T) {
	c, _, _ := newTestController()
	if _, prefetch := c.Load([]domain.Clip{clip(1)}); !prefetch {
		t.Fatalf("a one-clip feed must prefetch immediately")
	}
}

func TestController_SwitchEmitsMetricBeforeReset(t *testing.T) {
	c, clk, pl := newTestController()
	pl.setDuration(1, 10*time.Second)
	pl.setDuration(2, 10*time.Second)
	c.Load([]domain.Clip{clip(1, "comedy"), clip(2)})

	clk.Advance(5 * time.Second)
	tr, ok := c.Activate(2)
	if !ok {
		t.Fatalf("expected a transition")
	}
	if tr.Outgoing == nil {
		t.Fatalf("expected a metric for clip 1")
	}
	want := domain.Metric{VideoID: 1, Categories: []string{"comedy"}, WatchPercentage: 50}
	got := *tr.Outgoing
	if got.VideoID != want.VideoID || got.WatchPercentage != want.WatchPercentage || got.Liked || got.Commented {
		t.Fatalf("unexpected metric: %+v", got)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "comedy" {
		t.Fatalf("expected categories to be carried: %+v", got)
	}
	if id, _ := c.tracker.ClipID(); id != 2 {
		t.Fatalf("tracker must follow clip 2 after the switch")
	}
	if c.tracker.Accumulated() != 0 || !c.tracker.Open() {
		t.Fatalf("tracker must start fresh for clip 2")
	}
}

func TestController_NoMetricWithoutWatchTimeOrDuration(t *testing.T) {
	c, clk, pl := newTestController()
	c.Load([]domain.Clip{clip(1), clip(2), clip(3)})

	clk.Advance(5 * time.Second) // duration unknown
	tr, _ := c.Activate(2)
	if tr.Outgoing != nil {
		t.Fatalf("unknown duration must skip the metric, got %+v", tr.Outgoing)
	}

	pl.setDuration(2, 10*time.Second)
	tr, _ = c.Activate(3) // no time passed
	if tr.Outgoing != nil {
		t.Fatalf("zero watch time must not be reported, got %+v", tr.Outgoing)
	}
}

func TestController_AtMostOnePlayingAcrossSwitches(t *testing.T) {
	c, clk, _ := newTestController()
	c.Load([]domain.Clip{clip(1), clip(2), clip(3), clip(4)})

	for _, id := range []int64{3, 1, 4, 4, 2, 99, 1} {
		clk.Advance(300 * time.Millisecond)
		c.Activate(id)
		if n := c.PlayingCount(); n > 1 {
			t.Fatalf("more than one playing clip after activating %d: %d", id, n)
		}
		c.TogglePlay()
		if n := c.PlayingCount(); n > 1 {
			t.Fatalf("more than one playing clip after toggle: %d", n)
		}
	}
}

func TestController_PauseStopsAccumulation(t *testing.T) {
	c, clk, pl := newTestController()
	pl.setDuration(1, 10*time.Second)
	c.Load([]domain.Clip{clip(1), clip(2)})

	clk.Advance(2 * time.Second)
	if playing, ok := c.TogglePlay(); !ok || playing {
		t.Fatalf("expected pause")
	}
	clk.Advance(30 * time.Second)
	if playing, _ := c.TogglePlay(); !playing {
		t.Fatalf("expected resume")
	}
	clk.Advance(2 * time.Second)

	tr, _ := c.Activate(2)
	if tr.Outgoing == nil || tr.Outgoing.WatchPercentage != 40 {
		t.Fatalf("expected 40%% watched, got %+v", tr.Outgoing)
	}
}

func TestController_PrefetchOncePerClip(t *testing.T) {
	c, _, pl := newTestController()
	c.Load([]domain.Clip{clip(1), clip(2)})

	tr, _ := c.Activate(2)
	if !tr.Prefetch {
		t.Fatalf("reaching the last clip must prefetch")
	}

	pl.setDuration(2, 10*time.Second)
	pl.setPosition(2, 9800*time.Millisecond)
	s, ok := c.Poll(2)
	if !ok {
		t.Fatalf("poll for current clip must be accepted")
	}
	if s.Prefetch {
		t.Fatalf("near-end poll must not prefetch the same clip twice")
	}
	if s.Progress < 0.97 {
		t.Fatalf("unexpected progress: %v", s.Progress)
	}
}

func TestController_PollNearEndTriggers(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "mid clip", status: Status{Position: 4 * time.Second, Duration: 10 * time.Second}},
		{name: "remaining under 500ms", status: Status{Position: 2600 * time.Millisecond, Duration: 3 * time.Second}, want: true},
		{name: "progress 95%", status: Status{Position: 57 * time.Second, Duration: 60 * time.Second}, want: true},
		{name: "finished", status: Status{Finished: true}, want: true},
		{name: "unknown duration", status: Status{Position: 9 * time.Second}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _, pl := newTestController()
			c.Load([]domain.Clip{clip(1), clip(2), clip(3)})
			pl.statuses[1] = tc.status

			s, ok := c.Poll(1)
			if !ok || s.Prefetch != tc.want {
				t.Fatalf("got prefetch=%v ok=%v want %v", s.Prefetch, ok, tc.want)
			}
			again, _ := c.Poll(1)
			if again.Prefetch {
				t.Fatalf("second poll must be suppressed")
			}
		})
	}
}

func TestController_StalePollIgnored(t *testing.T) {
	c, _, _ := newTestController()
	c.Load([]domain.Clip{clip(1), clip(2), clip(3)})
	c.Activate(2)

	if _, ok := c.Poll(1); ok {
		t.Fatalf("poll for a clip that is no longer current must be rejected")
	}
}

func TestController_RefreshClearsPrefetchSet(t *testing.T) {
	c, _, _ := newTestController()
	c.Load([]domain.Clip{clip(1), clip(2)})
	c.Activate(2)
	if !c.Prefetched(2) {
		t.Fatalf("expected prefetch recorded")
	}

	c.Load([]domain.Clip{clip(1), clip(2)})
	if c.Prefetched(2) {
		t.Fatalf("refresh must clear the prefetch set")
	}
	if tr, _ := c.Activate(2); !tr.Prefetch {
		t.Fatalf("prefetch must fire again after refresh")
	}
}

func TestController_LeaveFinalizesCurrent(t *testing.T) {
	c, clk, pl := newTestController()
	pl.setDuration(1, 4*time.Second)
	c.Load([]domain.Clip{clip(1), clip(2)})
	c.SetLiked(1, true)

	clk.Advance(time.Second)
	m := c.Leave()
	if m == nil || m.WatchPercentage != 25 || !m.Liked {
		t.Fatalf("unexpected leave metric: %+v", m)
	}
	if _, ok := c.Current(); ok {
		t.Fatalf("no clip may be current after leave")
	}
	if c.Leave() != nil {
		t.Fatalf("second leave must be a no-op")
	}
}

func TestController_AppendRegistersState(t *testing.T) {
	c, _, _ := newTestController()
	c.Load([]domain.Clip{clip(1), clip(2), clip(3)})

	added := c.Append([]domain.Clip{clip(2), clip(4)})
	if len(added) != 1 || added[0].ID != 4 {
		t.Fatalf("expected only clip 4 appended, got %#v", added)
	}
	if c.Playlist().Len() != 4 {
		t.Fatalf("expected 4 held clips, got %d", c.Playlist().Len())
	}
	if _, ok := c.Activate(4); !ok {
		t.Fatalf("appended clip must be activatable")
	}
}

func TestController_EngagementMetrics(t *testing.T) {
	c, _, _ := newTestController()
	c.Load([]domain.Clip{clip(3, "music")})

	like := c.LikeMetric(3, true)
	if like.WatchPercentage != 0 || !like.Liked || like.Commented || like.Categories[0] != "music" {
		t.Fatalf("unexpected like metric: %+v", like)
	}
	cm := c.CommentMetric(3)
	if !cm.Commented || cm.WatchPercentage != 0 {
		t.Fatalf("unexpected comment metric: %+v", cm)
	}
}
