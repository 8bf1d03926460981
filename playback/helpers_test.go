package playback

import (
	"strconv"
	"time"

	"github.com/CrestNiraj12/clipzy/domain"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakePlayer struct {
	statuses map[int64]Status
	calls    []string
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{statuses: make(map[int64]Status)}
}

func (p *fakePlayer) Play(id int64) {
	st := p.statuses[id]
	st.Playing = true
	p.statuses[id] = st
	p.calls = append(p.calls, "play:"+itoa(id))
}

func (p *fakePlayer) Pause(id int64) {
	st := p.statuses[id]
	st.Playing = false
	p.statuses[id] = st
	p.calls = append(p.calls, "pause:"+itoa(id))
}

func (p *fakePlayer) Status(id int64) Status { return p.statuses[id] }

func (p *fakePlayer) setDuration(id int64, d time.Duration) {
	st := p.statuses[id]
	st.Duration = d
	p.statuses[id] = st
}

func (p *fakePlayer) setPosition(id int64, pos time.Duration) {
	st := p.statuses[id]
	st.Position = pos
	p.statuses[id] = st
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func clip(id int64, cats ...string) domain.Clip {
	return domain.Clip{ID: id, ClipURL: "https://cdn.example/" + itoa(id) + ".mp4", Categories: cats}
}
