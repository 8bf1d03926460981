package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/clipzy/domain"
	"github.com/CrestNiraj12/clipzy/infra/config"
	"github.com/CrestNiraj12/clipzy/infra/player"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type nextCall struct {
	count   int
	exclude []int64
}

type stubFeed struct {
	mu       sync.Mutex
	pages    [][]domain.Clip
	err      error
	liked    map[int64]bool
	creators []domain.Clip
	calls    []nextCall
}

func (s *stubFeed) NextClips(_ context.Context, count int, exclude []int64) ([]domain.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, nextCall{count: count, exclude: append([]int64(nil), exclude...)})
	if s.err != nil {
		return nil, s.err
	}
	if len(s.pages) == 0 {
		return nil, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, nil
}

func (s *stubFeed) NewCreators(context.Context) ([]domain.Clip, error) {
	return s.creators, nil
}

func (s *stubFeed) LikedClipIDs(context.Context) (map[int64]bool, error) {
	return s.liked, nil
}

func (s *stubFeed) nextCalls() []nextCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]nextCall(nil), s.calls...)
}

type stubEngagement struct {
	mu      sync.Mutex
	likeErr error
	likes   []int64
	unlikes []int64
	metrics []domain.Metric
	ctxErrs []error
}

func (s *stubEngagement) Like(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes = append(s.likes, id)
	return s.likeErr
}

func (s *stubEngagement) Unlike(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlikes = append(s.unlikes, id)
	return s.likeErr
}

func (s *stubEngagement) SendMetrics(ctx context.Context, metrics []domain.Metric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, metrics...)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return nil
}

func (s *stubEngagement) sent() []domain.Metric {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Metric(nil), s.metrics...)
}

type stubProber struct {
	durations map[string]time.Duration
}

func (p stubProber) Duration(_ context.Context, url string) (time.Duration, error) {
	if d, ok := p.durations[url]; ok {
		return d, nil
	}
	return 0, errors.New("unknown")
}

type harness struct {
	clock  *fakeClock
	feed   *stubFeed
	eng    *stubEngagement
	player *player.Virtual
	m      Model
}

// testSettings keep real timers longer than runCmd waits, so tests deliver
// tick messages by hand.
func testSettings() config.Feed {
	s := config.DefaultFeed()
	s.PageSize = 3
	s.MinDwell = time.Second
	s.PollInterval = time.Hour
	return s
}

func newHarness(durations map[string]time.Duration) *harness {
	h := &harness{
		clock: &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
		feed:  &stubFeed{liked: map[int64]bool{}},
		eng:   &stubEngagement{},
	}
	h.player = player.NewVirtual(h.clock)
	h.m = New(Services{
		Feed:       h.feed,
		Engagement: h.eng,
		Prober:     stubProber{durations: durations},
	}, testSettings(), h.clock, h.player)
	h.m.width, h.m.height = 80, 25
	return h
}

func clip(id int64, cats ...string) domain.Clip {
	return domain.Clip{
		ID:         id,
		ClipURL:    fmt.Sprintf("https://cdn.example/%d.mp4", id),
		Caption:    "clip caption",
		Categories: cats,
		Creator:    "maker",
	}
}

// send applies msg and then every message its command produces, depth
// first, until nothing new arrives.
func (h *harness) send(msg tea.Msg) {
	var cmd tea.Cmd
	h.m, cmd = h.m.Update(msg)
	for _, out := range runCmd(cmd) {
		h.send(out)
	}
}

// load runs Init with the given first page.
func (h *harness) load(clips ...domain.Clip) {
	h.feed.mu.Lock()
	h.feed.pages = append([][]domain.Clip{clips}, h.feed.pages...)
	h.feed.mu.Unlock()
	for _, out := range runCmd(h.m.Init()) {
		h.send(out)
	}
}

// runCmd executes cmd and flattens batches, running batch members
// concurrently. Commands that do not return promptly (timers) and spinner
// ticks are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		results := make([][]tea.Msg, len(msg))
		var wg sync.WaitGroup
		for i, c := range msg {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = runCmd(c)
			}()
		}
		wg.Wait()
		var out []tea.Msg
		for _, r := range results {
			out = append(out, r...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// settle delivers the pending dwell timer after advancing past the dwell.
func (h *harness) settle() {
	h.clock.Advance(h.m.settings.MinDwell)
	h.send(settleMsg{seq: h.m.settleSeq})
}

func keyPress(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
