package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/clipzy/app"
	"github.com/CrestNiraj12/clipzy/domain"
	"github.com/CrestNiraj12/clipzy/infra/config"
	"github.com/CrestNiraj12/clipzy/playback"
	"github.com/CrestNiraj12/clipzy/tui/common"
)

// finalMetricTimeout bounds the metric sent while the program exits.
const finalMetricTimeout = 2 * time.Second

// Player is the playback surface the feed drives.
type Player interface {
	playback.Player
	SetDuration(clipID int64, d time.Duration)
	Forget(clipID int64)
}

// DurationProber discovers clip durations.
type DurationProber interface {
	Duration(ctx context.Context, rawURL string) (time.Duration, error)
}

// Services are the collaborators of the feed model.
type Services struct {
	Feed       app.FeedService
	Engagement app.EngagementService
	Prober     DurationProber     // optional
	Open       func(string) error // optional, opens a clip externally
	Logger     *slog.Logger
}

// ClipsLoadedMsg is sent when an initial or refresh load completes.
type ClipsLoadedMsg struct {
	Clips  []domain.Clip
	ReqSeq int
}

// ClipsErrorMsg is sent when an initial or refresh load fails.
type ClipsErrorMsg struct {
	Err    error
	ReqSeq int
}

// MoreClipsMsg carries the result of a fetch-next.
type MoreClipsMsg struct {
	Clips  []domain.Clip
	Err    error
	ReqSeq int
}

// CreatorsLoadedMsg carries the new-creators strip.
type CreatorsLoadedMsg struct {
	Clips  []domain.Clip
	Err    error
	ReqSeq int
}

// LikedLoadedMsg carries the server's liked clip IDs. ClipIDs limits the
// reconcile to those clips; nil covers every held clip.
type LikedLoadedMsg struct {
	Liked   map[int64]bool
	ClipIDs []int64
	Err     error
	ReqSeq  int
}

// LikeResultMsg is sent after a like or unlike request.
type LikeResultMsg struct {
	ClipID int64
	Liked  bool
	Err    error
}

// MetricsSentMsg is sent after a metrics submission.
type MetricsSentMsg struct {
	Count int
	Err   error
}

// DurationProbedMsg carries a probed clip duration.
type DurationProbedMsg struct {
	ClipID   int64
	Duration time.Duration
	Err      error
}

// OpenedMsg is sent after trying to open a clip externally.
type OpenedMsg struct {
	ClipID int64
	Err    error
}

// CommentedMsg tells the feed a comment on ClipID was accepted.
type CommentedMsg struct {
	ClipID int64
}

// NoticeMsg shows a transient line in the footer.
type NoticeMsg struct {
	Text string
}

type noticeExpiredMsg struct {
	seq int
}

type settleMsg struct {
	seq int
}

type pollMsg struct {
	gen    int
	clipID int64
}

type modelServices struct {
	svc Services
	log *slog.Logger
	ctx context.Context
	// cancel aborts every in-flight command when the feed is torn down.
	cancel context.CancelFunc
}

type feedState struct {
	settings    config.Feed
	creators    []domain.Clip
	loading     bool
	loadingMore int
	err         error
	reqSeq      int
	probed      map[int64]bool
	likePending map[int64]bool
	notice      string
	noticeSeq   int
}

type playbackState struct {
	clock     playback.Clock
	player    Player
	ctrl      *playback.Controller
	view      *playback.Viewability
	settleSeq int
	pollGen   int
}

type uiState struct {
	keys       common.KeyMap
	spinner    spinner.Model
	progress   progress.Model
	help       help.Model
	showHelp   bool
	width      int
	height     int
	scrollLine int
}

// Model holds the state for the clip feed.
type Model struct {
	modelServices
	feedState
	playbackState
	uiState
}

// New creates a feed model with injected dependencies.
func New(svc Services, settings config.Feed, clock playback.Clock, player Player) Model {
	log := svc.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(common.Accent)

	ctx, cancel := context.WithCancel(context.Background())
	opts := playback.Options{
		NearEnd: playback.NearEndRule{
			Remaining: settings.NearEndRemaining,
			Progress:  settings.NearEndProgress,
		},
	}

	return Model{
		modelServices: modelServices{
			svc:    svc,
			log:    log,
			ctx:    ctx,
			cancel: cancel,
		},
		feedState: feedState{
			settings:    settings,
			loading:     true,
			probed:      make(map[int64]bool),
			likePending: make(map[int64]bool),
		},
		playbackState: playbackState{
			clock:  clock,
			player: player,
			ctrl:   playback.NewController(clock, player, opts),
			view:   playback.NewViewability(settings.VisibilityThreshold, settings.MinDwell),
		},
		uiState: uiState{
			keys:     common.DefaultKeyMap(),
			spinner:  s,
			progress: progress.New(progress.WithGradient("#FF6600", "#ED8796"), progress.WithoutPercentage()),
			help:     help.New(),
			width:    80,
			height:   24,
		},
	}
}

// Init starts the initial load and the new-creators fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchInitial(m.reqSeq),
		m.fetchCreators(m.reqSeq),
		m.spinner.Tick,
	)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Teardown stops playback, cancels in-flight work and returns a command
// that submits the final watch metric of the current clip, if any.
func (m Model) Teardown() (Model, tea.Cmd) {
	final := m.ctrl.Leave()
	m.pollGen++
	m.settleSeq++
	m.cancel()
	if final == nil {
		return m, nil
	}
	return m, m.sendFinalMetric(*final)
}

// CurrentClip returns the clip that is currently playing or paused.
func (m Model) CurrentClip() (domain.Clip, bool) {
	id, ok := m.ctrl.Current()
	if !ok {
		return domain.Clip{}, false
	}
	return m.ctrl.Playlist().Get(id)
}

// Clips returns the held clips in order.
func (m Model) Clips() []domain.Clip {
	return m.ctrl.Playlist().Clips()
}

// State returns the UI state of a clip.
func (m Model) State(clipID int64) playback.ItemState {
	return m.ctrl.State(clipID)
}

// Loading reports whether the initial load is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the initial load error, if any.
func (m Model) Err() error {
	return m.err
}

// Notice returns the footer notice, if any.
func (m Model) Notice() string {
	return m.notice
}

// ShowingHelp reports whether the key dialog is open.
func (m Model) ShowingHelp() bool {
	return m.showHelp
}

func (m Model) closed() bool {
	return m.ctx.Err() != nil
}
