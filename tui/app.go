package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/clipzy/app"
	"github.com/CrestNiraj12/clipzy/infra/config"
	"github.com/CrestNiraj12/clipzy/infra/editor"
	"github.com/CrestNiraj12/clipzy/playback"
	"github.com/CrestNiraj12/clipzy/tui/comments"
	"github.com/CrestNiraj12/clipzy/tui/common"
	"github.com/CrestNiraj12/clipzy/tui/feed"
	"github.com/CrestNiraj12/clipzy/tui/share"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed     feed.Services
	Comments app.CommentService
	Share    app.ShareService
	Session  app.Session // optional
	Editor   *editor.EnvEditor
	Settings config.Feed
	Clock    playback.Clock
	Player   feed.Player
	Logger   *slog.Logger
}

type activeView int

const (
	feedView activeView = iota
	commentsView
	shareView
)

// App is the root Bubble Tea model. It routes between the feed and the
// comments and share sheets.
type App struct {
	deps     Deps
	ctx      context.Context
	cancel   context.CancelFunc
	active   activeView
	feed     feed.Model
	comments comments.Model
	share    share.Model
	keys     common.KeyMap
	size     tea.WindowSizeMsg
	quitting bool
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Feed.Logger == nil {
		deps.Feed.Logger = deps.Logger
	}
	ctx, cancel := context.WithCancel(context.Background())
	return App{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		active: feedView,
		feed:   feed.New(deps.Feed, deps.Settings, deps.Clock, deps.Player),
		keys:   common.DefaultKeyMap(),
	}
}

// Init starts the feed and greets the signed-in user.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.feed.Init()}
	if a.deps.Session != nil {
		if user := a.deps.Session.User(); user != "" {
			cmds = append(cmds, func() tea.Msg {
				return feed.NoticeMsg{Text: "Signed in as @" + user}
			})
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.quitting {
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a.quit()
		}
		if a.active == feedView {
			return a.handleFeedKey(msg)
		}
		return a.updateSheet(msg)

	case tea.MouseMsg:
		if a.active == feedView {
			return a.updateFeed(msg)
		}
		return a.updateSheet(msg)

	case tea.WindowSizeMsg:
		a.size = msg
		var fcmd, scmd tea.Cmd
		a.feed, fcmd = a.feed.Update(msg)
		a, scmd = a.updateSheet(msg)
		return a, tea.Batch(fcmd, scmd)

	case spinner.TickMsg:
		// spinners ignore ticks addressed to another instance
		var fcmd, scmd tea.Cmd
		a.feed, fcmd = a.feed.Update(msg)
		if a.active == shareView {
			a.share, scmd = a.share.Update(msg)
		}
		return a, tea.Batch(fcmd, scmd)

	case comments.ClosedMsg, share.ClosedMsg:
		a.active = feedView
		return a, nil

	case comments.LoadedMsg:
		if a.active != commentsView {
			return a, nil
		}
		return a.updateSheet(msg)

	case comments.PostResultMsg:
		var cmds []tea.Cmd
		if msg.Err == nil {
			var cmd tea.Cmd
			a.feed, cmd = a.feed.Update(feed.CommentedMsg{ClipID: msg.ClipID})
			cmds = append(cmds, cmd)
		}
		if a.active == commentsView {
			var cmd tea.Cmd
			a.comments, cmd = a.comments.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case share.RecipientsLoadedMsg:
		if a.active != shareView {
			return a, nil
		}
		return a.updateSheet(msg)

	case share.SharedMsg:
		if a.active == shareView && a.share.ClipID() == msg.ClipID {
			a.share, _ = a.share.Update(msg)
			a.active = feedView
		}
		return a.updateFeed(feed.NoticeMsg{Text: shareSummary(msg.Result)})
	}

	// Feed messages keep flowing while a sheet is open so playback and
	// loads stay consistent.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	cmds = append(cmds, cmd)
	if a.active != feedView {
		a, cmd = a.updateSheet(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleFeedKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.feed.ShowingHelp() {
		return a.updateFeed(msg)
	}
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Comments):
		clip, ok := a.feed.CurrentClip()
		if !ok {
			return a, nil
		}
		a.comments = comments.New(a.ctx, a.deps.Comments, a.deps.Editor, a.deps.Logger, clip, a.deps.Settings.NoticeTTL)
		a.active = commentsView
		a, _ = a.resizeSheet()
		return a, a.comments.Init()
	case key.Matches(msg, a.keys.Share):
		clip, ok := a.feed.CurrentClip()
		if !ok {
			return a, nil
		}
		a.share = share.New(a.ctx, a.deps.Share, a.deps.Logger, clip)
		a.active = shareView
		a, _ = a.resizeSheet()
		return a, a.share.Init()
	}
	return a.updateFeed(msg)
}

func (a App) updateFeed(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	return a, cmd
}

func (a App) updateSheet(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case commentsView:
		a.comments, cmd = a.comments.Update(msg)
	case shareView:
		a.share, cmd = a.share.Update(msg)
	}
	return a, cmd
}

func (a App) resizeSheet() (App, tea.Cmd) {
	if a.size.Width == 0 {
		return a, nil
	}
	return a.updateSheet(a.size)
}

// quit tears the feed down, sends its final metric and then exits.
func (a App) quit() (App, tea.Cmd) {
	a.quitting = true
	var final tea.Cmd
	a.feed, final = a.feed.Teardown()
	a.cancel()
	if final == nil {
		return a, tea.Quit
	}
	return a, tea.Sequence(final, tea.Quit)
}

func shareSummary(res share.Result) string {
	switch {
	case len(res.Sent) == 0 && len(res.Failed) == 0:
		return "Nothing shared."
	case len(res.Failed) == 0:
		return fmt.Sprintf("Shared with %s.", strings.Join(res.Sent, ", "))
	case len(res.Sent) == 0:
		return "Sharing failed."
	default:
		return fmt.Sprintf("Shared with %d, %d failed.", len(res.Sent), len(res.Failed))
	}
}

// View renders the active sub-model.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	switch a.active {
	case commentsView:
		return a.comments.View()
	case shareView:
		return a.share.View()
	}
	return a.feed.View()
}
