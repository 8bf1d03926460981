package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/clipzy/app"
	"github.com/CrestNiraj12/clipzy/domain"
	"github.com/CrestNiraj12/clipzy/infra/editor"
	"github.com/CrestNiraj12/clipzy/tui/common"
)

const failedToPost = "Failed to post comment."

// LoadedMsg carries the comments of a clip.
type LoadedMsg struct {
	ClipID   int64
	Comments []domain.Comment
	Err      error
}

// PostResultMsg is sent after a comment submission. A nil Err means the
// comment was accepted.
type PostResultMsg struct {
	ClipID  int64
	Comment domain.Comment
	Err     error
}

// ClosedMsg asks the root to dismiss the sheet.
type ClosedMsg struct{}

type editorFinishedMsg struct {
	tmpPath string
	err     error
}

type bannerExpiredMsg struct {
	seq int
}

// Model is the comments sheet for one clip.
type Model struct {
	ctx    context.Context
	svc    app.CommentService
	editor *editor.EnvEditor
	log    *slog.Logger
	keys   common.KeyMap
	ttl    time.Duration

	clip     domain.Clip
	comments []domain.Comment
	loading  bool
	posting  bool
	offset   int

	input     textarea.Model
	banner    string
	bannerSeq int

	width  int
	height int
}

// New creates the sheet for clip. ed may be nil to disable $EDITOR drafts.
func New(ctx context.Context, svc app.CommentService, ed *editor.EnvEditor, log *slog.Logger, clip domain.Clip, noticeTTL time.Duration) Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ta := textarea.New()
	ta.Placeholder = "Add a comment..."
	ta.CharLimit = domain.CommentMaxLength
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(3)
	ta.Focus()

	return Model{
		ctx:     ctx,
		svc:     svc,
		editor:  ed,
		log:     log,
		keys:    common.DefaultKeyMap(),
		ttl:     noticeTTL,
		clip:    clip,
		loading: true,
		input:   ta,
		width:   80,
		height:  24,
	}
}

// Init loads the comments and starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchComments(), textarea.Blink)
}

// ClipID returns the clip the sheet belongs to.
func (m Model) ClipID() int64 {
	return m.clip.ID
}

// Comments returns the listed comments, newest first.
func (m Model) Comments() []domain.Comment {
	return m.comments
}

// Banner returns the visible notice, if any.
func (m Model) Banner() string {
	return m.banner
}

// Posting reports whether a submission is in flight.
func (m Model) Posting() bool {
	return m.posting
}

// Update handles messages for the comments sheet.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(max(m.width-8, 20))
		return m, nil

	case LoadedMsg:
		if msg.ClipID != m.clip.ID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.log.Warn("comments not loaded", "clip_id", msg.ClipID, "err", msg.Err)
			m.comments = nil
			return m, nil
		}
		m.comments = msg.Comments
		return m, nil

	case PostResultMsg:
		if msg.ClipID != m.clip.ID {
			return m, nil
		}
		m.posting = false
		if msg.Err != nil {
			var rejected *domain.RejectedError
			if errors.As(msg.Err, &rejected) {
				return m.showBanner(rejected.Message)
			}
			m.log.Warn("comment not posted", "clip_id", msg.ClipID, "err", msg.Err)
			return m.showBanner(failedToPost)
		}
		m.comments = append([]domain.Comment{msg.Comment}, m.comments...)
		m.offset = 0
		m.input.Reset()
		return m, nil

	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.log.Warn("editor failed", "err", msg.err)
			return m.showBanner("Editor exited with an error.")
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			m.log.Warn("reading editor draft", "err", err)
			return m.showBanner("Could not read the draft.")
		}
		if content == "" {
			return m, nil
		}
		m.input.SetValue(content)
		return m.submit()

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.offset = min(m.offset+1, max(len(m.comments)-1, 0))
		case tea.MouseButtonWheelUp:
			m.offset = max(m.offset-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return ClosedMsg{} }
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Editor):
			return m.launchEditor()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.posting {
		return m, nil
	}
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	m.posting = true
	return m, m.postComment(content)
}

func (m Model) showBanner(text string) (Model, tea.Cmd) {
	m.banner = text
	m.bannerSeq++
	seq := m.bannerSeq
	return m, tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

// launchEditor hands the draft to $EDITOR. tea.ExecProcess releases the
// terminal while it runs.
func (m Model) launchEditor() (Model, tea.Cmd) {
	if m.editor == nil || m.posting {
		return m, nil
	}
	cmd, tmpPath, err := m.editor.Cmd(m.input.Value(), m.clip.Caption)
	if err != nil {
		m.log.Warn("preparing editor", "err", err)
		return m.showBanner("Could not start the editor.")
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

func (m Model) fetchComments() tea.Cmd {
	svc, ctx, id := m.svc, m.ctx, m.clip.ID
	return func() tea.Msg {
		comments, err := svc.Comments(ctx, id)
		return LoadedMsg{ClipID: id, Comments: comments, Err: err}
	}
}

func (m Model) postComment(content string) tea.Cmd {
	svc, ctx, id := m.svc, m.ctx, m.clip.ID
	return func() tea.Msg {
		c, err := svc.AddComment(ctx, id, content)
		if err != nil {
			err = fmt.Errorf("posting comment on clip %d: %w", id, err)
		}
		return PostResultMsg{ClipID: id, Comment: c, Err: err}
	}
}
