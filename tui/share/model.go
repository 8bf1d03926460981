package share

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/clipzy/app"
	"github.com/CrestNiraj12/clipzy/domain"
	"github.com/CrestNiraj12/clipzy/tui/common"
)

// RecipientsLoadedMsg carries the share targets.
type RecipientsLoadedMsg struct {
	Recipients []domain.Recipient
	Err        error
}

// SharedMsg is sent when every selected recipient was tried.
type SharedMsg struct {
	ClipID int64
	Result Result
}

// ClosedMsg asks the root to dismiss the sheet.
type ClosedMsg struct{}

// Model is the share picker for one clip.
type Model struct {
	ctx  context.Context
	svc  app.ShareService
	log  *slog.Logger
	keys common.KeyMap

	clip       domain.Clip
	recipients []domain.Recipient
	selected   map[int]bool
	cursor     int
	loading    bool
	sending    bool
	err        error
	hint       string

	spinner spinner.Model
	width   int
	height  int
}

// New creates the picker for clip.
func New(ctx context.Context, svc app.ShareService, log *slog.Logger, clip domain.Clip) Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(common.Accent)
	return Model{
		ctx:      ctx,
		svc:      svc,
		log:      log,
		keys:     common.DefaultKeyMap(),
		clip:     clip,
		selected: make(map[int]bool),
		loading:  true,
		spinner:  s,
		width:    80,
		height:   24,
	}
}

// Init loads the recipients.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchRecipients(), m.spinner.Tick)
}

// ClipID returns the clip being shared.
func (m Model) ClipID() int64 {
	return m.clip.ID
}

// Selected returns the chosen recipients in list order.
func (m Model) Selected() []domain.Recipient {
	var out []domain.Recipient
	for i, r := range m.recipients {
		if m.selected[i] {
			out = append(out, r)
		}
	}
	return out
}

// Sending reports whether the share loop is running.
func (m Model) Sending() bool {
	return m.sending
}

// Update handles messages for the share picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RecipientsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.log.Warn("share recipients not loaded", "err", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		m.recipients = msg.Recipients
		return m, nil

	case SharedMsg:
		m.sending = false
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return ClosedMsg{} }
		}
		if m.loading || m.sending {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Down):
			m.cursor = min(m.cursor+1, max(len(m.recipients)-1, 0))
		case key.Matches(msg, m.keys.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, m.keys.Select):
			if len(m.recipients) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
				m.hint = ""
			}
		case key.Matches(msg, m.keys.Submit):
			return m.send()
		}
	}
	return m, nil
}

func (m Model) send() (Model, tea.Cmd) {
	targets := m.Selected()
	if len(targets) == 0 {
		m.hint = "Pick at least one follower."
		return m, nil
	}
	m.sending = true
	return m, tea.Batch(m.shareTo(targets), m.spinner.Tick)
}

func (m Model) fetchRecipients() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		rs, err := svc.Recipients(ctx)
		return RecipientsLoadedMsg{Recipients: rs, Err: err}
	}
}

func (m Model) shareTo(targets []domain.Recipient) tea.Cmd {
	svc, ctx, log, id := m.svc, m.ctx, m.log, m.clip.ID
	return func() tea.Msg {
		return SharedMsg{ClipID: id, Result: ToFollowers(ctx, svc, log, id, targets)}
	}
}
