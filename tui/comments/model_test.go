package comments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/clipzy/domain"
	"github.com/CrestNiraj12/clipzy/infra/clipzy"
)

type stubComments struct {
	mu       sync.Mutex
	list     []domain.Comment
	listErr  error
	postErr  error
	posted   []string
	returned domain.Comment
}

func (s *stubComments) Comments(context.Context, int64) ([]domain.Comment, error) {
	return s.list, s.listErr
}

func (s *stubComments) AddComment(_ context.Context, _ int64, content string) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, content)
	if s.postErr != nil {
		return domain.Comment{}, s.postErr
	}
	c := s.returned
	c.Text = content
	return c, nil
}

func newSheet(svc *stubComments) Model {
	m := New(context.Background(), svc, nil, nil, domain.Clip{ID: 7, Caption: "sunset", Creator: "maker"}, time.Hour)
	m, _ = m.Update(m.fetchComments()())
	return m
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// submit types content and runs the resulting post command.
func submit(t *testing.T, m Model, content string) (Model, PostResultMsg) {
	t.Helper()
	m.input.SetValue(content)
	m, cmd := m.Update(enter())
	if cmd == nil {
		t.Fatalf("expected a post command")
	}
	if !m.Posting() {
		t.Fatalf("expected posting state while the request runs")
	}
	res, ok := cmd().(PostResultMsg)
	if !ok {
		t.Fatalf("expected PostResultMsg")
	}
	m, _ = m.Update(res)
	return m, res
}

func TestLoadFailure_ShowsEmptyListWithoutError(t *testing.T) {
	m := newSheet(&stubComments{listErr: errors.New("boom")})

	if len(m.Comments()) != 0 {
		t.Fatalf("expected empty list on failure")
	}
	out := ansi.Strip(m.View())
	if !strings.Contains(out, "No comments yet") || strings.Contains(out, "boom") {
		t.Fatalf("failure must render as an empty list:\n%s", out)
	}
}

func TestLoad_IgnoresOtherClip(t *testing.T) {
	m := newSheet(&stubComments{list: []domain.Comment{{ID: 1, User: "a", Text: "hi"}}})

	m, _ = m.Update(LoadedMsg{ClipID: 99, Comments: nil})
	if len(m.Comments()) != 1 {
		t.Fatalf("results for another clip must be ignored")
	}
}

func TestPost_SuccessPrependsAndClearsInput(t *testing.T) {
	svc := &stubComments{
		list:     []domain.Comment{{ID: 1, User: "a", Text: "older"}},
		returned: domain.Comment{ID: 2, User: "me"},
	}
	m := newSheet(svc)

	m, res := submit(t, m, "  fire clip  ")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if svc.posted[0] != "fire clip" {
		t.Fatalf("content must be trimmed before posting, got %q", svc.posted[0])
	}
	got := m.Comments()
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("new comment must be first: %+v", got)
	}
	if m.input.Value() != "" || m.Posting() || m.Banner() != "" {
		t.Fatalf("expected cleared input and no banner")
	}
}

func TestPost_RejectionShowsServerMessage(t *testing.T) {
	svc := &stubComments{
		list:    []domain.Comment{{ID: 1, User: "a", Text: "older"}},
		postErr: &domain.RejectedError{Message: "Comment contains blocked words"},
	}
	m := newSheet(svc)

	m, _ = submit(t, m, "bad words")
	if m.Banner() != "Comment contains blocked words" {
		t.Fatalf("expected server message banner, got %q", m.Banner())
	}
	if len(m.Comments()) != 1 {
		t.Fatalf("list must stay unchanged on rejection")
	}
	if m.input.Value() != "bad words" {
		t.Fatalf("draft must be kept for editing")
	}
}

func TestPost_TransportFailureShowsGenericBanner(t *testing.T) {
	svc := &stubComments{postErr: &clipzy.APIError{Method: "POST", Path: "/comments/addComment/", Status: 502}}
	m := newSheet(svc)

	m, _ = submit(t, m, "hello")
	if m.Banner() != failedToPost {
		t.Fatalf("expected generic failure banner, got %q", m.Banner())
	}
}

func TestBanner_ExpiresOnlyForLatestNotice(t *testing.T) {
	m := newSheet(&stubComments{postErr: errors.New("down")})

	m, _ = submit(t, m, "one")
	first := m.bannerSeq
	m, _ = submit(t, m, "two")

	m, _ = m.Update(bannerExpiredMsg{seq: first})
	if m.Banner() == "" {
		t.Fatalf("older timer must not hide the newer banner")
	}
	m, _ = m.Update(bannerExpiredMsg{seq: m.bannerSeq})
	if m.Banner() != "" {
		t.Fatalf("banner must auto-dismiss")
	}
}

func TestSubmit_IgnoresBlankAndRepeat(t *testing.T) {
	svc := &stubComments{}
	m := newSheet(svc)

	m.input.SetValue("   ")
	if _, cmd := m.Update(enter()); cmd != nil {
		t.Fatalf("blank comment must not be sent")
	}

	m.input.SetValue("once")
	m, cmd := m.Update(enter())
	if cmd == nil {
		t.Fatalf("expected post command")
	}
	if _, again := m.Update(enter()); again != nil {
		t.Fatalf("second submit while posting must be ignored")
	}
}

func TestEsc_Closes(t *testing.T) {
	m := newSheet(&stubComments{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Fatalf("expected ClosedMsg")
	}
}

func TestView_ListsComments(t *testing.T) {
	m := newSheet(&stubComments{list: []domain.Comment{
		{ID: 1, User: "ana", Text: "so good"},
		{ID: 2, User: "bo", Text: "again!"},
	}})

	out := ansi.Strip(m.View())
	for _, want := range []string{"@ana", "so good", "@bo", "again!", "sunset"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}
