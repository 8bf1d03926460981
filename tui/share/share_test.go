package share

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/clipzy/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type sentMessage struct {
	roomID int64
	clipID int64
	text   string
}

type stubShare struct {
	mu         sync.Mutex
	recipients []domain.Recipient
	listErr    error
	roomErr    map[int64]error
	sendErr    map[int64]error
	nextRoom   int64
	created    []int64
	sent       []sentMessage
}

func (s *stubShare) Recipients(context.Context) ([]domain.Recipient, error) {
	return s.recipients, s.listErr
}

func (s *stubShare) CreateRoom(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, userID)
	if err := s.roomErr[userID]; err != nil {
		return 0, err
	}
	s.nextRoom++
	return 100 + s.nextRoom, nil
}

func (s *stubShare) SendMessage(_ context.Context, roomID, clipID int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sendErr[roomID]; err != nil {
		return err
	}
	s.sent = append(s.sent, sentMessage{roomID: roomID, clipID: clipID, text: content})
	return nil
}

func TestToFollowers_CreatesRoomsAndContinuesOnFailure(t *testing.T) {
	svc := &stubShare{
		roomErr: map[int64]error{2: errors.New("room refused")},
		sendErr: map[int64]error{30: errors.New("send refused")},
	}
	recipients := []domain.Recipient{
		{UserID: 1, Username: "ana"},
		{UserID: 2, Username: "bo"},
		{UserID: 3, RoomID: 30, Username: "cy"},
		{UserID: 4, RoomID: 40, Username: "di"},
	}

	res := ToFollowers(context.Background(), svc, discard(), 9, recipients)

	if len(svc.created) != 2 || svc.created[0] != 1 || svc.created[1] != 2 {
		t.Fatalf("rooms must be created only for recipients without one, got %v", svc.created)
	}
	if len(svc.sent) != 2 || svc.sent[0].roomID != 101 || svc.sent[1].roomID != 40 {
		t.Fatalf("unexpected sends: %+v", svc.sent)
	}
	for _, s := range svc.sent {
		if s.clipID != 9 || s.text != "" {
			t.Fatalf("share message must carry the clip and empty text: %+v", s)
		}
	}
	if strings.Join(res.Sent, ",") != "ana,di" || strings.Join(res.Failed, ",") != "bo,cy" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestToFollowers_StopsSendingAfterCancel(t *testing.T) {
	svc := &stubShare{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := ToFollowers(ctx, svc, discard(), 9, []domain.Recipient{{UserID: 1, RoomID: 5, Username: "ana"}})
	if len(svc.sent) != 0 || len(res.Failed) != 1 {
		t.Fatalf("cancelled share must not send: %+v", res)
	}
}

func loaded(t *testing.T, svc *stubShare) Model {
	t.Helper()
	m := New(context.Background(), svc, nil, domain.Clip{ID: 9, Caption: "sunset"})
	m, _ = m.Update(m.fetchRecipients()())
	return m
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestPicker_SelectsAndSharesSequentially(t *testing.T) {
	svc := &stubShare{recipients: []domain.Recipient{
		{UserID: 1, RoomID: 11, Username: "ana"},
		{UserID: 2, RoomID: 12, Username: "bo"},
		{UserID: 3, RoomID: 13, Username: "cy"},
	}}
	m := loaded(t, svc)

	m = press(m, " ", "j", "j", "x")
	sel := m.Selected()
	if len(sel) != 2 || sel[0].Username != "ana" || sel[1].Username != "cy" {
		t.Fatalf("unexpected selection: %+v", sel)
	}

	m, cmd := m.send()
	if !m.Sending() || cmd == nil {
		t.Fatalf("expected share to start")
	}
	res := m.shareTo(m.Selected())().(SharedMsg)
	if res.ClipID != 9 || len(res.Result.Sent) != 2 {
		t.Fatalf("unexpected share result: %+v", res)
	}
	if len(svc.sent) != 2 || svc.sent[0].roomID != 11 || svc.sent[1].roomID != 13 {
		t.Fatalf("messages must go out in list order: %+v", svc.sent)
	}
	m, _ = m.Update(res)
	if m.Sending() {
		t.Fatalf("sending must end after the result")
	}
}

func TestPicker_RequiresSelection(t *testing.T) {
	m := loaded(t, &stubShare{recipients: []domain.Recipient{{UserID: 1, Username: "ana"}}})

	m = press(m, "enter")
	if m.Sending() {
		t.Fatalf("nothing selected, nothing to send")
	}
	if !strings.Contains(ansi.Strip(m.View()), "Pick at least one follower.") {
		t.Fatalf("expected selection hint")
	}
}

func TestPicker_LoadFailureRendersMessage(t *testing.T) {
	m := loaded(t, &stubShare{listErr: errors.New("offline")})

	if !strings.Contains(ansi.Strip(m.View()), "Couldn't load followers.") {
		t.Fatalf("expected load failure message")
	}
	m = press(m, " ", "enter")
	if m.Sending() {
		t.Fatalf("no recipients, nothing to send")
	}
}

func TestPicker_EscCloses(t *testing.T) {
	m := loaded(t, &stubShare{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Fatalf("expected ClosedMsg")
	}
}
