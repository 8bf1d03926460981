package clipzy

import (
	"context"
	"fmt"
	"strings"

	"github.com/CrestNiraj12/clipzy/domain"
)

// shareService implements app.ShareService over the chat endpoints.
type shareService struct {
	client *Client
}

// NewShareService creates a ShareService backed by the Clipzy API.
func NewShareService(client *Client) *shareService {
	return &shareService{client: client}
}

type chatsResponse struct {
	ChatRooms []struct {
		RoomID   int64    `json:"room_id"`
		RoomName string   `json:"room_name"`
		Users    []string `json:"users"`
	} `json:"chat_rooms"`
	Following []struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
	} `json:"following"`
}

// Recipients lists existing chat rooms, or followed users when the account
// has no rooms yet.
func (s *shareService) Recipients(ctx context.Context) ([]domain.Recipient, error) {
	var resp chatsResponse
	if err := s.client.GetJSON(ctx, "/chat/getChats/", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching chats: %w", err)
	}

	out := make([]domain.Recipient, 0, len(resp.ChatRooms)+len(resp.Following))
	for _, r := range resp.ChatRooms {
		name := r.RoomName
		if name == "" {
			name = strings.Join(r.Users, ", ")
		}
		out = append(out, domain.Recipient{RoomID: r.RoomID, Username: sanitize(name)})
	}
	for _, f := range resp.Following {
		out = append(out, domain.Recipient{UserID: f.UserID, Username: sanitize(f.Username)})
	}
	return out, nil
}

type createRoomRequest struct {
	ParticipantID int64 `json:"participant_id"`
}

type createRoomResponse struct {
	RoomID     int64 `json:"room_id"`
	RoomExists bool  `json:"roomExists"`
}

func (s *shareService) CreateRoom(ctx context.Context, userID int64) (int64, error) {
	var resp createRoomResponse
	if err := s.client.PostJSON(ctx, "/chat/createRoom/", createRoomRequest{ParticipantID: userID}, &resp); err != nil {
		return 0, fmt.Errorf("creating room with %d: %w", userID, err)
	}
	if resp.RoomID == 0 {
		return 0, fmt.Errorf("creating room with %d: response has no room_id", userID)
	}
	return resp.RoomID, nil
}

type sendMessageRequest struct {
	RoomID  int64  `json:"room_id"`
	Content string `json:"content"`
	VideoID int64  `json:"video_id"`
}

func (s *shareService) SendMessage(ctx context.Context, roomID, clipID int64, content string) error {
	req := sendMessageRequest{RoomID: roomID, Content: content, VideoID: clipID}
	if err := s.client.PostJSON(ctx, "/chat/sendMessage/", req, nil); err != nil {
		return fmt.Errorf("sending clip %d to room %d: %w", clipID, roomID, err)
	}
	return nil
}
