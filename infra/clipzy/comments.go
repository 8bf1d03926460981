package clipzy

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CrestNiraj12/clipzy/domain"
)

// commentService implements app.CommentService.
type commentService struct {
	client *Client
}

// NewCommentService creates a CommentService backed by the Clipzy API.
func NewCommentService(client *Client) *commentService {
	return &commentService{client: client}
}

type apiComment struct {
	ID        int64  `json:"id"`
	User      string `json:"user"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func (c apiComment) toDomain() domain.Comment {
	return domain.Comment{
		ID:        c.ID,
		User:      sanitize(c.User),
		Text:      sanitize(c.Comment),
		CreatedAt: parseTime(c.CreatedAt),
	}
}

type commentsResponse struct {
	Comments []apiComment `json:"comments"`
}

func (s *commentService) Comments(ctx context.Context, clipID int64) ([]domain.Comment, error) {
	q := url.Values{}
	q.Set("videoId", strconv.FormatInt(clipID, 10))

	var resp commentsResponse
	if err := s.client.GetJSON(ctx, "/comments/getComments/", q, &resp); err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	out := make([]domain.Comment, 0, len(resp.Comments))
	for _, c := range resp.Comments {
		out = append(out, c.toDomain())
	}
	return out, nil
}

type addCommentRequest struct {
	VideoID int64  `json:"video_id"`
	Content string `json:"content"`
}

type addCommentResponse struct {
	Error   string      `json:"error"`
	Comment *apiComment `json:"comment"`
}

func (s *commentService) AddComment(ctx context.Context, clipID int64, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > domain.CommentMaxLength {
		return domain.Comment{}, domain.ErrCommentTooLong
	}

	var resp addCommentResponse
	req := addCommentRequest{VideoID: clipID, Content: content}
	if err := s.client.PostJSON(ctx, "/comments/addComment/", req, &resp); err != nil {
		return domain.Comment{}, fmt.Errorf("posting comment: %w", err)
	}
	if resp.Error != "" {
		return domain.Comment{}, &domain.RejectedError{Message: sanitize(resp.Error)}
	}
	if resp.Comment == nil {
		return domain.Comment{}, fmt.Errorf("posting comment: response has no comment")
	}
	return resp.Comment.toDomain(), nil
}
