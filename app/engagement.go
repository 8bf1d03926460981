package app

import (
	"context"

	"github.com/CrestNiraj12/clipzy/domain"
)

// EngagementService records likes and watch metrics.
type EngagementService interface {
	Like(ctx context.Context, clipID int64) error
	Unlike(ctx context.Context, clipID int64) error

	// SendMetrics submits metric records in one batch.
	SendMetrics(ctx context.Context, metrics []domain.Metric) error
}

// CommentService lists and posts clip comments.
type CommentService interface {
	Comments(ctx context.Context, clipID int64) ([]domain.Comment, error)

	// AddComment posts a comment. A refusal reported in the response body
	// is returned as *domain.RejectedError.
	AddComment(ctx context.Context, clipID int64, content string) (domain.Comment, error)
}

// ShareService delivers clips to followers over direct messages.
type ShareService interface {
	Recipients(ctx context.Context) ([]domain.Recipient, error)

	// CreateRoom creates or returns the direct-message room with userID.
	CreateRoom(ctx context.Context, userID int64) (int64, error)

	SendMessage(ctx context.Context, roomID int64, clipID int64, content string) error
}
