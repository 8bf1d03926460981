package app

import (
	"context"

	"github.com/CrestNiraj12/clipzy/domain"
)

// FeedService fetches clips for the vertical feed.
type FeedService interface {
	// NextClips returns up to count recommended clips, skipping excludeIDs.
	NextClips(ctx context.Context, count int, excludeIDs []int64) ([]domain.Clip, error)

	// NewCreators returns recent clips from creators the user may not know yet.
	NewCreators(ctx context.Context) ([]domain.Clip, error)

	// LikedClipIDs returns the IDs of every clip the user has liked.
	LikedClipIDs(ctx context.Context) (map[int64]bool, error)
}
