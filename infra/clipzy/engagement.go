package clipzy

import (
	"context"
	"fmt"

	"github.com/CrestNiraj12/clipzy/domain"
)

// engagementService implements app.EngagementService.
type engagementService struct {
	client *Client
}

// NewEngagementService creates an EngagementService backed by the Clipzy API.
func NewEngagementService(client *Client) *engagementService {
	return &engagementService{client: client}
}

type videoRequest struct {
	VideoID int64 `json:"video_id"`
}

func (s *engagementService) Like(ctx context.Context, clipID int64) error {
	if err := s.client.PostJSON(ctx, "/features/addLikes/", videoRequest{VideoID: clipID}, nil); err != nil {
		return fmt.Errorf("liking clip %d: %w", clipID, err)
	}
	return nil
}

func (s *engagementService) Unlike(ctx context.Context, clipID int64) error {
	if err := s.client.PostJSON(ctx, "/features/unlikeVideo/", videoRequest{VideoID: clipID}, nil); err != nil {
		return fmt.Errorf("unliking clip %d: %w", clipID, err)
	}
	return nil
}

type metricsRequest struct {
	Metrics []domain.Metric `json:"metrics"`
}

func (s *engagementService) SendMetrics(ctx context.Context, metrics []domain.Metric) error {
	if len(metrics) == 0 {
		return nil
	}
	out := make([]domain.Metric, len(metrics))
	for i, m := range metrics {
		if m.Categories == nil {
			m.Categories = []string{}
		}
		out[i] = m
	}
	if err := s.client.PostJSON(ctx, "/posts/sendVideoMetrics/", metricsRequest{Metrics: out}, nil); err != nil {
		return fmt.Errorf("sending metrics: %w", err)
	}
	return nil
}
