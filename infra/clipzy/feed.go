package clipzy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CrestNiraj12/clipzy/domain"
)

// feedService implements app.FeedService.
type feedService struct {
	client *Client
}

// NewFeedService creates a FeedService backed by the Clipzy API.
func NewFeedService(client *Client) *feedService {
	return &feedService{client: client}
}

type apiClip struct {
	ID         int64    `json:"id"`
	Caption    string   `json:"caption"`
	ClipURL    string   `json:"clipUrl"`
	LikeCount  int      `json:"likeCount"`
	CreatedAt  string   `json:"created_at"`
	Categories []string `json:"categories"`
	User       string   `json:"user"`
}

type nextClipRequest struct {
	Count      int     `json:"count"`
	ExcludeIDs []int64 `json:"exclude_ids,omitempty"`
}

type clipsResponse struct {
	Clips []apiClip `json:"clips"`
}

func (s *feedService) NextClips(ctx context.Context, count int, excludeIDs []int64) ([]domain.Clip, error) {
	var resp clipsResponse
	req := nextClipRequest{Count: count, ExcludeIDs: excludeIDs}
	if err := s.client.PostJSON(ctx, "/posts/next_clip/", req, &resp); err != nil {
		return nil, fmt.Errorf("fetching clips: %w", err)
	}
	return mapClips(resp.Clips), nil
}

func (s *feedService) NewCreators(ctx context.Context) ([]domain.Clip, error) {
	var resp clipsResponse
	if err := s.client.GetJSON(ctx, "/features/fetchClips/", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching new creators: %w", err)
	}
	return mapClips(resp.Clips), nil
}

type likedResponse struct {
	LikedVideos []json.RawMessage `json:"liked_videos"`
}

// LikedClipIDs accepts both bare IDs and {"id": n} objects.
func (s *feedService) LikedClipIDs(ctx context.Context) (map[int64]bool, error) {
	var resp likedResponse
	if err := s.client.GetJSON(ctx, "/features/getLikedVideos/", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching liked clips: %w", err)
	}
	liked := make(map[int64]bool, len(resp.LikedVideos))
	for _, raw := range resp.LikedVideos {
		var id int64
		if err := json.Unmarshal(raw, &id); err == nil {
			liked[id] = true
			continue
		}
		var obj struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("parsing liked clip %s: %w", raw, err)
		}
		liked[obj.ID] = true
	}
	return liked, nil
}

func mapClips(in []apiClip) []domain.Clip {
	clips := make([]domain.Clip, 0, len(in))
	for _, c := range in {
		if c.ID == 0 || c.ClipURL == "" {
			continue
		}
		cats := make([]string, 0, len(c.Categories))
		for _, cat := range c.Categories {
			cats = append(cats, sanitize(cat))
		}
		clips = append(clips, domain.Clip{
			ID:         c.ID,
			ClipURL:    c.ClipURL,
			Caption:    sanitize(c.Caption),
			Categories: cats,
			LikeCount:  c.LikeCount,
			Creator:    sanitize(c.User),
			CreatedAt:  parseTime(c.CreatedAt),
		})
	}
	return clips
}
