package domain

// Metric is one engagement fact reported for one clip.
type Metric struct {
	VideoID         int64    `json:"videoId"`
	Categories      []string `json:"categories"`
	WatchPercentage int      `json:"watchPercentage"`
	Liked           bool     `json:"liked"`
	Commented       bool     `json:"commented"`
}

// CommentMaxLength mirrors the backend's comment limit.
const CommentMaxLength = 500
