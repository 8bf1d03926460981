package domain

import "time"

// Clip is one short video in the feed.
type Clip struct {
	ID         int64
	ClipURL    string
	Caption    string // Plain text, terminal-safe
	Categories []string
	LikeCount  int
	Creator    string // Username of the uploader, empty when unknown
	CreatedAt  time.Time
}

// Comment is a single comment on a clip.
type Comment struct {
	ID        int64
	User      string
	Text      string
	CreatedAt time.Time
}

// Recipient is a follower a clip can be shared with.
// RoomID is set when a direct-message room already exists.
type Recipient struct {
	UserID   int64
	RoomID   int64
	Username string
}
