package playback

import "github.com/CrestNiraj12/clipzy/domain"

// Options tunes a Controller.
type Options struct {
	NearEnd NearEndRule

	// PrefetchWithin is how many clips from the end of the playlist
	// becoming current triggers a fetch-next. Defaults to 1 (last clip).
	PrefetchWithin int
}

// Transition describes a change of the current clip.
type Transition struct {
	From     int64
	To       int64
	Outgoing *domain.Metric // final watch metric of From, nil when nothing to report
	Prefetch bool           // a fetch-next should be issued for To
}

// Sample is the outcome of one playback poll.
type Sample struct {
	ClipID   int64
	Progress float64
	Prefetch bool // a fetch-next should be issued for ClipID
}

// Controller owns the feed's playback bookkeeping.
type Controller struct {
	player   Player
	tracker  *Tracker
	states   *States
	prefetch *PrefetchSet
	playlist *Playlist
	opts     Options

	current    int64
	hasCurrent bool
}

// NewController wires a controller around player.
func NewController(clock Clock, player Player, opts Options) *Controller {
	if opts.NearEnd == (NearEndRule{}) {
		opts.NearEnd = DefaultNearEndRule()
	}
	if opts.PrefetchWithin <= 0 {
		opts.PrefetchWithin = 1
	}
	return &Controller{
		player:   player,
		tracker:  NewTracker(clock),
		states:   NewStates(),
		prefetch: NewPrefetchSet(),
		playlist: NewPlaylist(),
		opts:     opts,
	}
}

// Load replaces the playlist and starts the first clip. Per-clip state,
// tracking and the prefetch set are reset; the previous clip's watch time is
// dropped without a metric. prefetch is true when the first clip already
// sits at the tail of a short playlist.
func (c *Controller) Load(clips []domain.Clip) (kept []domain.Clip, prefetch bool) {
	if c.hasCurrent {
		c.player.Pause(c.current)
	}
	c.hasCurrent = false
	c.tracker.Clear()
	c.prefetch.Reset()
	kept = c.playlist.Replace(clips)
	c.states.Reset(kept)
	if len(kept) == 0 {
		return kept, false
	}
	first := kept[0].ID
	c.begin(first)
	return kept, c.nearTail(first) && c.prefetch.Mark(first)
}

// Append adds clips not seen since the last Load and returns them.
func (c *Controller) Append(clips []domain.Clip) []domain.Clip {
	added := c.playlist.Append(clips)
	for _, clip := range added {
		c.states.Add(clip)
	}
	return added
}

// Activate makes clipID the current clip. The outgoing clip is paused and
// its metric computed before tracking restarts for clipID.
func (c *Controller) Activate(clipID int64) (Transition, bool) {
	if _, ok := c.playlist.Get(clipID); !ok {
		return Transition{}, false
	}
	if c.hasCurrent && c.current == clipID {
		return Transition{}, false
	}
	tr := Transition{To: clipID}
	if c.hasCurrent {
		tr.From = c.current
		c.player.Pause(c.current)
		c.states.Pause(c.current)
		tr.Outgoing = c.finalize(c.current)
	}
	c.begin(clipID)
	tr.Prefetch = c.nearTail(clipID) && c.prefetch.Mark(clipID)
	return tr, true
}

// TogglePlay pauses or resumes the current clip. It reports the new state.
func (c *Controller) TogglePlay() (playing bool, ok bool) {
	if !c.hasCurrent {
		return false, false
	}
	if c.states.Get(c.current).Playing {
		c.player.Pause(c.current)
		c.states.Pause(c.current)
		c.tracker.Stop()
		return false, true
	}
	c.player.Play(c.current)
	c.states.Play(c.current)
	c.tracker.Start(c.current)
	return true, true
}

// Poll samples the player for clipID. Samples for a clip that is no longer
// current are rejected so stale timers stop re-arming.
func (c *Controller) Poll(clipID int64) (Sample, bool) {
	if !c.hasCurrent || c.current != clipID {
		return Sample{}, false
	}
	st := c.player.Status(clipID)
	p := st.Progress()
	c.states.SetProgress(clipID, p)
	s := Sample{ClipID: clipID, Progress: p}
	if c.opts.NearEnd.Reached(st) {
		s.Prefetch = c.prefetch.Mark(clipID)
	}
	return s, true
}

// Leave stops the current clip and returns its final metric, if any.
func (c *Controller) Leave() *domain.Metric {
	if !c.hasCurrent {
		return nil
	}
	c.player.Pause(c.current)
	c.states.Pause(c.current)
	m := c.finalize(c.current)
	c.tracker.Clear()
	c.hasCurrent = false
	return m
}

// SetLiked records a confirmed like state change.
func (c *Controller) SetLiked(clipID int64, liked bool) {
	c.states.SetLiked(clipID, liked)
}

// ApplyLiked reconciles liked flags with the server's list.
func (c *Controller) ApplyLiked(liked map[int64]bool) {
	c.states.ApplyLiked(liked)
}

// ApplyLikedTo reconciles the liked flags of ids only.
func (c *Controller) ApplyLikedTo(liked map[int64]bool, ids []int64) {
	c.states.ApplyLikedTo(liked, ids)
}

// LikeMetric builds the metric sent right after a like state change.
func (c *Controller) LikeMetric(clipID int64, liked bool) domain.Metric {
	return domain.Metric{
		VideoID:    clipID,
		Categories: c.categories(clipID),
		Liked:      liked,
	}
}

// CommentMetric builds the metric sent after a comment was accepted.
func (c *Controller) CommentMetric(clipID int64) domain.Metric {
	return domain.Metric{
		VideoID:    clipID,
		Categories: c.categories(clipID),
		Liked:      c.states.Get(clipID).Liked,
		Commented:  true,
	}
}

// Current returns the current clip ID.
func (c *Controller) Current() (int64, bool) {
	return c.current, c.hasCurrent
}

// State returns the UI state of clipID.
func (c *Controller) State(clipID int64) ItemState {
	return c.states.Get(clipID)
}

// PlayingCount returns how many clips are flagged as playing.
func (c *Controller) PlayingCount() int {
	return c.states.PlayingCount()
}

// Playlist exposes the held clips.
func (c *Controller) Playlist() *Playlist {
	return c.playlist
}

// Prefetched reports whether a fetch-next was already issued for clipID.
func (c *Controller) Prefetched(clipID int64) bool {
	return c.prefetch.Has(clipID)
}

func (c *Controller) begin(clipID int64) {
	c.current = clipID
	c.hasCurrent = true
	c.tracker.Start(clipID)
	c.states.Play(clipID)
	c.player.Play(clipID)
}

func (c *Controller) finalize(clipID int64) *domain.Metric {
	pct, ok := c.tracker.Finalize(c.player.Status(clipID).Duration)
	if !ok || pct <= 0 {
		return nil
	}
	return &domain.Metric{
		VideoID:         clipID,
		Categories:      c.categories(clipID),
		WatchPercentage: pct,
		Liked:           c.states.Get(clipID).Liked,
	}
}

func (c *Controller) nearTail(clipID int64) bool {
	i := c.playlist.IndexOf(clipID)
	return i >= 0 && i >= c.playlist.Len()-c.opts.PrefetchWithin
}

func (c *Controller) categories(clipID int64) []string {
	clip, _ := c.playlist.Get(clipID)
	return append([]string{}, clip.Categories...)
}
