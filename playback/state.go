package playback

import "github.com/CrestNiraj12/clipzy/domain"

// ItemState is the UI state derived for one clip.
type ItemState struct {
	Playing   bool
	Progress  float64 // 0..1
	Liked     bool
	LikeCount int
}

// States keeps ItemState per clip ID. At most one clip is playing.
type States struct {
	byID       map[int64]*ItemState
	playing    int64
	hasPlaying bool
}

// NewStates creates an empty state table.
func NewStates() *States {
	return &States{byID: make(map[int64]*ItemState)}
}

// Reset drops all state and registers clips with defaults.
func (s *States) Reset(clips []domain.Clip) {
	s.byID = make(map[int64]*ItemState, len(clips))
	s.hasPlaying = false
	s.playing = 0
	for _, c := range clips {
		s.Add(c)
	}
}

// Add registers a clip with default state. Known clips are left untouched.
func (s *States) Add(c domain.Clip) {
	if _, ok := s.byID[c.ID]; ok {
		return
	}
	s.byID[c.ID] = &ItemState{LikeCount: c.LikeCount}
}

// Get returns a copy of the state for id.
func (s *States) Get(id int64) ItemState {
	if st, ok := s.byID[id]; ok {
		return *st
	}
	return ItemState{}
}

// Play marks id as the only playing clip.
func (s *States) Play(id int64) {
	if s.hasPlaying && s.playing != id {
		if prev, ok := s.byID[s.playing]; ok {
			prev.Playing = false
		}
	}
	st := s.ensure(id)
	st.Playing = true
	s.playing = id
	s.hasPlaying = true
}

// Pause stops id without changing which clip is current.
func (s *States) Pause(id int64) {
	if st, ok := s.byID[id]; ok {
		st.Playing = false
	}
	if s.hasPlaying && s.playing == id {
		s.hasPlaying = false
	}
}

// PlayingID returns the playing clip, if any.
func (s *States) PlayingID() (int64, bool) {
	return s.playing, s.hasPlaying
}

// PlayingCount counts clips flagged as playing.
func (s *States) PlayingCount() int {
	n := 0
	for _, st := range s.byID {
		if st.Playing {
			n++
		}
	}
	return n
}

// SetProgress stores playback progress, clamped to [0, 1].
func (s *States) SetProgress(id int64, p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	s.ensure(id).Progress = p
}

// SetLiked stores the confirmed like state and adjusts the shown count.
func (s *States) SetLiked(id int64, liked bool) {
	st := s.ensure(id)
	if st.Liked == liked {
		return
	}
	st.Liked = liked
	if liked {
		st.LikeCount++
	} else if st.LikeCount > 0 {
		st.LikeCount--
	}
}

// ApplyLiked reconciles the liked flag of every known clip without touching
// counts; the server counts already include the user's likes.
func (s *States) ApplyLiked(liked map[int64]bool) {
	for id, st := range s.byID {
		st.Liked = liked[id]
	}
}

// ApplyLikedTo reconciles only the listed clips. Unknown IDs are skipped.
func (s *States) ApplyLikedTo(liked map[int64]bool, ids []int64) {
	for _, id := range ids {
		if st, ok := s.byID[id]; ok {
			st.Liked = liked[id]
		}
	}
}

func (s *States) ensure(id int64) *ItemState {
	st, ok := s.byID[id]
	if !ok {
		st = &ItemState{}
		s.byID[id] = st
	}
	return st
}
