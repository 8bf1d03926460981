package playback

import "time"

// Status is one sample of a clip's playback.
type Status struct {
	Position time.Duration
	Duration time.Duration // zero when unknown
	Playing  bool
	Finished bool // the clip reached its natural end since the last sample
}

// Progress returns Position/Duration in [0, 1], or 0 for unknown durations.
func (s Status) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Player drives playback of individual clips.
type Player interface {
	Play(clipID int64)
	Pause(clipID int64)
	Status(clipID int64) Status
}

// NearEndRule decides when a clip is close enough to its end to prefetch.
type NearEndRule struct {
	Remaining time.Duration
	Progress  float64
}

// DefaultNearEndRule triggers within the last 500ms or past 95%.
func DefaultNearEndRule() NearEndRule {
	return NearEndRule{Remaining: 500 * time.Millisecond, Progress: 0.95}
}

// Reached reports whether s is near the end of its clip.
func (r NearEndRule) Reached(s Status) bool {
	if s.Finished {
		return true
	}
	if s.Duration <= 0 {
		return false
	}
	if s.Duration-s.Position <= r.Remaining {
		return true
	}
	return s.Progress() >= r.Progress
}
