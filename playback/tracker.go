package playback

import (
	"math"
	"time"
)

// Tracker accumulates active watch time for the clip currently tracked.
// Only open intervals add time; wall-clock time spent paused is ignored.
type Tracker struct {
	clock       Clock
	clipID      int64
	hasClip     bool
	accumulated time.Duration
	openedAt    time.Time
	open        bool
}

// NewTracker creates an idle tracker.
func NewTracker(clock Clock) *Tracker {
	return &Tracker{clock: clock}
}

// Start opens a watch interval for clipID. A second Start without a Stop is
// a no-op. Starting a different clip drops the previous accumulator, so the
// outgoing clip must be finalized first.
func (t *Tracker) Start(clipID int64) {
	if !t.hasClip || t.clipID != clipID {
		t.reset(clipID)
	}
	if t.open {
		return
	}
	t.open = true
	t.openedAt = t.clock.Now()
}

// Stop closes the open interval, if any, and adds its length.
func (t *Tracker) Stop() {
	if !t.open {
		return
	}
	if elapsed := t.clock.Now().Sub(t.openedAt); elapsed > 0 {
		t.accumulated += elapsed
	}
	t.open = false
}

// Finalize flushes the open interval and returns the watch percentage of
// the tracked clip against duration. ok is false when nothing is tracked or
// the duration is unknown.
func (t *Tracker) Finalize(duration time.Duration) (int, bool) {
	t.Stop()
	if !t.hasClip {
		return 0, false
	}
	return WatchPercentage(t.accumulated, duration)
}

// Clear forgets the tracked clip and its accumulator.
func (t *Tracker) Clear() {
	t.hasClip = false
	t.clipID = 0
	t.accumulated = 0
	t.open = false
}

// ClipID returns the tracked clip.
func (t *Tracker) ClipID() (int64, bool) {
	return t.clipID, t.hasClip
}

// Open reports whether an interval is currently open.
func (t *Tracker) Open() bool {
	return t.open
}

// Accumulated returns the time of closed intervals only.
func (t *Tracker) Accumulated() time.Duration {
	return t.accumulated
}

func (t *Tracker) reset(clipID int64) {
	t.clipID = clipID
	t.hasClip = true
	t.accumulated = 0
	t.open = false
}

// WatchPercentage converts watched time into an integer in [0, 100].
// A non-positive duration yields ok=false.
func WatchPercentage(watched, duration time.Duration) (int, bool) {
	if duration <= 0 {
		return 0, false
	}
	ratio := watched.Seconds() / duration.Seconds()
	ratio = math.Max(0, math.Min(ratio, 1))
	return int(math.Round(ratio * 100)), true
}
