// Package player provides the terminal stand-ins for a video player: a
// clock-driven virtual player, an ffprobe duration prober and a launcher for
// an external media player.
package player

import (
	"time"

	"github.com/CrestNiraj12/clipzy/playback"
)

type clipState struct {
	duration  time.Duration
	base      time.Duration // elapsed before the current run
	startedAt time.Time
	playing   bool
	loops     int
	reported  int
}

// Virtual advances clip positions with a clock while they play and loops
// them at their end. It is not safe for concurrent use.
type Virtual struct {
	clock playback.Clock
	clips map[int64]*clipState
}

var _ playback.Player = (*Virtual)(nil)

// NewVirtual creates a virtual player reading time from clock.
func NewVirtual(clock playback.Clock) *Virtual {
	return &Virtual{clock: clock, clips: make(map[int64]*clipState)}
}

// SetDuration records a probed duration. Unknown clips stay at zero.
func (v *Virtual) SetDuration(clipID int64, d time.Duration) {
	if d < 0 {
		d = 0
	}
	v.clip(clipID).duration = d
}

func (v *Virtual) Play(clipID int64) {
	st := v.clip(clipID)
	if st.playing {
		return
	}
	st.playing = true
	st.startedAt = v.clock.Now()
}

func (v *Virtual) Pause(clipID int64) {
	st, ok := v.clips[clipID]
	if !ok || !st.playing {
		return
	}
	st.base += v.clock.Now().Sub(st.startedAt)
	st.playing = false
}

// Status reports the looped position. Finished is set once per completed
// loop, on the first sample after it.
func (v *Virtual) Status(clipID int64) playback.Status {
	st, ok := v.clips[clipID]
	if !ok {
		return playback.Status{}
	}
	elapsed := st.base
	if st.playing {
		elapsed += v.clock.Now().Sub(st.startedAt)
	}
	s := playback.Status{Duration: st.duration, Playing: st.playing, Position: elapsed}
	if st.duration > 0 {
		st.loops = int(elapsed / st.duration)
		s.Position = elapsed % st.duration
		if st.loops > st.reported {
			s.Finished = true
			st.reported = st.loops
		}
	}
	return s
}

// Forget drops everything known about clipID.
func (v *Virtual) Forget(clipID int64) {
	delete(v.clips, clipID)
}

func (v *Virtual) clip(clipID int64) *clipState {
	st, ok := v.clips[clipID]
	if !ok {
		st = &clipState{}
		v.clips[clipID] = st
	}
	return st
}
