package playback

import "time"

// Visible is the share of the viewport one clip occupies, in [0, 1].
type Visible struct {
	ClipID   int64
	Fraction float64
}

// MostVisible returns the clip with the strictly highest fraction that is at
// or above threshold. On equal fractions the earlier item wins.
func MostVisible(items []Visible, threshold float64) (int64, bool) {
	var (
		best     int64
		bestFrac float64
		found    bool
	)
	for _, it := range items {
		if it.Fraction < threshold {
			continue
		}
		if !found || it.Fraction > bestFrac {
			best, bestFrac, found = it.ClipID, it.Fraction, true
		}
	}
	return best, found
}

// Viewability turns raw visibility reports into "this clip is now current"
// decisions. A clip must remain the most visible one for the dwell time
// before it is committed.
type Viewability struct {
	threshold float64
	dwell     time.Duration

	candidate    int64
	hasCandidate bool
	since        time.Time

	committed    int64
	hasCommitted bool
}

// NewViewability creates a tracker with the given threshold and dwell.
func NewViewability(threshold float64, dwell time.Duration) *Viewability {
	return &Viewability{threshold: threshold, dwell: dwell}
}

// Dwell returns the minimum time a candidate must stay most visible.
func (v *Viewability) Dwell() time.Duration {
	return v.dwell
}

// Observe records a visibility report taken at now. It returns true when a
// new candidate appeared and Settle should be called after Dwell.
func (v *Viewability) Observe(items []Visible, now time.Time) bool {
	best, ok := MostVisible(items, v.threshold)
	if !ok {
		v.hasCandidate = false
		return false
	}
	if v.hasCandidate && v.candidate == best {
		return false
	}
	v.candidate = best
	v.hasCandidate = true
	v.since = now
	return !(v.hasCommitted && v.committed == best)
}

// Settle commits the candidate once it has been most visible for the dwell
// time. It returns the committed clip when the current clip changed.
func (v *Viewability) Settle(now time.Time) (int64, bool) {
	if !v.hasCandidate {
		return 0, false
	}
	if v.hasCommitted && v.candidate == v.committed {
		return 0, false
	}
	if now.Sub(v.since) < v.dwell {
		return 0, false
	}
	v.committed = v.candidate
	v.hasCommitted = true
	return v.committed, true
}

// Commit marks id as current without a dwell, e.g. after a fresh load.
func (v *Viewability) Commit(id int64) {
	v.committed = id
	v.hasCommitted = true
	v.candidate = id
	v.hasCandidate = true
}

// Reset forgets candidate and committed clips.
func (v *Viewability) Reset() {
	v.hasCandidate = false
	v.hasCommitted = false
	v.candidate = 0
	v.committed = 0
}
