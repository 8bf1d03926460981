package playback

// PrefetchSet remembers the clips a fetch-next was already issued for.
// Every trigger site must share one set.
type PrefetchSet struct {
	requested map[int64]struct{}
}

// NewPrefetchSet creates an empty set.
func NewPrefetchSet() *PrefetchSet {
	return &PrefetchSet{requested: make(map[int64]struct{})}
}

// Mark records a request for clipID and reports whether it is the first.
func (p *PrefetchSet) Mark(clipID int64) bool {
	if _, ok := p.requested[clipID]; ok {
		return false
	}
	p.requested[clipID] = struct{}{}
	return true
}

// Has reports whether clipID was already requested.
func (p *PrefetchSet) Has(clipID int64) bool {
	_, ok := p.requested[clipID]
	return ok
}

// Len returns the number of recorded requests.
func (p *PrefetchSet) Len() int {
	return len(p.requested)
}

// Reset clears the set; used when the feed is refreshed.
func (p *PrefetchSet) Reset() {
	p.requested = make(map[int64]struct{})
}
