package playback

import "github.com/CrestNiraj12/clipzy/domain"

// Playlist is the ordered list of held clips. It also remembers every ID
// seen since the last Replace so re-surfaced clips are never appended twice.
type Playlist struct {
	clips []domain.Clip
	index map[int64]int
	seen  map[int64]struct{}
}

// NewPlaylist creates an empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{
		index: make(map[int64]int),
		seen:  make(map[int64]struct{}),
	}
}

// Replace drops the held clips and the seen set, then stores clips.
// Duplicate IDs inside the batch keep their first occurrence.
func (p *Playlist) Replace(clips []domain.Clip) []domain.Clip {
	p.clips = nil
	p.index = make(map[int64]int, len(clips))
	p.seen = make(map[int64]struct{}, len(clips))
	return p.Append(clips)
}

// Append adds clips not seen before and returns the ones that were added.
func (p *Playlist) Append(clips []domain.Clip) []domain.Clip {
	added := make([]domain.Clip, 0, len(clips))
	for _, c := range clips {
		if _, ok := p.seen[c.ID]; ok {
			continue
		}
		p.seen[c.ID] = struct{}{}
		p.index[c.ID] = len(p.clips)
		p.clips = append(p.clips, c)
		added = append(added, c)
	}
	return added
}

// Len returns the number of held clips.
func (p *Playlist) Len() int {
	return len(p.clips)
}

// At returns the clip at position i.
func (p *Playlist) At(i int) (domain.Clip, bool) {
	if i < 0 || i >= len(p.clips) {
		return domain.Clip{}, false
	}
	return p.clips[i], true
}

// Get returns the clip with the given ID.
func (p *Playlist) Get(id int64) (domain.Clip, bool) {
	i, ok := p.index[id]
	if !ok {
		return domain.Clip{}, false
	}
	return p.clips[i], true
}

// IndexOf returns the position of id, or -1.
func (p *Playlist) IndexOf(id int64) int {
	if i, ok := p.index[id]; ok {
		return i
	}
	return -1
}

// IDs returns the held clip IDs in order.
func (p *Playlist) IDs() []int64 {
	ids := make([]int64, len(p.clips))
	for i, c := range p.clips {
		ids[i] = c.ID
	}
	return ids
}

// Clips returns a copy of the held clips.
func (p *Playlist) Clips() []domain.Clip {
	return append([]domain.Clip(nil), p.clips...)
}
