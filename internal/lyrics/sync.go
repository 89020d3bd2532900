package lyrics

type LineState int

const (
	LineIdle LineState = iota
	LineActive
	LineFadingOut
)

// Highlight describes one evaluation of the sync engine. Changed is true only
// when the active line moved, so callers can drive transitions from it.
type Highlight struct {
	Previous int
	Current  int
	Changed  bool
}

// Syncer maps playback time to the active line of a track and remembers the
// previous line so it can be shown fading out.
type Syncer struct {
	track    Track
	offset   float64
	current  int
	previous int
}

func NewSyncer(track Track) *Syncer {
	return &Syncer{
		track:    track,
		current:  -1,
		previous: -1,
	}
}

func (s *Syncer) Track() Track        { return s.track }
func (s *Syncer) Current() int        { return s.current }
func (s *Syncer) Previous() int       { return s.previous }
func (s *Syncer) Offset() float64     { return s.offset }
func (s *Syncer) SetOffset(o float64) { s.offset = o }

// Update re-evaluates the active line at position. Calling it repeatedly
// inside the same window reports Changed only once.
func (s *Syncer) Update(positionSeconds float64) Highlight {
	idx := FindActiveIndex(s.track, positionSeconds+s.offset)
	if idx == s.current {
		return Highlight{Previous: s.previous, Current: s.current}
	}

	s.previous = s.current
	s.current = idx

	return Highlight{Previous: s.previous, Current: s.current, Changed: true}
}

// Replace swaps in a freshly loaded track and clears the highlight.
func (s *Syncer) Replace(track Track) {
	s.track = track
	s.current = -1
	s.previous = -1
}

// Reset clears all highlight state, as when a song ends or is interrupted.
func (s *Syncer) Reset() Highlight {
	changed := s.current != -1
	s.current = -1
	s.previous = -1
	return Highlight{Previous: -1, Current: -1, Changed: changed}
}

func (s *Syncer) State(index int) LineState {
	switch {
	case index < 0:
		return LineIdle
	case index == s.current:
		return LineActive
	case index == s.previous:
		return LineFadingOut
	default:
		return LineIdle
	}
}
