package session

import (
	"time"

	"github.com/google/uuid"

	"karolbroda.com/cakeday/internal/lyrics"
)

// Window is a time-coded region of a clip, in seconds, half-open [Start, End).
type Window struct {
	ID      string
	Start   float64
	End     float64
	Message string
}

func (w Window) Contains(pos float64) bool {
	return pos >= w.Start && pos < w.End
}

// DefaultCakeWindows are the two candle prompts of the cake clip.
func DefaultCakeWindows() []Window {
	return []Window{
		{ID: "light", Start: 2.0, End: 3.2, Message: "Wait, let me light up the candles for you."},
		{ID: "blow", Start: 5.0, End: 6.5, Message: "Ready to blow candles in 4..."},
	}
}

// Cake is the state of one pass through the cake clip. A fresh Cake is made
// every time the cake phase is entered, so each window fires at most once per
// pass.
type Cake struct {
	ID        uuid.UUID
	StartedAt time.Time

	windows []Window
	fired   map[string]bool
	popup   *Window
	ended   bool
}

func NewCake(windows []Window, now time.Time) *Cake {
	return &Cake{
		ID:        uuid.New(),
		StartedAt: now,
		windows:   windows,
		fired:     make(map[string]bool, len(windows)),
	}
}

// Check reports the window pos has entered for the first time in this session.
// The returned window becomes the open popup.
func (c *Cake) Check(pos float64) (Window, bool) {
	if c.ended {
		return Window{}, false
	}
	for _, w := range c.windows {
		if !w.Contains(pos) || c.fired[w.ID] {
			continue
		}
		c.fired[w.ID] = true
		popup := w
		c.popup = &popup
		return w, true
	}
	return Window{}, false
}

func (c *Cake) Fired(id string) bool { return c.fired[id] }
func (c *Cake) Popup() (Window, bool) {
	if c.popup == nil {
		return Window{}, false
	}
	return *c.popup, true
}

// Dismiss closes the popup. It returns false when nothing was open.
func (c *Cake) Dismiss() bool {
	if c.popup == nil {
		return false
	}
	c.popup = nil
	return true
}

// End marks the clip as played through. It returns false if already ended.
func (c *Cake) End() bool {
	if c.ended {
		return false
	}
	c.ended = true
	c.popup = nil
	return true
}

func (c *Cake) Ended() bool { return c.ended }

// Song is the state of one playback of the lyric-synced song.
type Song struct {
	ID        uuid.UUID
	StartedAt time.Time
	Source    string

	syncer   *lyrics.Syncer
	loaded   bool
	loadErr  error
	finished bool
	watcher  *lyrics.Watcher
}

func NewSong(source string, offset float64, now time.Time) *Song {
	s := &Song{
		ID:        uuid.New(),
		StartedAt: now,
		Source:    source,
		syncer:    lyrics.NewSyncer(nil),
	}
	s.syncer.SetOffset(offset)
	return s
}

func (s *Song) Syncer() *lyrics.Syncer { return s.syncer }
func (s *Song) Loaded() bool           { return s.loaded }
func (s *Song) LoadErr() error         { return s.loadErr }
func (s *Song) Finished() bool         { return s.finished }

// SetTrack installs a loaded track, replacing any earlier one.
func (s *Song) SetTrack(track lyrics.Track) {
	s.syncer.Replace(track)
	s.loaded = true
	s.loadErr = nil
}

func (s *Song) SetLoadError(err error) {
	s.loaded = true
	s.loadErr = err
}

// Update maps a playback position to the highlighted line. Once the song has
// finished, the highlight stays cleared.
func (s *Song) Update(pos float64) lyrics.Highlight {
	if s.finished {
		return lyrics.Highlight{Previous: -1, Current: -1}
	}
	return s.syncer.Update(pos)
}

// Finish ends the session exactly once: the highlight is cleared and the
// watcher detached. Later calls return false.
func (s *Song) Finish() bool {
	if s.finished {
		return false
	}
	s.finished = true
	s.syncer.Reset()
	s.Detach()
	return true
}

// Attach binds a lyric file watcher to the session, closing any previous one.
func (s *Song) Attach(w *lyrics.Watcher) {
	s.Detach()
	s.watcher = w
}

func (s *Song) Watcher() *lyrics.Watcher { return s.watcher }

func (s *Song) Detach() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
