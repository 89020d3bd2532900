package media

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timeline is a silent player that advances with the wall clock. It stands in
// for a clip whose audio is missing or cannot be played, so the flows that
// depend on position and end-of-media still run.
type Timeline struct {
	clock    clockwork.Clock
	duration time.Duration
	volume   float64

	playing   bool
	startedAt time.Time
	elapsed   time.Duration
}

func NewTimeline(clock clockwork.Clock, duration time.Duration) *Timeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timeline{
		clock:    clock,
		duration: duration,
		volume:   1,
	}
}

func (t *Timeline) Play() error {
	if t.Ended() {
		t.elapsed = 0
		t.playing = false
	}
	if t.playing {
		return nil
	}
	t.playing = true
	t.startedAt = t.clock.Now()
	return nil
}

func (t *Timeline) Pause() {
	if !t.playing {
		return
	}
	t.elapsed = t.Position()
	t.playing = false
}

func (t *Timeline) Playing() bool {
	return t.playing && !t.Ended()
}

func (t *Timeline) Position() time.Duration {
	pos := t.elapsed
	if t.playing {
		pos += t.clock.Since(t.startedAt)
	}
	if pos > t.duration {
		pos = t.duration
	}
	return pos
}

func (t *Timeline) Duration() time.Duration { return t.duration }
func (t *Timeline) Ended() bool             { return t.Position() >= t.duration }
func (t *Timeline) Volume() float64         { return t.volume }
func (t *Timeline) SetVolume(v float64)     { t.volume = clampVolume(v) }

func (t *Timeline) Close() error {
	t.Pause()
	return nil
}

func (t *Timeline) Seek(d time.Duration) error {
	if d < 0 {
		d = 0
	}
	if d > t.duration {
		d = t.duration
	}
	t.elapsed = d
	if t.playing {
		t.startedAt = t.clock.Now()
	}
	return nil
}
