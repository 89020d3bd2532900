package media

import "time"

const (
	FadeSteps    = 20
	FadeDuration = 700 * time.Millisecond
	FadeInTarget = 0.85
	fullVolume   = 1.0
)

type FadeKind int

const (
	FadeOut FadeKind = iota
	FadeIn
)

// Fade is a linear volume ramp in FadeSteps discrete steps. The caller drives
// it by calling Step once per Interval.
type Fade struct {
	ID     int
	Target Target
	Kind   FadeKind

	from     float64
	to       float64
	step     int
	interval time.Duration
}

// NewFadeOut ramps from the current volume (full volume if it is zero) down
// to silence. On completion the player is paused and its volume restored.
func NewFadeOut(target Target, current float64, d time.Duration) *Fade {
	from := current
	if from <= 0 {
		from = fullVolume
	}
	return &Fade{Target: target, Kind: FadeOut, from: from, to: 0, interval: d / FadeSteps}
}

// NewFadeIn starts playback at zero volume and ramps to FadeInTarget.
func NewFadeIn(target Target, d time.Duration) *Fade {
	return &Fade{Target: target, Kind: FadeIn, from: 0, to: FadeInTarget, interval: d / FadeSteps}
}

func (f *Fade) Interval() time.Duration { return f.interval }
func (f *Fade) Done() bool              { return f.step >= FadeSteps }

// Begin prepares the player. For a fade-in that means silencing it and
// starting playback, which may fail with ErrPlaybackBlocked.
func (f *Fade) Begin(p Player) error {
	if f.Kind == FadeOut {
		return nil
	}
	p.SetVolume(0)
	return p.Play()
}

// Step applies the next volume and reports whether the fade is complete.
func (f *Fade) Step(p Player) bool {
	if f.Done() {
		return true
	}
	f.step++

	frac := float64(f.step) / FadeSteps
	switch f.Kind {
	case FadeOut:
		p.SetVolume(max(0, f.from*(1-frac)))
		if f.Done() {
			p.Pause()
			p.SetVolume(f.from)
		}
	case FadeIn:
		p.SetVolume(min(f.to, f.to*frac))
	}

	return f.Done()
}

// Fader keeps at most one live fade per target. Starting a new fade on a
// target supersedes the old one; step messages carry the fade ID so stale
// ones can be recognised.
type Fader struct {
	next  int
	fades map[Target]*Fade
}

func NewFader() *Fader {
	return &Fader{fades: make(map[Target]*Fade)}
}

func (f *Fader) Start(fade *Fade) *Fade {
	f.next++
	fade.ID = f.next
	f.fades[fade.Target] = fade
	return fade
}

// Active returns the fade for target if id is still the live one.
func (f *Fader) Active(target Target, id int) (*Fade, bool) {
	fade, ok := f.fades[target]
	if !ok || fade.ID != id {
		return nil, false
	}
	return fade, true
}

// Current returns the live fade for target, if any.
func (f *Fader) Current(target Target) (*Fade, bool) {
	fade, ok := f.fades[target]
	return fade, ok
}

func (f *Fader) Finish(target Target, id int) {
	if fade, ok := f.fades[target]; ok && fade.ID == id {
		delete(f.fades, target)
	}
}

func (f *Fader) Cancel(target Target) {
	delete(f.fades, target)
}
