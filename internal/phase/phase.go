package phase

import (
	"errors"
	"fmt"
)

type Phase int

const (
	Countdown Phase = iota
	Reveal
	Cake
	Lyrics
	Finale
)

var phaseNames = [...]string{"countdown", "reveal", "cake", "lyrics", "finale"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

var (
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrTriggerDisabled   = errors.New("trigger disabled")
)

type Transition struct {
	From Phase
	To   Phase
}

func (t Transition) String() string {
	return t.From.String() + " -> " + t.To.String()
}

// Controller owns the single current phase. Every method either moves to a
// new phase and returns the transition, or leaves the state untouched and
// returns an error.
type Controller struct {
	current       Phase
	songActive    bool
	songCompleted bool
}

func NewController() *Controller {
	return &Controller{current: Countdown}
}

func (c *Controller) Current() Phase      { return c.current }
func (c *Controller) Is(p Phase) bool     { return c.current == p }
func (c *Controller) SongActive() bool    { return c.songActive }
func (c *Controller) SongCompleted() bool { return c.songCompleted }
func (c *Controller) CakeEnabled() bool   { return c.revealed() && !c.songActive }
func (c *Controller) SongEnabled() bool   { return c.revealed() && !c.songActive && c.current != Finale }
func (c *Controller) revealed() bool      { return c.current != Countdown }

func (c *Controller) move(to Phase) Transition {
	t := Transition{From: c.current, To: to}
	c.current = to
	return t
}

func (c *Controller) invalid(to Phase) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.current, to)
}

// Expire moves Countdown to Reveal. It succeeds only once.
func (c *Controller) Expire() (Transition, error) {
	if c.current != Countdown {
		return Transition{}, c.invalid(Reveal)
	}
	return c.move(Reveal), nil
}

// StartCake enters the cake ceremony from Reveal, or restarts it from Cake.
func (c *Controller) StartCake() (Transition, error) {
	if c.songActive {
		return Transition{}, fmt.Errorf("%w: cake while song is playing", ErrTriggerDisabled)
	}
	switch c.current {
	case Reveal, Cake:
		return c.move(Cake), nil
	default:
		return Transition{}, c.invalid(Cake)
	}
}

// Back leaves the cake ceremony for Reveal.
func (c *Controller) Back() (Transition, error) {
	if c.current != Cake {
		return Transition{}, c.invalid(Reveal)
	}
	return c.move(Reveal), nil
}

// StartSong enters Lyrics. The song trigger stays disabled while a song
// session is running.
func (c *Controller) StartSong() (Transition, error) {
	if c.songActive {
		return Transition{}, fmt.Errorf("%w: song already playing", ErrTriggerDisabled)
	}
	switch c.current {
	case Reveal, Cake:
		c.songActive = true
		return c.move(Lyrics), nil
	default:
		return Transition{}, c.invalid(Lyrics)
	}
}

// FinishSong records that the song played to the end and re-enables the cake
// trigger. The phase stays Lyrics until EnterFinale.
func (c *Controller) FinishSong() error {
	if !c.songActive {
		return fmt.Errorf("%w: no song playing", ErrInvalidTransition)
	}
	c.songActive = false
	c.songCompleted = true
	return nil
}

// EnterFinale is only reachable after a completed song and only once.
func (c *Controller) EnterFinale() (Transition, error) {
	if !c.songCompleted || c.current == Finale {
		return Transition{}, c.invalid(Finale)
	}
	return c.move(Finale), nil
}
