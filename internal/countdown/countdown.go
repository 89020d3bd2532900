package countdown

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	TargetMonth = time.October
	TargetDay   = 1

	TickInterval = time.Second
)

// NextTarget returns midnight on the target day in now's location: this
// year's if it is still ahead of now, otherwise next year's.
func NextTarget(now time.Time) time.Time {
	candidate := time.Date(now.Year(), TargetMonth, TargetDay, 0, 0, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = time.Date(now.Year()+1, TargetMonth, TargetDay, 0, 0, 0, 0, now.Location())
	}
	return candidate
}

type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Breakdown splits a duration into whole days, hours, minutes and seconds.
// Negative durations clamp to zero.
func Breakdown(diff time.Duration) Remaining {
	if diff < 0 {
		diff = 0
	}

	total := int64(diff / time.Second)

	return Remaining{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

func (r Remaining) IsZero() bool {
	return r == Remaining{}
}

// Fields returns the zero-padded display values in days, hours, minutes,
// seconds order.
func (r Remaining) Fields() [4]string {
	return [4]string{
		fmt.Sprintf("%02d", r.Days),
		fmt.Sprintf("%02d", r.Hours),
		fmt.Sprintf("%02d", r.Minutes),
		fmt.Sprintf("%02d", r.Seconds),
	}
}

func (r Remaining) String() string {
	f := r.Fields()
	return f[0] + ":" + f[1] + ":" + f[2] + ":" + f[3]
}

// Countdown tracks the time left until a fixed target. The target is
// resolved once and never moves.
type Countdown struct {
	clock   clockwork.Clock
	target  time.Time
	expired bool
	last    Remaining
}

func New(clock clockwork.Clock, target time.Time) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Countdown{
		clock:  clock,
		target: target,
	}
}

// NewDefault targets the next October 1st as seen by clock.
func NewDefault(clock clockwork.Clock) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return New(clock, NextTarget(clock.Now()))
}

func (c *Countdown) Target() time.Time      { return c.target }
func (c *Countdown) Expired() bool          { return c.expired }
func (c *Countdown) Remaining() Remaining   { return c.last }
func (c *Countdown) Clock() clockwork.Clock { return c.clock }

// Tick recomputes the remaining time. fired is true exactly once, on the
// first tick at or after the target; later ticks keep the display at zero
// and report false.
func (c *Countdown) Tick() (remaining Remaining, fired bool) {
	if c.expired {
		return Remaining{}, false
	}

	diff := c.target.Sub(c.clock.Now())
	c.last = Breakdown(diff)

	if diff <= 0 {
		c.expired = true
		c.last = Remaining{}
		return c.last, true
	}

	return c.last, false
}
