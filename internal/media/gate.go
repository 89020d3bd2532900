package media

import (
	"fmt"
	"strings"
)

type Policy int

const (
	// PolicyGesture rejects playback until the first key press.
	PolicyGesture Policy = iota
	// PolicyAllow never blocks.
	PolicyAllow
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gesture":
		return PolicyGesture, nil
	case "allow":
		return PolicyAllow, nil
	default:
		return PolicyGesture, fmt.Errorf("unknown autoplay policy %q (want gesture or allow)", s)
	}
}

func (p Policy) String() string {
	if p == PolicyAllow {
		return "allow"
	}
	return "gesture"
}

// GestureGate holds the page-wide "has the user interacted yet" bit that
// decides whether Play may start sound.
type GestureGate struct {
	policy   Policy
	unlocked bool
}

func NewGestureGate(policy Policy) *GestureGate {
	return &GestureGate{policy: policy, unlocked: policy == PolicyAllow}
}

// Interact records a user gesture. Once unlocked the gate stays open.
func (g *GestureGate) Interact()      { g.unlocked = true }
func (g *GestureGate) Unlocked() bool { return g.unlocked }
func (g *GestureGate) Policy() Policy { return g.policy }

// Wrap returns p with Play guarded by the gate.
func (g *GestureGate) Wrap(p Player) Player {
	return &gatedPlayer{Player: p, gate: g}
}

type gatedPlayer struct {
	Player
	gate *GestureGate
}

func (g *gatedPlayer) Play() error {
	if !g.gate.unlocked {
		return ErrPlaybackBlocked
	}
	return g.Player.Play()
}
