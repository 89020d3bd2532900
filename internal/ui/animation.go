package ui

import (
	"math"
)

// AnimState is advanced once per poll tick and read by the renderers.
type AnimState struct {
	TransitionProgress float64
	CharReveal         float64
	GlowIntensity      float64
	ShimmerPhase       float64
}

func (a *AnimState) Reset() {
	a.TransitionProgress = 0
	a.CharReveal = 0
	a.GlowIntensity = 0
}

func (a *AnimState) Update(tickCount int, newLine bool, transitionTicks int) {
	if transitionTicks <= 0 {
		transitionTicks = 18
	}

	if newLine {
		a.TransitionProgress = 0
		a.CharReveal = 0
		a.GlowIntensity = 1.0
	}

	if a.TransitionProgress < 1.0 {
		a.TransitionProgress = math.Min(1, a.TransitionProgress+1.0/float64(transitionTicks))
	}

	if a.CharReveal < 1.0 {
		a.CharReveal = math.Min(1, a.CharReveal+0.08)
	}

	if a.GlowIntensity > 0 {
		a.GlowIntensity *= 0.85
		if a.GlowIntensity < 0.01 {
			a.GlowIntensity = 0
		}
	}

	a.ShimmerPhase = float64(tickCount) * 0.05
}

// SlideOffset is the eased progress of the current line change.
func (a *AnimState) SlideOffset() float64 {
	return easeOutCubic(a.TransitionProgress)
}

// Pulse oscillates in [0, 1] with the shimmer phase.
func (a *AnimState) Pulse() float64 {
	return math.Sin(a.ShimmerPhase*2)*0.5 + 0.5
}

func easeOutCubic(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return 1 - math.Pow(1-t, 3)
}

func easeOutQuart(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return 1 - math.Pow(1-t, 4)
}

func lerp(a float64, b float64, t float64) float64 {
	return a + (b-a)*t
}

func clamp(val float64, lo float64, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
