package sparkle

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/cakeday/internal/colors"
)

const (
	InitialCount    = 28
	StaggerCount    = 28
	StaggerInterval = 120 * time.Millisecond
	BurstCount      = 4
	BurstInterval   = 1500 * time.Millisecond

	RiseDuration = 4 * time.Second
	Lifetime     = 4200 * time.Millisecond
)

var (
	BodyColors = [2]string{"#C0C0FF", "#B19CD9"}
	GlowColors = [2]string{"#A855F7", "#D8BFD8"}
)

// Sparkle is one particle. X is a fraction of the field width; Rise is the
// fraction of the field height it climbs over RiseDuration.
type Sparkle struct {
	X     float64
	Size  float64
	Rise  float64
	Spin  float64
	Color string
	Glow  string
	Born  time.Time
}

// Progress is how far through its rise the sparkle is, in [0, 1].
func (s Sparkle) Progress(now time.Time) float64 {
	p := float64(now.Sub(s.Born)) / float64(RiseDuration)
	return max(0, min(1, p))
}

func (s Sparkle) Expired(now time.Time) bool {
	return now.Sub(s.Born) >= Lifetime
}

// Field owns the live sparkles and the generation that scopes the spawn
// timers. Stop bumps the generation so pending stagger and burst messages
// from an earlier run are ignored.
type Field struct {
	rng        *rand.Rand
	sparkles   []Sparkle
	generation int
	running    bool
	staggered  int
}

func NewField(seed int64) *Field {
	return &Field{rng: rand.New(rand.NewSource(seed))}
}

func (f *Field) Generation() int     { return f.generation }
func (f *Field) Running() bool       { return f.running }
func (f *Field) Len() int            { return len(f.sparkles) }
func (f *Field) Sparkles() []Sparkle { return f.sparkles }

// Start spawns the initial wave and returns the generation that stagger and
// burst messages must carry.
func (f *Field) Start(now time.Time) int {
	f.generation++
	f.running = true
	f.staggered = 0
	f.Spawn(InitialCount, now)
	return f.generation
}

func (f *Field) Stop() {
	f.generation++
	f.running = false
}

// Current reports whether a timer from gen should still act.
func (f *Field) Current(gen int) bool {
	return f.running && gen == f.generation
}

// Stagger adds one delayed sparkle of the opening wave. It returns false when
// the wave is complete or gen is stale.
func (f *Field) Stagger(gen int, now time.Time) bool {
	if !f.Current(gen) || f.staggered >= StaggerCount {
		return false
	}
	f.staggered++
	f.Spawn(1, now)
	return f.staggered < StaggerCount
}

// Burst adds a periodic handful of sparkles. It returns false for a stale gen.
func (f *Field) Burst(gen int, now time.Time) bool {
	if !f.Current(gen) {
		return false
	}
	f.Spawn(BurstCount, now)
	return true
}

func (f *Field) Spawn(n int, now time.Time) {
	for i := 0; i < n; i++ {
		f.sparkles = append(f.sparkles, Sparkle{
			X:     f.rng.Float64(),
			Size:  6 + f.rng.Float64()*8,
			Rise:  0.4 + f.rng.Float64()*0.6,
			Spin:  f.rng.Float64() * 360,
			Color: BodyColors[f.pick()],
			Glow:  GlowColors[f.pick()],
			Born:  now,
		})
	}
}

func (f *Field) pick() int {
	if f.rng.Float64() > 0.5 {
		return 0
	}
	return 1
}

// Advance drops sparkles past their lifetime.
func (f *Field) Advance(now time.Time) {
	live := f.sparkles[:0]
	for _, s := range f.sparkles {
		if !s.Expired(now) {
			live = append(live, s)
		}
	}
	clear(f.sparkles[len(live):])
	f.sparkles = live
}

var glyphs = []string{"✦", "✧", "⋆", "·"}

func glyphFor(s Sparkle, progress float64) string {
	switch {
	case progress > 0.8:
		return glyphs[3]
	case progress > 0.55:
		return glyphs[2]
	case s.Size >= 10:
		return glyphs[0]
	default:
		return glyphs[1]
	}
}

// Render draws the field into a width x height block over background. Older
// sparkles are higher up and dimmer.
func (f *Field) Render(width, height int, background string, now time.Time) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
	}

	for _, s := range f.sparkles {
		p := s.Progress(now)
		col := min(width-1, int(s.X*float64(width)))
		row := height - 1 - int(p*s.Rise*float64(height-1))
		if row < 0 || row >= height {
			continue
		}

		opacity := 1 - p
		if opacity <= 0.05 {
			continue
		}

		fg := colors.Fade(colors.BlendColors(s.Color, s.Glow, p*0.6), background, opacity)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
		if p < 0.3 {
			style = style.Bold(true)
		}
		grid[row][col] = style.Render(glyphFor(s, p))
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, cell := range row {
			if cell == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(cell)
		}
		lines[y] = b.String()
	}

	return strings.Join(lines, "\n")
}
