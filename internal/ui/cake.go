package ui

import (
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/cakeday/internal/artwork"
	"karolbroda.com/cakeday/internal/colors"
	"karolbroda.com/cakeday/internal/session"
)

type candleState int

const (
	candlesUnlit candleState = iota
	candlesLit
	candlesOut
)

// CakeMessage is shown with the confetti once the clip has played through.
const CakeMessage = "Happy birthday! Make a wish."

var cakeBody = []string{
	"    _|___|___|___|___|_    ",
	"   |~~~~~~~~~~~~~~~~~~~|   ",
	"   |  *    *    *    * |   ",
	" __|___________________|__ ",
	"|~~~~~~~~~~~~~~~~~~~~~~~~~|",
	"|   o    o    o    o    o |",
	"|_________________________|",
}

const candleRow = "     |   |   |   |   |      "

var flameFrames = [...]string{
	"     (   (   (   (   (      ",
	"     )   )   )   )   )      ",
}

var smokeFrames = [...]string{
	"     ~   ~   ~   ~   ~      ",
	"      ~   ~   ~   ~   ~     ",
}

// candlesFor maps a cake session to the frame the clip would be showing.
func candlesFor(c *session.Cake) candleState {
	switch {
	case c == nil:
		return candlesUnlit
	case c.Ended():
		return candlesOut
	case c.Fired("blow"):
		if _, open := c.Popup(); open {
			return candlesLit
		}
		return candlesOut
	case c.Fired("light"):
		if _, open := c.Popup(); open {
			return candlesUnlit
		}
		return candlesLit
	default:
		return candlesUnlit
	}
}

func renderCakeArt(palette *artwork.Palette, state candleState, tick int) []string {
	frosting := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary))
	sponge := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	wax := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))

	var top string
	switch state {
	case candlesLit:
		flame := lipgloss.NewStyle().Foreground(lipgloss.Color(colors.BlendColors("#FFB347", "#FFE680", float64(tick%3)/2)))
		top = flame.Render(flameFrames[(tick/3)%len(flameFrames)])
	case candlesOut:
		top = wax.Faint(true).Render(smokeFrames[(tick/5)%len(smokeFrames)])
	default:
		top = strings.Repeat(" ", len(candleRow))
	}

	lines := []string{top, wax.Render(candleRow)}
	for i, row := range cakeBody {
		style := sponge
		if strings.Contains(row, "~") {
			style = frosting
		}
		if i == 0 {
			style = wax
		}
		lines = append(lines, style.Render(row))
	}

	return lines
}

// renderConfetti scatters coloured glyphs over a width x height block. The
// seed is fixed per tick bucket so the pattern drifts slowly.
func renderConfetti(palette *artwork.Palette, width, height, tick int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(int64(tick / 4)))
	pieces := []string{"*", "+", "•", "✦", "~"}
	hues := []string{palette.Primary, palette.Secondary, palette.Accent, "#FFB347", "#7FD8BE"}

	lines := make([]string, height)
	for y := range lines {
		var b strings.Builder
		for x := 0; x < width; x++ {
			if rng.Float64() > 0.12 {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hues[rng.Intn(len(hues))]))
			b.WriteString(style.Render(pieces[rng.Intn(len(pieces))]))
		}
		lines[y] = b.String()
	}

	return lines
}
