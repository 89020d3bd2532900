package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/cakeday/internal/artwork"
	"karolbroda.com/cakeday/internal/colors"
	"karolbroda.com/cakeday/internal/lyrics"
)

// pixelFont holds 5x5 glyphs, one byte per row, most significant of the low
// five bits on the left. Text is upper-cased before lookup.
var pixelFont = map[rune][5]uint8{
	'A': {0b01110, 0b10001, 0b11111, 0b10001, 0b10001},
	'B': {0b11110, 0b10001, 0b11110, 0b10001, 0b11110},
	'C': {0b01111, 0b10000, 0b10000, 0b10000, 0b01111},
	'D': {0b11110, 0b10001, 0b10001, 0b10001, 0b11110},
	'E': {0b11111, 0b10000, 0b11110, 0b10000, 0b11111},
	'F': {0b11111, 0b10000, 0b11110, 0b10000, 0b10000},
	'G': {0b01111, 0b10000, 0b10011, 0b10001, 0b01110},
	'H': {0b10001, 0b10001, 0b11111, 0b10001, 0b10001},
	'I': {0b11111, 0b00100, 0b00100, 0b00100, 0b11111},
	'J': {0b00111, 0b00001, 0b00001, 0b10001, 0b01110},
	'K': {0b10001, 0b10010, 0b11100, 0b10010, 0b10001},
	'L': {0b10000, 0b10000, 0b10000, 0b10000, 0b11111},
	'M': {0b10001, 0b11011, 0b10101, 0b10001, 0b10001},
	'N': {0b10001, 0b11001, 0b10101, 0b10011, 0b10001},
	'O': {0b01110, 0b10001, 0b10001, 0b10001, 0b01110},
	'P': {0b11110, 0b10001, 0b11110, 0b10000, 0b10000},
	'Q': {0b01110, 0b10001, 0b10101, 0b10010, 0b01101},
	'R': {0b11110, 0b10001, 0b11110, 0b10010, 0b10001},
	'S': {0b01111, 0b10000, 0b01110, 0b00001, 0b11110},
	'T': {0b11111, 0b00100, 0b00100, 0b00100, 0b00100},
	'U': {0b10001, 0b10001, 0b10001, 0b10001, 0b01110},
	'V': {0b10001, 0b10001, 0b10001, 0b01010, 0b00100},
	'W': {0b10001, 0b10001, 0b10101, 0b11011, 0b10001},
	'X': {0b10001, 0b01010, 0b00100, 0b01010, 0b10001},
	'Y': {0b10001, 0b01010, 0b00100, 0b00100, 0b00100},
	'Z': {0b11111, 0b00010, 0b00100, 0b01000, 0b11111},

	'0': {0b11111, 0b10001, 0b10001, 0b10001, 0b11111},
	'1': {0b00110, 0b01010, 0b00010, 0b00010, 0b00111},
	'2': {0b11111, 0b00001, 0b11111, 0b10000, 0b11111},
	'3': {0b11111, 0b00001, 0b01111, 0b00001, 0b11111},
	'4': {0b10001, 0b10001, 0b11111, 0b00001, 0b00001},
	'5': {0b11111, 0b10000, 0b11111, 0b00001, 0b11111},
	'6': {0b11111, 0b10000, 0b11111, 0b10001, 0b11111},
	'7': {0b11111, 0b00001, 0b00010, 0b00100, 0b00100},
	'8': {0b11111, 0b10001, 0b11111, 0b10001, 0b11111},
	'9': {0b11111, 0b10001, 0b11111, 0b00001, 0b11111},

	' ':  {},
	'.':  {0b00000, 0b00000, 0b00000, 0b00000, 0b00100},
	',':  {0b00000, 0b00000, 0b00000, 0b00100, 0b01000},
	'!':  {0b00100, 0b00100, 0b00100, 0b00000, 0b00100},
	'?':  {0b01110, 0b10001, 0b00110, 0b00000, 0b00100},
	'\'': {0b00100, 0b00100, 0b00000, 0b00000, 0b00000},
	'"':  {0b01010, 0b01010, 0b00000, 0b00000, 0b00000},
	'-':  {0b00000, 0b00000, 0b11111, 0b00000, 0b00000},
	':':  {0b00000, 0b00100, 0b00000, 0b00100, 0b00000},
	'(':  {0b00010, 0b00100, 0b00100, 0b00100, 0b00010},
	')':  {0b01000, 0b00100, 0b00100, 0b00100, 0b01000},
	'·':  {0b00000, 0b00000, 0b00100, 0b00000, 0b00000},
	'&':  {0b01100, 0b10010, 0b01101, 0b10010, 0b01101},
	'♥':  {0b01010, 0b11111, 0b11111, 0b01110, 0b00100},
}

const (
	charWidth  = 5
	charHeight = 5
	charGap    = 1
)

type pixel struct {
	filled bool
	char   int
	x      int
}

// glyphGrid is text rasterised into charHeight rows of pixels.
type glyphGrid struct {
	rows  [charHeight][]pixel
	chars int
	width int
}

func rasterize(text string) glyphGrid {
	runes := []rune(strings.ToUpper(text))
	g := glyphGrid{chars: len(runes)}
	if len(runes) == 0 {
		return g
	}
	g.width = len(runes)*(charWidth+charGap) - charGap

	x := 0
	for i, r := range runes {
		bits, ok := pixelFont[r]
		if !ok {
			bits = pixelFont[' ']
		}
		for row := 0; row < charHeight; row++ {
			for col := 0; col < charWidth; col++ {
				on := (bits[row]>>(charWidth-1-col))&1 == 1
				g.rows[row] = append(g.rows[row], pixel{filled: on, char: i, x: x + col})
			}
			if i < len(runes)-1 {
				g.rows[row] = append(g.rows[row], pixel{char: i, x: x + charWidth})
			}
		}
		x += charWidth + charGap
	}

	return g
}

// PixelWidth is the rendered width in cells of text in the pixel font.
func PixelWidth(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return n*(charWidth+charGap) - charGap
}

// paint folds pixel rows in pairs into half-block cells. shade picks the
// colour of a cell from its upper (or only) pixel.
func (g glyphGrid) paint(pad int, shade func(p pixel) string) []string {
	termRows := (charHeight + 1) / 2
	out := make([]string, termRows)
	padding := strings.Repeat(" ", max(0, pad))

	for tr := 0; tr < termRows; tr++ {
		top := tr * 2
		bottom := top + 1

		var line strings.Builder
		line.WriteString(padding)

		for col := 0; col < g.width; col++ {
			tp := g.rows[top][col]
			bottomFilled := bottom < charHeight && g.rows[bottom][col].filled

			if !tp.filled && !bottomFilled {
				line.WriteByte(' ')
				continue
			}

			ref := tp
			if !tp.filled {
				ref = g.rows[bottom][col]
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(shade(ref)))

			switch {
			case tp.filled && bottomFilled:
				line.WriteString(style.Render("█"))
			case tp.filled:
				line.WriteString(style.Render("▀"))
			default:
				line.WriteString(style.Render("▄"))
			}
		}

		out[tr] = line.String()
	}

	return out
}

type TextRenderer struct {
	palette     *artwork.Palette
	animState   *AnimState
	screenWidth int
}

func NewTextRenderer(palette *artwork.Palette, animState *AnimState, screenWidth int) *TextRenderer {
	return &TextRenderer{
		palette:     palette,
		animState:   animState,
		screenWidth: screenWidth,
	}
}

// RenderFocusLyric draws the active line with a left-to-right reveal and a
// glow that decays after the line changes.
func (r *TextRenderer) RenderFocusLyric(text string) []string {
	var out []string
	for _, line := range r.wrapText(text) {
		g := rasterize(line)
		out = append(out, g.paint(r.centerPad(g.width), func(p pixel) string {
			return r.focusColor(p, g.chars, g.width)
		})...)
	}
	return out
}

// RenderContextLyric draws a neighbouring line. Past lines lean toward the
// secondary colour, upcoming ones stay dim.
func (r *TextRenderer) RenderContextLyric(text string, brightness float64, state lyrics.LineState, isPast bool) []string {
	base := r.palette.Dim
	if isPast {
		base = colors.BlendColors(r.palette.Dim, r.palette.Secondary, 0.35)
	}
	if state == lyrics.LineFadingOut {
		base = colors.BlendColors(base, r.palette.Primary, clamp(1-r.animState.SlideOffset(), 0, 1)*0.6)
	}
	fg := colors.Fade(base, r.palette.Background, clamp(brightness*1.6, 0.2, 1))

	var out []string
	for _, line := range r.wrapText(text) {
		g := rasterize(line)
		out = append(out, g.paint(r.centerPad(g.width), func(pixel) string { return fg })...)
	}
	return out
}

// RenderBanner draws text across the palette gradient with a slow shimmer,
// for the countdown digits.
func (r *TextRenderer) RenderBanner(text string) []string {
	g := rasterize(text)
	gradient := r.palette.Gradient
	if len(gradient) == 0 {
		gradient = []string{r.palette.Primary, r.palette.Accent}
	}

	return g.paint(r.centerPad(g.width), func(p pixel) string {
		pos := 0.0
		if g.width > 1 {
			pos = float64(p.x) / float64(g.width-1)
		}
		c := gradient[int(pos*float64(len(gradient)-1))]
		shimmer := math.Sin(r.animState.ShimmerPhase-float64(p.x)*0.08)*0.5 + 0.5
		if shimmer > 0.7 {
			c = colors.AddGlow(c, (shimmer-0.7)*0.8)
		}
		return c
	})
}

func (r *TextRenderer) centerPad(pixelWidth int) int {
	return (r.screenWidth - pixelWidth) / 2
}

func (r *TextRenderer) wrapText(text string) []string {
	maxChars := max(5, (r.screenWidth-8)/(charWidth+charGap))

	var lines []string
	var current string

	for _, word := range strings.Fields(text) {
		if len([]rune(word)) > maxChars {
			word = string([]rune(word)[:maxChars])
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if len([]rune(candidate)) <= maxChars {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

func (r *TextRenderer) focusColor(p pixel, chars int, width int) string {
	reveal := easeOutQuart(r.animState.CharReveal)
	wave := 0.03
	if chars > 20 {
		wave = 0.8 / float64(chars)
	}
	charT := clamp(reveal-float64(p.char)*wave, 0, 1)
	if r.animState.CharReveal >= 1 {
		charT = 1
	}

	pos := 0.0
	if width > 1 {
		pos = float64(p.x) / float64(width-1)
	}
	c := colors.BlendColors(r.palette.Primary, r.palette.Accent, pos)

	if r.animState.GlowIntensity > 0.05 {
		c = colors.AddGlow(c, r.animState.GlowIntensity*0.5)
	}

	shimmer := math.Sin(r.animState.ShimmerPhase+float64(p.x)*0.05)*0.5 + 0.5
	if shimmer > 0.5 {
		c = colors.AddGlow(c, (shimmer-0.5)*0.25)
	}

	return colors.Fade(c, r.palette.Background, max(0.08, easeOutCubic(charT)))
}
