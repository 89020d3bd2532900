package colors

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Fallback is used wherever a hex string fails to parse.
const Fallback = "#FFFFFF"

func parse(hex string) colorful.Color {
	c, err := colorful.Hex(normalize(hex))
	if err != nil {
		c, _ = colorful.Hex(Fallback)
	}
	return c
}

func normalize(hex string) string {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return hex
}

func toHex(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

// Valid reports whether hex is a #RRGGBB or #RGB colour.
func Valid(hex string) bool {
	_, err := colorful.Hex(normalize(hex))
	return err == nil
}

// HexToRGB returns 0-255 channels; unparsable input yields white.
func HexToRGB(hex string) (int, int, int) {
	r, g, b := parse(hex).RGB255()
	return int(r), int(g), int(b)
}

func RGBToHex(r, g, b int) string {
	return toHex(colorful.Color{R: unit(r), G: unit(g), B: unit(b)})
}

func unit(v int) float64 {
	return float64(max(0, min(255, v))) / 255
}

// BlendColors mixes in HCL space along the shorter hue arc. t=0 is hex1.
func BlendColors(hex1, hex2 string, t float64) string {
	t = max(0, min(1, t))
	return toHex(parse(hex1).BlendHcl(parse(hex2), t))
}

// GenerateGradient returns steps colours from start to end inclusive.
func GenerateGradient(startHex, endHex string, steps int) []string {
	if steps < 2 {
		steps = 2
	}

	start, end := parse(startHex), parse(endHex)

	// large jumps look banded in a terminal, so ease the ends
	smooth := start.DistanceCIE76(end) > 0.5

	out := make([]string, steps)
	for i := range out {
		t := float64(i) / float64(steps-1)
		if smooth {
			t = smoothStep(t)
		}
		out[i] = toHex(start.BlendHcl(end, t))
	}
	return out
}

// GenerateMultiGradient chains gradients through every stop.
func GenerateMultiGradient(stops []string, steps int) []string {
	switch {
	case len(stops) == 0:
		return []string{Fallback}
	case len(stops) == 1 || steps < 2:
		return []string{stops[0]}
	}

	segments := len(stops) - 1
	per := max(1, (steps-1)/segments)

	out := make([]string, 0, steps)
	out = append(out, toHex(parse(stops[0])))
	for i := 0; i < segments; i++ {
		n := per
		if i == segments-1 {
			n = max(1, steps-len(out))
		}
		out = append(out, GenerateGradient(stops[i], stops[i+1], n+1)[1:]...)
	}
	return out[:min(len(out), steps)]
}

// GetLightness is the CIE L* of hex on a 0-100 scale.
func GetLightness(hex string) float64 {
	_, _, l := parse(hex).Hcl()
	return l * 100
}

// AdjustBrightness scales lightness by factor in HCL.
func AdjustBrightness(hex string, factor float64) string {
	h, c, l := parse(hex).Hcl()
	return toHex(colorful.Hcl(h, c, max(0, min(1, l*factor))))
}

// AddGlow brightens toward white by intensity in [0, 1].
func AddGlow(hex string, intensity float64) string {
	intensity = max(0, min(1, intensity))
	return toHex(parse(hex).BlendLab(colorful.Color{R: 1, G: 1, B: 1}, intensity*0.6))
}

// Fade darkens hex toward background by the inverse of opacity, the terminal
// stand-in for alpha.
func Fade(hex, background string, opacity float64) string {
	opacity = max(0, min(1, opacity))
	return toHex(parse(background).BlendLab(parse(hex), opacity))
}

func smoothStep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func RenderGradientText(text string, gradient []string, bold bool) string {
	if text == "" {
		return ""
	}
	if len(gradient) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder

	for i, r := range runes {
		idx := 0
		if len(runes) > 1 {
			idx = i * (len(gradient) - 1) / (len(runes) - 1)
		}
		idx = min(idx, len(gradient)-1)

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[idx])).Bold(bold)
		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}

// FormatTime renders whole seconds as m:ss.
func FormatTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
