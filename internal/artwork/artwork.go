package artwork

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"
	"strings"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"karolbroda.com/cakeday/internal/colors"
)

type Palette struct {
	Primary    string
	Secondary  string
	Accent     string
	Dim        string
	Background string
	Gradient   []string
	Source     string
}

// Load decodes a jpeg, png or gif (first frame) from disk.
func Load(path string) (image.Image, error) {
	if path == "" {
		return nil, errors.New("empty image path")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// DefaultPalette is the lavender scheme used before, or instead of, a
// backdrop palette.
func DefaultPalette() *Palette {
	return &Palette{
		Primary:    "#C0C0FF",
		Secondary:  "#B19CD9",
		Accent:     "#A855F7",
		Dim:        "#6B5B95",
		Background: "#140B22",
		Gradient:   colors.GenerateGradient("#C0C0FF", "#A855F7", 20),
		Source:     "default",
	}
}

type swatch struct {
	hex   string
	sat   float64
	value float64
	count int
}

// ExtractPalette derives the scheme from the dominant colours of img. The
// most vivid mid-bright colour leads; the darkest becomes the background.
func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	items, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(items) < 3 {
		return DefaultPalette()
	}

	swatches := make([]swatch, len(items))
	for i, it := range items {
		c := colorful.Color{R: float64(it.Color.R) / 255, G: float64(it.Color.G) / 255, B: float64(it.Color.B) / 255}
		_, s, v := c.Hsv()
		swatches[i] = swatch{hex: strings.ToUpper(c.Hex()), sat: s, value: v, count: it.Cnt}
	}

	byScore := append([]swatch(nil), swatches...)
	sort.SliceStable(byScore, func(i, j int) bool {
		return score(byScore[i]) > score(byScore[j])
	})

	darkest := swatches[0]
	for _, s := range swatches[1:] {
		if s.value < darkest.value {
			darkest = s
		}
	}

	background := colors.AdjustBrightness(darkest.hex, 0.35)
	primary := legible(brighten(byScore[0]), background)
	secondary := legible(brighten(byScore[1]), background)
	accent := brighten(byScore[2])

	return &Palette{
		Primary:    primary,
		Secondary:  secondary,
		Accent:     accent,
		Dim:        colors.BlendColors(primary, darkest.hex, 0.55),
		Background: background,
		Gradient:   colors.GenerateGradient(primary, accent, 20),
		Source:     "backdrop",
	}
}

// score favours saturated colours near 60% brightness.
func score(s swatch) float64 {
	d := s.value - 0.6
	if d < 0 {
		d = -d
	}
	return s.sat * (1 - d)
}

// minContrast is the smallest L* gap kept between text colours and the
// background.
const minContrast = 45.0

// legible blends fg toward white until it sits minContrast above bg.
func legible(fg, bg string) string {
	for i := 0; i < 8 && colors.GetLightness(fg)-colors.GetLightness(bg) < minContrast; i++ {
		fg = colors.BlendColors(fg, "#FFFFFF", 0.3)
	}
	return fg
}

// brighten lifts dark swatches so text stays readable and tames near-white
// ones.
func brighten(s swatch) string {
	switch {
	case s.value < 0.4:
		return colors.AdjustBrightness(s.hex, min(2.5, 0.4/max(s.value, 0.05)))
	case s.value > 0.85:
		return colors.BlendColors(s.hex, "#808080", 0.3)
	default:
		return s.hex
	}
}

// RenderHalfBlockArt draws img with "▀" cells, two pixels per cell. dim in
// [0, 1] darkens the picture toward black, for backdrops behind text.
func RenderHalfBlockArt(img image.Image, width, height int, dim float64) []string {
	if img == nil || width < 4 || height < 2 {
		return nil
	}

	resized := resize.Resize(uint(width), uint(height*2), img, resize.Lanczos3)
	b := resized.Bounds()

	px := func(x, y int) (string, bool) {
		if y >= b.Dy() {
			y = b.Dy() - 1
		}
		r, g, bl, a := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
		if a>>8 < 128 {
			return "", false
		}
		hex := colors.RGBToHex(int(r>>8), int(g>>8), int(bl>>8))
		if dim > 0 {
			hex = colors.Fade(hex, "#000000", 1-dim)
		}
		return hex, true
	}

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var line strings.Builder
		for x := 0; x < b.Dx(); x++ {
			top, topOK := px(x, y*2)
			bottom, bottomOK := px(x, y*2+1)

			switch {
			case !topOK && !bottomOK:
				line.WriteByte(' ')
			case !bottomOK:
				line.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(top)).Render("▀"))
			case !topOK:
				line.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(bottom)).Render("▄"))
			default:
				line.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom)).
					Render("▀"))
			}
		}
		lines[y] = line.String()
	}

	return lines
}
