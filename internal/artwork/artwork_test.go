package artwork

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/cakeday/internal/colors"
)

func stripes(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fills := []color.RGBA{
		{R: 168, G: 85, B: 247, A: 255},
		{R: 20, G: 11, B: 34, A: 255},
		{R: 216, G: 191, B: 216, A: 255},
		{R: 90, G: 200, B: 120, A: 255},
		{R: 240, G: 180, B: 60, A: 255},
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fills[(x*len(fills))/w])
		}
	}
	return img
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "background.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, stripes(20, 10)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.jpeg")); err == nil {
		t.Error("expected error for missing image")
	}
}

func TestExtractPaletteNil(t *testing.T) {
	p := ExtractPalette(nil)
	if p.Source != "default" || p.Primary != DefaultPalette().Primary {
		t.Errorf("nil image palette = %+v", p)
	}
}

func TestExtractPalette(t *testing.T) {
	p := ExtractPalette(stripes(100, 40))
	for name, hex := range map[string]string{"primary": p.Primary, "accent": p.Accent, "background": p.Background} {
		if len(hex) != 7 || hex[0] != '#' {
			t.Errorf("%s = %q", name, hex)
		}
	}
	if len(p.Gradient) != 20 {
		t.Errorf("gradient has %d stops", len(p.Gradient))
	}
	if gap := colors.GetLightness(p.Primary) - colors.GetLightness(p.Background); gap < minContrast {
		t.Errorf("primary %s too close to background %s (gap %.1f)", p.Primary, p.Background, gap)
	}
}

func TestLegible(t *testing.T) {
	const bg = "#140B22"

	if got := legible("#C0C0FF", bg); got != "#C0C0FF" {
		t.Errorf("readable colour changed to %s", got)
	}

	got := legible("#2A1F3D", bg)
	if gap := colors.GetLightness(got) - colors.GetLightness(bg); gap < minContrast {
		t.Errorf("legible(#2A1F3D) = %s, gap %.1f", got, gap)
	}
}

func TestRenderHalfBlockArt(t *testing.T) {
	lines := RenderHalfBlockArt(stripes(40, 40), 16, 6, 0.5)
	if len(lines) != 6 {
		t.Fatalf("rendered %d lines", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 16 {
			t.Errorf("line %d width = %d", i, w)
		}
	}

	if RenderHalfBlockArt(nil, 16, 6, 0) != nil {
		t.Error("nil image rendered")
	}
}
