package colors

import "testing"

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#C0C0FF", 192, 192, 255},
		{"B19CD9", 177, 156, 217},
		{"#fff", 255, 255, 255},
		{"nonsense", 255, 255, 255},
	}
	for _, tt := range tests {
		r, g, b := HexToRGB(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("HexToRGB(%q) = %d,%d,%d", tt.in, r, g, b)
		}
	}
}

func TestBlendEndpoints(t *testing.T) {
	if got := BlendColors("#A855F7", "#D8BFD8", 0); got != "#A855F7" {
		t.Errorf("t=0 gave %s", got)
	}
	if got := BlendColors("#A855F7", "#D8BFD8", 1); got != "#D8BFD8" {
		t.Errorf("t=1 gave %s", got)
	}
}

func TestGetLightness(t *testing.T) {
	tests := []struct {
		hex    string
		lo, hi float64
	}{
		{"#000000", 0, 0.5},
		{"#777777", 45, 55},
		{"#FFFFFF", 99.5, 100.5},
	}
	for _, tt := range tests {
		if got := GetLightness(tt.hex); got < tt.lo || got > tt.hi {
			t.Errorf("GetLightness(%s) = %.2f, want [%v, %v]", tt.hex, got, tt.lo, tt.hi)
		}
	}
}

func TestGenerateGradient(t *testing.T) {
	g := GenerateGradient("#000000", "#FFFFFF", 5)
	if len(g) != 5 {
		t.Fatalf("len = %d", len(g))
	}
	if g[0] != "#000000" || g[4] != "#FFFFFF" {
		t.Errorf("endpoints = %s, %s", g[0], g[4])
	}
	for i := 1; i < len(g); i++ {
		if GetLightness(g[i]) < GetLightness(g[i-1]) {
			t.Errorf("lightness decreased at %d: %v", i, g)
		}
	}
}

func TestGenerateMultiGradientLength(t *testing.T) {
	for _, steps := range []int{2, 7, 12, 31} {
		g := GenerateMultiGradient([]string{"#FF0000", "#00FF00", "#0000FF"}, steps)
		if len(g) != steps {
			t.Errorf("steps=%d gave %d colours", steps, len(g))
		}
	}
}

func TestFade(t *testing.T) {
	if got := Fade("#C0C0FF", "#000000", 1); got != "#C0C0FF" {
		t.Errorf("opaque fade = %s", got)
	}
	if got := Fade("#C0C0FF", "#000000", 0); got != "#000000" {
		t.Errorf("transparent fade = %s", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[int64]string{0: "0:00", 59: "0:59", 61: "1:01", 263: "4:23", -3: "0:00"}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%d) = %s, want %s", in, got, want)
		}
	}
}
