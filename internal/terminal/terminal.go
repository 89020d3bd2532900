package terminal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/nfnt/resize"
)

const (
	kittyEnv       = "CAKEDAY_USE_KITTY_GRAPHICS"
	kittyChunkSize = 4096
)

type Capabilities struct {
	KittyGraphics bool
	TermProgram   string
}

// DetectCapabilities reads the environment. Kitty graphics are opt-in only.
func DetectCapabilities() *Capabilities {
	caps := &Capabilities{TermProgram: os.Getenv("TERM_PROGRAM")}

	switch strings.ToLower(os.Getenv(kittyEnv)) {
	case "1", "true", "yes", "on":
		caps.KittyGraphics = true
		if caps.TermProgram == "" {
			caps.TermProgram = "kitty"
		}
	}

	return caps
}

// Reset restores cursor, attributes, the main screen and mouse modes after an
// abnormal exit.
func Reset() {
	reset(os.Stdout)
	os.Stdout.Sync()
}

func reset(w io.Writer) {
	for _, seq := range []string{
		"\033[?25h",
		"\033[0m",
		"\033[?1049l",
		"\033[?1000l",
		"\033[?1002l",
		"\033[?1003l",
		"\033[?1006l",
	} {
		io.WriteString(w, seq)
	}
}

// EncodeImageForKitty returns the escape sequence that places img in a
// cols x rows cell box, aspect ratio preserved.
func EncodeImageForKitty(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	// roughly 10x20 pixels per cell
	w, h := float64(cols*10), float64(rows*20)
	aspect := float64(b.Dx()) / float64(b.Dy())
	if aspect > w/h {
		h = w / aspect
	} else {
		w = h * aspect
	}

	resized := resize.Resize(uint(max(10, w)), uint(max(10, h)), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	var out strings.Builder
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		if i == 0 {
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100,c=%d,r=%d,m=%d;%s\x1b\\", cols, rows, more, encoded[i:end])
		} else {
			fmt.Fprintf(&out, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}

	return out.String()
}
