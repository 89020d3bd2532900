package assets

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"karolbroda.com/cakeday/internal/logging"
)

// writeWAV writes a minimal 16-bit mono PCM file of n samples.
func writeWAV(t *testing.T, path string, rate, n int) {
	t.Helper()

	dataSize := n * 2
	buf := make([]byte, 0, 44+dataSize)
	le := binary.LittleEndian

	buf = append(buf, "RIFF"...)
	buf = le.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = le.AppendUint32(buf, 16)
	buf = le.AppendUint16(buf, 1)
	buf = le.AppendUint16(buf, 1)
	buf = le.AppendUint32(buf, uint32(rate))
	buf = le.AppendUint32(buf, uint32(rate*2))
	buf = le.AppendUint16(buf, 2)
	buf = le.AppendUint16(buf, 16)
	buf = append(buf, "data"...)
	buf = le.AppendUint32(buf, uint32(dataSize))
	buf = append(buf, make([]byte, dataSize)...)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestManifest(t *testing.T) {
	m := Manifest("all-assets")
	if len(m) != 7 {
		t.Fatalf("manifest has %d entries", len(m))
	}
	for _, a := range m {
		if a.Path != filepath.Join("all-assets", a.Name) {
			t.Errorf("%s has path %s", a.Name, a.Path)
		}
	}
}

func TestCheckReportsMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Lyrics), []byte("[00:01.00]hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	statuses := Check(Manifest(dir), logging.Discard())

	lrc, ok := Find(statuses, Lyrics)
	if !ok || !lrc.Exists || lrc.Size == 0 {
		t.Errorf("lyrics status = %+v", lrc)
	}

	missing := Missing(statuses)
	if len(missing) != 6 {
		t.Errorf("%d missing, want 6", len(missing))
	}
	for _, s := range missing {
		if !errors.Is(s.Err, os.ErrNotExist) {
			t.Errorf("%s error = %v", s.Name, s.Err)
		}
	}
}

func TestProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 8000, 8000*3/2)

	info, err := Probe(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Title != "tone" || info.Format != "wav" {
		t.Errorf("info = %+v", info)
	}
	if diff := info.Duration - 1500*time.Millisecond; diff < -10*time.Millisecond || diff > 10*time.Millisecond {
		t.Errorf("duration = %v, want 1.5s", info.Duration)
	}
}

func TestDurationUnsupported(t *testing.T) {
	if _, err := Duration("clip.ogg"); !errors.Is(err, ErrUnknownDuration) {
		t.Errorf("Duration(.ogg) error = %v", err)
	}
}

func TestDurationGarbageMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.mp3")
	if err := os.WriteFile(path, []byte("definitely not mpeg audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Duration(path); err == nil {
		t.Error("expected an error for a file with no frames")
	}
}
