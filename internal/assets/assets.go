package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"

	"karolbroda.com/cakeday/internal/track"
)

const (
	BackgroundMusic = "birthday_music.mp3"
	Song            = "perfect.mp3"
	Lyrics          = "perfect.lrc"
	CakeClip        = "cake_audio.mp3"
	Backdrop        = "background.jpeg"
	Monkey          = "monkey.gif"
	Confetti        = "confetti.gif"
)

type Kind int

const (
	Audio Kind = iota
	Text
	Image
)

func (k Kind) String() string {
	switch k {
	case Audio:
		return "audio"
	case Text:
		return "lyrics"
	case Image:
		return "image"
	default:
		return "unknown"
	}
}

type Asset struct {
	Name    string
	Path    string
	Kind    Kind
	Purpose string
}

var entries = []Asset{
	{Name: BackgroundMusic, Kind: Audio, Purpose: "ambient music"},
	{Name: Song, Kind: Audio, Purpose: "song"},
	{Name: Lyrics, Kind: Text, Purpose: "synced lyrics"},
	{Name: CakeClip, Kind: Audio, Purpose: "cake clip soundtrack"},
	{Name: Backdrop, Kind: Image, Purpose: "backdrop and palette"},
	{Name: Monkey, Kind: Image, Purpose: "reveal decoration"},
	{Name: Confetti, Kind: Image, Purpose: "cake finale decoration"},
}

// Manifest lists every file the experience looks for under dir.
func Manifest(dir string) []Asset {
	return lo.Map(entries, func(a Asset, _ int) Asset {
		a.Path = filepath.Join(dir, a.Name)
		return a
	})
}

type Status struct {
	Asset
	Exists bool
	Size   int64
	Info   *track.Info
	Err    error
}

// Check stats every asset and probes audio files. Problems are logged as
// warnings and recorded on the status; none of them stop the caller.
func Check(manifest []Asset, logger logrus.FieldLogger) []Status {
	return lo.Map(manifest, func(a Asset, _ int) Status {
		st := Status{Asset: a}

		fi, err := os.Stat(a.Path)
		if err != nil {
			st.Err = err
			logger.WithFields(logrus.Fields{
				"asset": a.Name,
				"path":  a.Path,
			}).Warn("Asset missing or not accessible")
			return st
		}
		st.Exists = true
		st.Size = fi.Size()

		if a.Kind == Audio {
			info, err := Probe(a.Path)
			if err != nil {
				st.Err = err
				logger.WithFields(logrus.Fields{
					"asset": a.Name,
					"error": err.Error(),
				}).Warn("Failed to probe audio asset")
			}
			st.Info = info
		}

		return st
	})
}

func Missing(statuses []Status) []Status {
	return lo.Filter(statuses, func(s Status, _ int) bool { return !s.Exists })
}

// Find returns the status for name.
func Find(statuses []Status, name string) (Status, bool) {
	return lo.Find(statuses, func(s Status) bool { return s.Name == name })
}

// Probe reads tags and duration. It always returns an Info; tag failures fall
// back to the file name, and a duration failure is reported as the error.
func Probe(path string) (*track.Info, error) {
	info := &track.Info{
		Title:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}

	if f, err := os.Open(path); err == nil {
		if m, err := tag.ReadFrom(f); err == nil {
			if m.Title() != "" {
				info.Title = m.Title()
			}
			info.Artist = m.Artist()
			info.Album = m.Album()
		}
		f.Close()
	}

	d, err := Duration(path)
	info.Duration = d
	return info, err
}

var ErrUnknownDuration = errors.New("cannot determine duration")

func Duration(path string) (time.Duration, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return durationMP3(path)
	case ".wav":
		return durationWAV(path)
	case ".flac":
		return durationFLAC(path)
	default:
		return 0, fmt.Errorf("%w: unsupported format %s", ErrUnknownDuration, filepath.Ext(path))
	}
}

// durationMP3 sums frame durations.
func durationMP3(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := mp3.NewDecoder(f)

	var (
		total   time.Duration
		frame   mp3.Frame
		skipped int
		frames  int
	)
	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				break
			}
			return 0, fmt.Errorf("%w: %v", ErrUnknownDuration, err)
		}
		total += frame.Duration()
		frames++
	}

	if frames == 0 {
		return 0, fmt.Errorf("%w: no mp3 frames in %s", ErrUnknownDuration, path)
	}
	return total, nil
}

func durationFLAC(path string) (time.Duration, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnknownDuration, err)
	}
	defer stream.Close()

	si := stream.Info
	if si.NSamples == 0 || si.SampleRate == 0 {
		return 0, fmt.Errorf("%w: flac stream missing sample info", ErrUnknownDuration)
	}
	return time.Duration(float64(si.NSamples) / float64(si.SampleRate) * float64(time.Second)), nil
}

func durationWAV(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%w: invalid wav file", ErrUnknownDuration)
	}

	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnknownDuration, err)
	}
	return d, nil
}
