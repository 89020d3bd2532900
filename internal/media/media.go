package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrPlaybackBlocked is returned by Play when playback needs a user gesture
// first. ErrAudioUnavailable means this build or machine cannot output sound.
var (
	ErrPlaybackBlocked   = errors.New("playback blocked until user interaction")
	ErrAudioUnavailable  = errors.New("audio output unavailable")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Player is one media element: the ambient music, the song, or the cake clip.
// Volume is linear in [0, 1].
type Player interface {
	Play() error
	Pause()
	Playing() bool
	Position() time.Duration
	Duration() time.Duration
	Seek(d time.Duration) error
	Volume() float64
	SetVolume(v float64)
	Ended() bool
	Close() error
}

type Target int

const (
	Background Target = iota
	Song
	Cake
)

func (t Target) String() string {
	switch t {
	case Background:
		return "background"
	case Song:
		return "song"
	case Cake:
		return "cake"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// Seconds is the position helper the sync engine and popup windows work in.
func Seconds(p Player) float64 {
	return p.Position().Seconds()
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Supported reports whether path has an extension the audio player decodes.
func Supported(path string) bool {
	switch formatOf(path) {
	case "mp3", "wav", "flac":
		return true
	default:
		return false
	}
}
