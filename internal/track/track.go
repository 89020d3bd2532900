package track

import (
	"time"

	"karolbroda.com/cakeday/internal/colors"
)

// Info describes an audio asset as shown in the header.
type Info struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	Path     string
	Format   string
}

func (t *Info) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != ""
}

// Label is "Title - Artist", or just the title when the artist is unknown.
func (t *Info) Label() string {
	if !t.IsValid() {
		return ""
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

func (t *Info) DurationLabel() string {
	if t == nil || t.Duration <= 0 {
		return "-:--"
	}
	return colors.FormatTime(int64(t.Duration.Round(time.Second) / time.Second))
}
