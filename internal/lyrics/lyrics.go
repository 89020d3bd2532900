package lyrics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// timeTag matches one [minutes:seconds] or [minutes:seconds.fraction] tag.
var timeTag = regexp.MustCompile(`\[(\d+):(\d+(?:\.\d+)?)\]`)

type Line struct {
	TimeSeconds float64
	Text        string
}

// Track is a parsed lyric file ordered by time. It is never mutated after
// parsing; a reload produces a new Track.
type Track []Line

func (t Track) Len() int { return len(t) }

// Duration is the timestamp of the last line, or zero for an empty track.
func (t Track) Duration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].TimeSeconds
}

// Parse converts lrc text into a Track. Every timestamp tag on a line emits
// its own entry sharing the line's text, so repeated choruses can be written
// once. Lines without a tag are ignored.
func Parse(raw string) Track {
	if raw == "" {
		return nil
	}

	rawLines := strings.Split(raw, "\n")
	result := make(Track, 0, len(rawLines))

	for _, rawLine := range rawLines {
		rawLine = strings.TrimSuffix(rawLine, "\r")

		matches := timeTag.FindAllStringSubmatch(rawLine, -1)
		if len(matches) == 0 {
			continue
		}

		text := strings.TrimSpace(timeTag.ReplaceAllString(rawLine, ""))

		for _, match := range matches {
			seconds, ok := tagSeconds(match[1], match[2])
			if !ok {
				continue
			}
			result = append(result, Line{TimeSeconds: seconds, Text: text})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimeSeconds < result[j].TimeSeconds
	})

	return result
}

func tagSeconds(minutesPart string, secondsPart string) (float64, bool) {
	minutes, err := strconv.ParseFloat(minutesPart, 64)
	if err != nil || minutes < 0 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(secondsPart, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return minutes*60 + seconds, true
}

// FindActiveIndex returns the greatest index whose time is <= position, or -1
// when position is before the first line.
func FindActiveIndex(track Track, positionSeconds float64) int {
	if len(track) == 0 {
		return -1
	}

	next := sort.Search(len(track), func(i int) bool {
		return track[i].TimeSeconds > positionSeconds
	})

	return next - 1
}

// FormatTimestamp renders seconds as m:ss.cc, the inverse of a time tag.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	secs := seconds - float64(minutes*60)
	return fmt.Sprintf("%d:%05.2f", minutes, secs)
}
