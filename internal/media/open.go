package media

import (
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
)

// Open returns a speaker-backed player for path. When the file is missing,
// undecodable or sound is unavailable it returns a silent Timeline of the
// fallback length together with the reason, so the caller always gets a
// usable Player.
func Open(path string, fallback time.Duration, clock clockwork.Clock) (Player, error) {
	if _, err := os.Stat(path); err != nil {
		return NewTimeline(clock, fallback), fmt.Errorf("audio asset unavailable: %w", err)
	}
	if !Supported(path) {
		return NewTimeline(clock, fallback), fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if !AudioAvailable {
		return NewTimeline(clock, fallback), ErrAudioUnavailable
	}

	p, err := OpenAudio(path)
	if err != nil {
		return NewTimeline(clock, fallback), err
	}
	return p, nil
}
