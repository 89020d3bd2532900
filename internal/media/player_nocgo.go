//go:build linux && !cgo

package media

import "fmt"

// AudioAvailable indicates whether audio playback is supported in this build.
// On linux the speaker needs cgo for ALSA.
const AudioAvailable = false

// AudioPlayer is never constructed in this build; OpenAudio always fails and
// callers fall back to a Timeline.
type AudioPlayer struct {
	Timeline
}

func OpenAudio(path string) (*AudioPlayer, error) {
	return nil, fmt.Errorf("%w: built without cgo, cannot play %q", ErrAudioUnavailable, path)
}
