//go:build !linux || cgo

package media

import (
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the output device once for every player in the process.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return fmt.Errorf("%w: %v", ErrAudioUnavailable, speakerErr)
	}
	return nil
}

// AudioPlayer plays one decoded file through the shared speaker. The mixer
// runs on its own goroutine, so streamer state is only touched under the
// speaker lock.
type AudioPlayer struct {
	mu sync.Mutex

	path     string
	streamer beep.StreamSeekCloser
	format   beep.Format
	volume   *effects.Volume
	ctrl     *beep.Ctrl
	level    float64

	queued atomic.Bool
	ended  atomic.Bool
	closed bool
}

// OpenAudio decodes path (mp3, wav or flac) and prepares it paused.
func OpenAudio(path string) (*AudioPlayer, error) {
	if err := initSpeaker(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch formatOf(path) {
	case "mp3":
		streamer, format, err = mp3.Decode(f)
	case "wav":
		streamer, format, err = wav.Decode(f)
	case "flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}

	p := &AudioPlayer{
		path:     path,
		streamer: streamer,
		format:   format,
		level:    1,
	}

	resampled := beep.Resample(4, format.SampleRate, speakerRate, streamer)
	p.volume = &effects.Volume{Streamer: resampled, Base: 2}
	p.ctrl = &beep.Ctrl{Streamer: p.volume, Paused: true}

	return p, nil
}

func (p *AudioPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("player for %q is closed", p.path)
	}

	if p.ended.Load() {
		speaker.Lock()
		err := p.streamer.Seek(0)
		speaker.Unlock()
		if err != nil {
			return fmt.Errorf("failed to rewind %q: %w", p.path, err)
		}
		p.ended.Store(false)
	}

	if !p.queued.Load() {
		p.queued.Store(true)
		speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
			// runs on the mixer goroutine with the speaker lock held
			p.queued.Store(false)
			p.ended.Store(true)
		})))
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()

	return nil
}

func (p *AudioPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *AudioPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.queued.Load() || p.ended.Load() {
		return false
	}

	speaker.Lock()
	paused := p.ctrl.Paused
	speaker.Unlock()
	return !paused
}

func (p *AudioPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()

	return p.format.SampleRate.D(pos)
}

func (p *AudioPlayer) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.format.SampleRate.D(p.streamer.Len())
}

func (p *AudioPlayer) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	samples := p.format.SampleRate.N(d)
	samples = max(0, min(samples, p.streamer.Len()-1))

	speaker.Lock()
	err := p.streamer.Seek(samples)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("failed to seek %q: %w", p.path, err)
	}

	if samples < p.streamer.Len()-1 {
		p.ended.Store(false)
	}
	return nil
}

func (p *AudioPlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// SetVolume maps a linear level onto beep's exponential volume effect.
func (p *AudioPlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = clampVolume(v)

	speaker.Lock()
	if p.level <= 0.001 {
		p.volume.Silent = true
	} else {
		p.volume.Silent = false
		p.volume.Volume = math.Log2(p.level)
	}
	speaker.Unlock()
}

func (p *AudioPlayer) Ended() bool {
	return p.ended.Load()
}

func (p *AudioPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	speaker.Lock()
	p.ctrl.Paused = true
	p.ctrl.Streamer = nil
	speaker.Unlock()

	return p.streamer.Close()
}
