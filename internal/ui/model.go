package ui

import (
	"image"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"karolbroda.com/cakeday/internal/artwork"
	"karolbroda.com/cakeday/internal/config"
	"karolbroda.com/cakeday/internal/countdown"
	"karolbroda.com/cakeday/internal/desktop"
	"karolbroda.com/cakeday/internal/logging"
	"karolbroda.com/cakeday/internal/lyrics"
	"karolbroda.com/cakeday/internal/media"
	"karolbroda.com/cakeday/internal/phase"
	"karolbroda.com/cakeday/internal/session"
	"karolbroda.com/cakeday/internal/sparkle"
	"karolbroda.com/cakeday/internal/terminal"
	"karolbroda.com/cakeday/internal/track"
)

const (
	// ControlsDelay is how long after the reveal the cake and song controls
	// appear.
	ControlsDelay = 900 * time.Millisecond
	// FinaleDelay separates the end of the song from the finale.
	FinaleDelay = 700 * time.Millisecond

	// AmbientFallback is the length of the silent stand-in for missing
	// ambient music.
	AmbientFallback = 3 * time.Minute
	// CakeFallback is the length of the silent cake clip.
	CakeFallback = 9 * time.Second
	// SongPadding is added to the last lyric when the song itself is missing.
	SongPadding = 5 * time.Second

	lyricsLoadTimeout = 15 * time.Second
	transitionTicks   = 8
)

type TickMsg time.Time

type CountdownTickMsg time.Time

type startMsg struct{}

type ControlsRevealMsg struct{}

type FadeStepMsg struct {
	Target media.Target
	ID     int
}

type FinaleMsg struct {
	SessionID uuid.UUID
}

type SparkleStaggerMsg struct {
	Gen int
}

type SparkleBurstMsg struct {
	Gen int
}

type LyricsLoadedMsg struct {
	SessionID uuid.UUID
	Track     lyrics.Track
	Err       error
}

type LyricsWatchMsg struct {
	SessionID uuid.UUID
	Watcher   *lyrics.Watcher
	Err       error
}

type LyricsChangedMsg struct {
	SessionID uuid.UUID
}

type ArtLoadedMsg struct {
	Name    string
	Image   image.Image
	Palette *artwork.Palette
	Err     error
}

type Model struct {
	logger   logrus.FieldLogger
	clock    clockwork.Clock
	termCaps *terminal.Capabilities
	notifier *desktop.Notifier
	others   *desktop.Players

	phases    *phase.Controller
	countdown *countdown.Countdown
	remaining countdown.Remaining
	controls  bool

	gate    *media.GestureGate
	players map[media.Target]media.Player
	fader   *media.Fader
	pending map[media.Target]bool
	prompt  bool
	ambient bool

	cakeWindows []session.Window
	cake        *session.Cake

	song       *session.Song
	songInfo   *track.Info
	lyricsSrc  string
	syncOffset float64
	hint       bool

	sparkles *sparkle.Field

	palette  *artwork.Palette
	artPaths map[string]string
	art      map[string]image.Image

	keys       keyMap
	help       help.Model
	hideHeader bool
	notice     string

	width          int
	height         int
	tickCount      int
	lastLineChange time.Time
	animState      AnimState
	quitting       bool
}

type ModelConfig struct {
	Logger    logrus.FieldLogger
	Clock     clockwork.Clock
	Countdown *countdown.Countdown

	// Players maps each media target to its player. Missing targets get a
	// silent timeline.
	Players  map[media.Target]media.Player
	Autoplay media.Policy

	Lyrics     string
	SongInfo   *track.Info
	SyncOffset float64
	HideHeader bool

	// Art maps asset names (assets.Backdrop, assets.Monkey, assets.Confetti)
	// to image paths.
	Art      map[string]string
	TermCaps *terminal.Capabilities
	Notifier *desktop.Notifier
	Desktop  *desktop.Players
	Notice   string
	Seed     int64
}

func NewModel(cfg ModelConfig) Model {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cd := cfg.Countdown
	if cd == nil {
		cd = countdown.NewDefault(clock)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}

	gate := media.NewGestureGate(cfg.Autoplay)
	fallbacks := map[media.Target]time.Duration{
		media.Background: AmbientFallback,
		media.Song:       AmbientFallback,
		media.Cake:       CakeFallback,
	}
	players := make(map[media.Target]media.Player, len(fallbacks))
	for target, fallback := range fallbacks {
		p, ok := cfg.Players[target]
		if !ok || p == nil {
			p = media.NewTimeline(clock, fallback)
		}
		players[target] = gate.Wrap(p)
	}

	m := Model{
		logger:         logger,
		clock:          clock,
		termCaps:       cfg.TermCaps,
		notifier:       cfg.Notifier,
		others:         cfg.Desktop,
		phases:         phase.NewController(),
		countdown:      cd,
		gate:           gate,
		players:        players,
		fader:          media.NewFader(),
		pending:        make(map[media.Target]bool),
		cakeWindows:    session.DefaultCakeWindows(),
		songInfo:       cfg.SongInfo,
		lyricsSrc:      cfg.Lyrics,
		syncOffset:     cfg.SyncOffset,
		sparkles:       sparkle.NewField(seed),
		palette:        artwork.DefaultPalette(),
		artPaths:       cfg.Art,
		art:            make(map[string]image.Image),
		keys:           newKeyMap(),
		help:           help.New(),
		hideHeader:     cfg.HideHeader,
		notice:         cfg.Notice,
		lastLineChange: clock.Now(),
	}
	m.refreshKeys()

	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return startMsg{} },
		tickCmd(),
	}
	for name, path := range m.artPaths {
		cmds = append(cmds, loadArtCmd(name, path))
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.PollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func countdownTickCmd() tea.Cmd {
	return tea.Tick(countdown.TickInterval, func(t time.Time) tea.Msg {
		return CountdownTickMsg(t)
	})
}

func controlsCmd() tea.Cmd {
	return tea.Tick(ControlsDelay, func(time.Time) tea.Msg {
		return ControlsRevealMsg{}
	})
}

func fadeStepCmd(target media.Target, id int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return FadeStepMsg{Target: target, ID: id}
	})
}

func finaleCmd(id uuid.UUID) tea.Cmd {
	return tea.Tick(FinaleDelay, func(time.Time) tea.Msg {
		return FinaleMsg{SessionID: id}
	})
}

func sparkleStaggerCmd(gen int) tea.Cmd {
	return tea.Tick(sparkle.StaggerInterval, func(time.Time) tea.Msg {
		return SparkleStaggerMsg{Gen: gen}
	})
}

func sparkleBurstCmd(gen int) tea.Cmd {
	return tea.Tick(sparkle.BurstInterval, func(time.Time) tea.Msg {
		return SparkleBurstMsg{Gen: gen}
	})
}

func (m Model) Width() int                     { return m.width }
func (m Model) Height() int                    { return m.height }
func (m Model) Phase() phase.Phase             { return m.phases.Current() }
func (m Model) Remaining() countdown.Remaining { return m.remaining }
func (m Model) ControlsVisible() bool          { return m.controls }
func (m Model) PromptVisible() bool            { return m.prompt }
func (m Model) HintVisible() bool              { return m.hint }
func (m Model) Cake() *session.Cake            { return m.cake }
func (m Model) Song() *session.Song            { return m.song }
func (m Model) SongInfo() *track.Info          { return m.songInfo }
func (m Model) Palette() *artwork.Palette      { return m.palette }
func (m Model) SyncOffset() float64            { return m.syncOffset }
func (m Model) HideHeader() bool               { return m.hideHeader }
func (m Model) TickCount() int                 { return m.tickCount }
func (m Model) LastLineChange() time.Time      { return m.lastLineChange }
func (m Model) IsQuitting() bool               { return m.quitting }
func (m Model) Sparkles() *sparkle.Field       { return m.sparkles }
func (m Model) AnimState() *AnimState          { return &m.animState }

func (m Model) Player(target media.Target) media.Player { return m.players[target] }
func (m Model) Pending(target media.Target) bool        { return m.pending[target] }

// Stop releases everything the experience holds: players, the lyric watcher,
// paused desktop players and sparkle timers.
func (m *Model) Stop() {
	m.sparkles.Stop()
	if m.song != nil {
		m.song.Detach()
	}
	if m.others != nil {
		m.others.Resume()
	}
	for target, p := range m.players {
		if err := p.Close(); err != nil {
			m.logger.WithError(err).WithField("target", target.String()).Warn("Failed to close player")
		}
	}
}
