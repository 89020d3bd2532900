package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"karolbroda.com/cakeday/internal/artwork"
	"karolbroda.com/cakeday/internal/assets"
	"karolbroda.com/cakeday/internal/lyrics"
	"karolbroda.com/cakeday/internal/media"
	"karolbroda.com/cakeday/internal/session"
)

var playOrder = []media.Target{media.Background, media.Song, media.Cake}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case startMsg:
		cmd = m.handleStart()

	case CountdownTickMsg:
		cmd = m.handleCountdownTick()

	case TickMsg:
		cmd = m.handleTick()

	case ControlsRevealMsg:
		m.controls = true

	case FadeStepMsg:
		cmd = m.handleFadeStep(msg)

	case FinaleMsg:
		cmd = m.handleFinale(msg)

	case SparkleStaggerMsg:
		if m.sparkles.Stagger(msg.Gen, m.clock.Now()) {
			cmd = sparkleStaggerCmd(msg.Gen)
		}

	case SparkleBurstMsg:
		if m.sparkles.Burst(msg.Gen, m.clock.Now()) {
			cmd = sparkleBurstCmd(msg.Gen)
		}

	case LyricsLoadedMsg:
		cmd = m.handleLyricsLoaded(msg)

	case LyricsWatchMsg:
		cmd = m.handleLyricsWatch(msg)

	case LyricsChangedMsg:
		cmd = m.handleLyricsChanged(msg)

	case ArtLoadedMsg:
		m.handleArtLoaded(msg)
	}

	m.refreshKeys()
	return m, cmd
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// any key press counts as the gesture that unlocks sound
	m.gate.Interact()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Stop()
		return tea.Quit

	case m.cakePopupOpen() && key.Matches(msg, m.keys.Close):
		// the open popup owns enter until it is dismissed
		m.dismissCakePopup()

	case key.Matches(msg, m.keys.Acknowledge):
		m.acknowledge()

	case key.Matches(msg, m.keys.Close):
		if !m.dismissCakePopup() {
			m.hint = false
		}

	case key.Matches(msg, m.keys.Cancel):
		m.cancel()

	case key.Matches(msg, m.keys.Cake):
		m.startCake()

	case key.Matches(msg, m.keys.Song):
		return m.startSong()

	case key.Matches(msg, m.keys.Back):
		m.back()

	case key.Matches(msg, m.keys.SyncUp):
		m.setSyncOffset(m.syncOffset + 0.1)

	case key.Matches(msg, m.keys.SyncDown):
		m.setSyncOffset(m.syncOffset - 0.1)

	case key.Matches(msg, m.keys.SyncForward):
		m.setSyncOffset(m.syncOffset + 0.5)

	case key.Matches(msg, m.keys.SyncBack):
		m.setSyncOffset(m.syncOffset - 0.5)

	case key.Matches(msg, m.keys.SyncReset):
		m.setSyncOffset(0)

	case key.Matches(msg, m.keys.Header):
		m.hideHeader = !m.hideHeader

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return nil
}

func (m *Model) handleStart() tea.Cmd {
	m.logger.WithField("target", m.countdown.Target()).Info("Countdown started")
	m.startAmbient()
	return m.handleCountdownTick()
}

func (m *Model) handleCountdownTick() tea.Cmd {
	remaining, fired := m.countdown.Tick()
	m.remaining = remaining

	if fired {
		return m.reveal()
	}
	if m.countdown.Expired() {
		return nil
	}
	return countdownTickCmd()
}

func (m *Model) reveal() tea.Cmd {
	tr, err := m.phases.Expire()
	if err != nil {
		m.logger.WithError(err).Warn("Reveal rejected")
		return nil
	}

	m.logger.WithField("transition", tr.String()).Info("Countdown reached zero")
	m.notifier.Notify("Happy birthday!", "The countdown is over.")
	m.startAmbient()

	return controlsCmd()
}

// handleTick is the media poll: it plays the role of the players' time
// updates for popups, lyric sync and end-of-media detection.
func (m *Model) handleTick() tea.Cmd {
	m.tickCount++
	now := m.clock.Now()
	cmds := []tea.Cmd{tickCmd()}

	if m.cake != nil {
		m.watchCake()
	}

	lineChanged := false
	if m.song != nil && !m.song.Finished() {
		song := m.players[media.Song]
		hl := m.song.Update(media.Seconds(song))
		if hl.Changed {
			lineChanged = true
			m.lastLineChange = now
		}
		if song.Ended() {
			cmds = append(cmds, m.finishSong())
		}
	}

	m.loopAmbient()
	m.sparkles.Advance(now)
	m.animState.Update(m.tickCount, lineChanged, transitionTicks)

	return tea.Batch(cmds...)
}

func (m *Model) play(target media.Target) bool {
	if err := m.players[target].Play(); err != nil {
		m.playFailed(target, err)
		return false
	}
	delete(m.pending, target)
	m.syncPrompt()
	return true
}

func (m *Model) playFailed(target media.Target, err error) {
	entry := m.logger.WithField("target", target.String())
	if errors.Is(err, media.ErrPlaybackBlocked) {
		m.pending[target] = true
		m.prompt = true
		entry.Info("Playback blocked until a key press")
		return
	}
	entry.WithError(err).Warn("Playback failed")
}

// syncPrompt hides the manual-start prompt once nothing is waiting on it.
func (m *Model) syncPrompt() {
	if len(m.pending) == 0 {
		m.prompt = false
	}
}

func (m *Model) acknowledge() {
	m.prompt = false
	for _, target := range playOrder {
		if !m.pending[target] {
			continue
		}
		if m.play(target) {
			m.logger.WithField("target", target.String()).Info("Playback started from prompt")
		}
	}
}

func (m *Model) cancel() {
	switch {
	case m.dismissCakePopup():
	case m.hint:
		m.hint = false
	case m.prompt:
		m.prompt = false
		m.logger.Debug("Manual-start prompt dismissed")
	}
}

func (m *Model) startAmbient() {
	m.ambient = true
	if m.players[media.Background].Playing() {
		return
	}
	m.play(media.Background)
}

func (m *Model) loopAmbient() {
	bg := m.players[media.Background]
	if !m.ambient || !bg.Ended() {
		return
	}
	if _, fading := m.fader.Current(media.Background); fading {
		return
	}
	if err := bg.Seek(0); err != nil {
		m.logger.WithError(err).Warn("Failed to rewind ambient music")
		return
	}
	m.play(media.Background)
}

func (m *Model) fadeOut(target media.Target) tea.Cmd {
	p := m.players[target]
	if !p.Playing() {
		m.fader.Cancel(target)
		return nil
	}

	fade := m.fader.Start(media.NewFadeOut(target, p.Volume(), media.FadeDuration))
	return fadeStepCmd(target, fade.ID, fade.Interval())
}

func (m *Model) fadeIn(target media.Target) tea.Cmd {
	p := m.players[target]
	fade := m.fader.Start(media.NewFadeIn(target, media.FadeDuration))

	if err := fade.Begin(p); err != nil {
		m.fader.Finish(target, fade.ID)
		p.SetVolume(media.FadeInTarget)
		m.playFailed(target, err)
		return nil
	}

	return fadeStepCmd(target, fade.ID, fade.Interval())
}

func (m *Model) handleFadeStep(msg FadeStepMsg) tea.Cmd {
	fade, ok := m.fader.Active(msg.Target, msg.ID)
	if !ok {
		return nil
	}
	if fade.Step(m.players[msg.Target]) {
		m.fader.Finish(msg.Target, msg.ID)
		return nil
	}
	return fadeStepCmd(msg.Target, msg.ID, fade.Interval())
}

func (m *Model) startCake() {
	tr, err := m.phases.StartCake()
	if err != nil {
		m.logger.WithError(err).Debug("Cake trigger ignored")
		return
	}

	clip := m.players[media.Cake]
	clip.Pause()
	if err := clip.Seek(0); err != nil {
		m.logger.WithError(err).Warn("Failed to rewind cake clip")
	}

	m.cake = session.NewCake(m.cakeWindows, m.clock.Now())
	m.logger.WithFields(logrus.Fields{
		"transition": tr.String(),
		"session":    m.cake.ID,
	}).Info("Cake ceremony started")

	m.play(media.Cake)
}

func (m *Model) watchCake() {
	clip := m.players[media.Cake]

	if w, ok := m.cake.Check(media.Seconds(clip)); ok {
		clip.Pause()
		m.logger.WithFields(logrus.Fields{
			"session": m.cake.ID,
			"window":  w.ID,
		}).Info("Cake clip paused for message")
	}

	if clip.Ended() && m.cake.End() {
		m.logger.WithField("session", m.cake.ID).Info("Cake clip finished")
	}
}

// dismissCakePopup closes the cake message and resumes the clip. It reports
// false when no message was open.
func (m *Model) dismissCakePopup() bool {
	if m.cake == nil || !m.cake.Dismiss() {
		return false
	}
	if !m.cake.Ended() && !m.players[media.Cake].Playing() {
		m.play(media.Cake)
	}
	return true
}

func (m *Model) leaveCake() {
	if m.cake == nil {
		return
	}
	m.players[media.Cake].Pause()
	delete(m.pending, media.Cake)
	m.syncPrompt()
	m.cake = nil
}

func (m *Model) back() {
	tr, err := m.phases.Back()
	if err != nil {
		m.logger.WithError(err).Debug("Back ignored")
		return
	}
	m.leaveCake()
	m.logger.WithField("transition", tr.String()).Info("Left cake ceremony")
}

func (m *Model) startSong() tea.Cmd {
	tr, err := m.phases.StartSong()
	if err != nil {
		m.logger.WithError(err).Debug("Song trigger ignored")
		return nil
	}

	m.leaveCake()

	now := m.clock.Now()
	m.ambient = false
	delete(m.pending, media.Background)
	fade := m.fadeOut(media.Background)

	m.song = session.NewSong(m.lyricsSrc, m.syncOffset, now)
	m.hint = true
	m.lastLineChange = now
	m.animState.Reset()

	if m.others != nil {
		if n := m.others.PauseOthers(); n > 0 {
			m.logger.WithField("count", n).Info("Paused other media players")
		}
	}

	song := m.players[media.Song]
	song.Pause()
	if err := song.Seek(0); err != nil {
		m.logger.WithError(err).Warn("Failed to rewind song")
	}
	m.play(media.Song)
	m.syncPrompt()

	m.logger.WithFields(logrus.Fields{
		"transition": tr.String(),
		"session":    m.song.ID,
		"lyrics":     m.lyricsSrc,
	}).Info("Song started")

	return tea.Batch(fade, loadLyricsCmd(m.song.ID, m.lyricsSrc))
}

func (m *Model) finishSong() tea.Cmd {
	if !m.song.Finish() {
		return nil
	}
	if err := m.phases.FinishSong(); err != nil {
		m.logger.WithError(err).Warn("Song finish rejected")
	}

	delete(m.pending, media.Song)
	m.syncPrompt()
	m.lastLineChange = m.clock.Now()

	if m.others != nil {
		m.others.Resume()
	}

	m.ambient = true
	fade := m.fadeIn(media.Background)

	m.logger.WithField("session", m.song.ID).Info("Song finished")

	return tea.Batch(fade, finaleCmd(m.song.ID))
}

func (m *Model) handleFinale(msg FinaleMsg) tea.Cmd {
	if m.song == nil || m.song.ID != msg.SessionID {
		return nil
	}

	tr, err := m.phases.EnterFinale()
	if err != nil {
		m.logger.WithError(err).Debug("Finale ignored")
		return nil
	}

	m.hint = false
	now := m.clock.Now()
	gen := m.sparkles.Start(now)
	m.sparkles.Stagger(gen, now)

	m.logger.WithFields(logrus.Fields{
		"transition": tr.String(),
		"generation": gen,
	}).Info("Finale started")

	return tea.Batch(sparkleStaggerCmd(gen), sparkleBurstCmd(gen))
}

func (m *Model) setSyncOffset(offset float64) {
	m.syncOffset = offset
	if m.song == nil {
		return
	}

	m.song.Syncer().SetOffset(offset)
	hl := m.song.Update(media.Seconds(m.players[media.Song]))
	if hl.Changed {
		m.lastLineChange = m.clock.Now()
		m.animState.Update(m.tickCount, true, transitionTicks)
	}
	m.logger.WithField("offset", offset).Debug("Lyric sync offset changed")
}

// liveSong reports whether id names the running, unfinished song session.
func (m *Model) liveSong(id uuid.UUID) bool {
	return m.song != nil && m.song.ID == id && !m.song.Finished()
}

func (m *Model) handleLyricsLoaded(msg LyricsLoadedMsg) tea.Cmd {
	if !m.liveSong(msg.SessionID) {
		return nil
	}

	entry := m.logger.WithFields(logrus.Fields{
		"session": msg.SessionID,
		"source":  m.song.Source,
	})

	if msg.Err != nil {
		m.song.SetLoadError(msg.Err)
		entry.WithError(msg.Err).Warn("Lyrics failed to load")
		return nil
	}

	m.song.SetTrack(msg.Track)
	m.song.Update(media.Seconds(m.players[media.Song]))
	m.animState.Reset()
	entry.WithField("lines", msg.Track.Len()).Info("Lyrics loaded")

	if m.song.Watcher() != nil || m.song.Source == "" || lyrics.IsRemote(m.song.Source) {
		return nil
	}
	return watchLyricsCmd(msg.SessionID, m.song.Source)
}

func (m *Model) handleLyricsWatch(msg LyricsWatchMsg) tea.Cmd {
	if !m.liveSong(msg.SessionID) {
		if msg.Watcher != nil {
			msg.Watcher.Close()
		}
		return nil
	}

	if msg.Err != nil {
		m.logger.WithError(msg.Err).Debug("Lyric hot reload unavailable")
		return nil
	}

	m.song.Attach(msg.Watcher)
	return waitLyricsChangeCmd(msg.SessionID, msg.Watcher)
}

func (m *Model) handleLyricsChanged(msg LyricsChangedMsg) tea.Cmd {
	if !m.liveSong(msg.SessionID) || m.song.Watcher() == nil {
		return nil
	}

	m.logger.WithField("source", m.song.Source).Info("Lyrics file changed, reloading")
	return tea.Batch(
		loadLyricsCmd(msg.SessionID, m.song.Source),
		waitLyricsChangeCmd(msg.SessionID, m.song.Watcher()),
	)
}

func (m *Model) handleArtLoaded(msg ArtLoadedMsg) {
	if msg.Err != nil {
		m.logger.WithError(msg.Err).WithField("asset", msg.Name).Warn("Image unavailable")
		return
	}

	m.art[msg.Name] = msg.Image
	if msg.Palette != nil {
		m.palette = msg.Palette
	}
}

func loadLyricsCmd(id uuid.UUID, src string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lyricsLoadTimeout)
		defer cancel()

		track, err := lyrics.Load(ctx, src)
		return LyricsLoadedMsg{SessionID: id, Track: track, Err: err}
	}
}

func watchLyricsCmd(id uuid.UUID, path string) tea.Cmd {
	return func() tea.Msg {
		w, err := lyrics.Watch(path)
		return LyricsWatchMsg{SessionID: id, Watcher: w, Err: err}
	}
}

func waitLyricsChangeCmd(id uuid.UUID, w *lyrics.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changes():
			return LyricsChangedMsg{SessionID: id}
		case <-w.Done():
			return nil
		}
	}
}

func loadArtCmd(name, path string) tea.Cmd {
	return func() tea.Msg {
		img, err := artwork.Load(path)
		if err != nil {
			return ArtLoadedMsg{Name: name, Err: err}
		}

		msg := ArtLoadedMsg{Name: name, Image: img}
		if name == assets.Backdrop {
			msg.Palette = artwork.ExtractPalette(img)
		}
		return msg
	}
}
