package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"karolbroda.com/cakeday/internal/phase"
)

type keyMap struct {
	Cake        key.Binding
	Song        key.Binding
	Acknowledge key.Binding
	Close       key.Binding
	Cancel      key.Binding
	Back        key.Binding
	SyncUp      key.Binding
	SyncDown    key.Binding
	SyncForward key.Binding
	SyncBack    key.Binding
	SyncReset   key.Binding
	Header      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Cake:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cake")),
		Song:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "our song")),
		Acknowledge: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start music")),
		Close:       key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x", "close")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Back:        key.NewBinding(key.WithKeys("b", "backspace"), key.WithHelp("b", "back")),
		SyncUp:      key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+", "lyrics +0.1s")),
		SyncDown:    key.NewBinding(key.WithKeys("-", "down"), key.WithHelp("-", "lyrics -0.1s")),
		SyncForward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "lyrics +0.5s")),
		SyncBack:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "lyrics -0.5s")),
		SyncReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset sync")),
		Header:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "header")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Acknowledge, k.Close, k.Cake, k.Song, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Cake, k.Song, k.Back},
		{k.Acknowledge, k.Close, k.Cancel},
		{k.SyncUp, k.SyncDown, k.SyncForward, k.SyncBack, k.SyncReset},
		{k.Header, k.Help, k.Quit},
	}
}

// refreshKeys enables exactly the bindings that act in the current state, so
// the help footer only lists what a key press would do.
func (m *Model) refreshKeys() {
	triggers := m.controls && (m.phases.Is(phase.Reveal) || m.phases.Is(phase.Cake))
	_, cakePopup := m.cakePopup()
	inLyrics := m.phases.Is(phase.Lyrics) && m.song != nil

	m.keys.Cake.SetEnabled(triggers && m.phases.CakeEnabled())
	m.keys.Song.SetEnabled(triggers && m.phases.SongEnabled())
	m.keys.Acknowledge.SetEnabled(len(m.pending) > 0)
	m.keys.Close.SetEnabled(cakePopup || m.hint)
	m.keys.Cancel.SetEnabled(cakePopup || m.hint || m.prompt)
	m.keys.Back.SetEnabled(m.phases.Is(phase.Cake))
	m.keys.Header.SetEnabled(inLyrics)

	for _, b := range []*key.Binding{&m.keys.SyncUp, &m.keys.SyncDown, &m.keys.SyncForward, &m.keys.SyncBack, &m.keys.SyncReset} {
		b.SetEnabled(inLyrics)
	}
}

func (m Model) cakePopup() (string, bool) {
	if m.cake == nil {
		return "", false
	}
	w, ok := m.cake.Popup()
	return w.Message, ok
}

func (m Model) cakePopupOpen() bool {
	_, ok := m.cakePopup()
	return ok
}
