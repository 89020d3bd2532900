package phase

import (
	"errors"
	"testing"
)

func TestHappyPath(t *testing.T) {
	c := NewController()
	if !c.Is(Countdown) {
		t.Fatalf("initial phase = %s", c.Current())
	}

	steps := []struct {
		name string
		do   func() (Transition, error)
		want Phase
	}{
		{"expire", c.Expire, Reveal},
		{"cake", c.StartCake, Cake},
		{"cake again", c.StartCake, Cake},
		{"back", c.Back, Reveal},
		{"song", c.StartSong, Lyrics},
	}

	for _, step := range steps {
		tr, err := step.do()
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if tr.To != step.want || c.Current() != step.want {
			t.Fatalf("%s: transition %s, current %s, want %s", step.name, tr, c.Current(), step.want)
		}
	}

	if err := c.FinishSong(); err != nil {
		t.Fatalf("FinishSong: %v", err)
	}
	if !c.Is(Lyrics) {
		t.Fatalf("FinishSong changed phase to %s", c.Current())
	}

	tr, err := c.EnterFinale()
	if err != nil || tr != (Transition{From: Lyrics, To: Finale}) {
		t.Fatalf("EnterFinale = %v, %v", tr, err)
	}
}

func TestExpireOnlyOnce(t *testing.T) {
	c := NewController()
	if _, err := c.Expire(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Expire(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Expire error = %v", err)
	}
}

func TestTriggersBeforeReveal(t *testing.T) {
	c := NewController()
	if _, err := c.StartCake(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("StartCake during countdown: %v", err)
	}
	if _, err := c.StartSong(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("StartSong during countdown: %v", err)
	}
	if c.CakeEnabled() || c.SongEnabled() {
		t.Error("controls enabled before reveal")
	}
}

func TestCakeDisabledDuringSong(t *testing.T) {
	c := NewController()
	c.Expire()
	c.StartSong()

	if c.CakeEnabled() {
		t.Error("CakeEnabled() during song")
	}
	if _, err := c.StartCake(); !errors.Is(err, ErrTriggerDisabled) {
		t.Errorf("StartCake during song: %v", err)
	}
	if _, err := c.StartSong(); !errors.Is(err, ErrTriggerDisabled) {
		t.Errorf("StartSong during song: %v", err)
	}

	c.FinishSong()
	if !c.CakeEnabled() {
		t.Error("cake not re-enabled after song")
	}
}

func TestFinaleRequiresCompletedSong(t *testing.T) {
	c := NewController()
	c.Expire()
	if _, err := c.EnterFinale(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("EnterFinale without song: %v", err)
	}

	c.StartSong()
	if _, err := c.EnterFinale(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("EnterFinale mid-song: %v", err)
	}

	c.FinishSong()
	if _, err := c.EnterFinale(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.EnterFinale(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second EnterFinale: %v", err)
	}
	if _, err := c.StartCake(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("StartCake from finale: %v", err)
	}
}

func TestFinishSongWithoutSong(t *testing.T) {
	c := NewController()
	if err := c.FinishSong(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("FinishSong = %v", err)
	}
}
