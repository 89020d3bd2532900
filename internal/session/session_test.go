package session

import (
	"testing"
	"time"

	"karolbroda.com/cakeday/internal/lyrics"
)

func TestWindowContains(t *testing.T) {
	w := Window{Start: 2.0, End: 3.2}
	tests := []struct {
		pos  float64
		want bool
	}{
		{1.99, false},
		{2.0, true},
		{3.19, true},
		{3.2, false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestCakeWindowFiresOncePerSession(t *testing.T) {
	c := NewCake(DefaultCakeWindows(), time.Now())

	fires := 0
	for pos := 0.0; pos < 4.0; pos += 0.05 {
		if w, ok := c.Check(pos); ok {
			fires++
			if w.ID != "light" {
				t.Fatalf("fired %q at %v", w.ID, pos)
			}
		}
	}
	if fires != 1 {
		t.Fatalf("light window fired %d times, want 1", fires)
	}

	// seeking back into the window does not re-fire
	if _, ok := c.Check(2.5); ok {
		t.Error("re-fired after seek back")
	}

	next := NewCake(DefaultCakeWindows(), time.Now())
	if next.ID == c.ID {
		t.Error("sessions share an ID")
	}
	if _, ok := next.Check(2.5); !ok {
		t.Error("new session did not fire")
	}
}

func TestCakeBothWindows(t *testing.T) {
	c := NewCake(DefaultCakeWindows(), time.Now())

	var got []string
	for pos := 0.0; pos < 9.0; pos += 0.1 {
		if w, ok := c.Check(pos); ok {
			got = append(got, w.ID)
			c.Dismiss()
		}
	}
	if len(got) != 2 || got[0] != "light" || got[1] != "blow" {
		t.Errorf("fired %v, want [light blow]", got)
	}
}

func TestCakeDismissIdempotent(t *testing.T) {
	c := NewCake(DefaultCakeWindows(), time.Now())
	if c.Dismiss() {
		t.Error("Dismiss with no popup returned true")
	}

	c.Check(2.1)
	w, open := c.Popup()
	if !open || w.Message != "Wait, let me light up the candles for you." {
		t.Fatalf("Popup() = %+v, %v", w, open)
	}
	if !c.Dismiss() {
		t.Error("first Dismiss returned false")
	}
	if c.Dismiss() {
		t.Error("second Dismiss returned true")
	}
}

func TestCakeEnd(t *testing.T) {
	c := NewCake(DefaultCakeWindows(), time.Now())
	if !c.End() || c.End() {
		t.Fatal("End should succeed exactly once")
	}
	if _, ok := c.Check(2.5); ok {
		t.Error("ended session fired a window")
	}
}

func TestSongFinishOnce(t *testing.T) {
	s := NewSong("perfect.lrc", 0, time.Now())
	s.SetTrack(lyrics.Track{{TimeSeconds: 1, Text: "a"}, {TimeSeconds: 3, Text: "b"}})

	if h := s.Update(1.5); !h.Changed || h.Current != 0 {
		t.Fatalf("Update = %+v", h)
	}

	if !s.Finish() {
		t.Fatal("first Finish returned false")
	}
	if s.Finish() {
		t.Error("second Finish returned true")
	}
	if s.Syncer().Current() != -1 {
		t.Errorf("highlight not cleared: %d", s.Syncer().Current())
	}
	if h := s.Update(3.5); h.Changed || h.Current != -1 {
		t.Errorf("Update after finish = %+v", h)
	}
}

func TestSongOffset(t *testing.T) {
	s := NewSong("", 0.5, time.Now())
	s.SetTrack(lyrics.Track{{TimeSeconds: 2, Text: "x"}})

	if h := s.Update(1.6); h.Current != 0 {
		t.Errorf("offset not applied: %+v", h)
	}
}
