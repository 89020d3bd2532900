package lyrics

import "testing"

func TestSyncerTransitions(t *testing.T) {
	s := NewSyncer(Track{{2.0, "a"}, {5.0, "b"}, {9.0, "c"}})

	if h := s.Update(0); h.Changed || h.Current != -1 {
		t.Fatalf("before first line: %+v", h)
	}

	h := s.Update(2.0)
	if !h.Changed || h.Current != 0 || h.Previous != -1 {
		t.Fatalf("entering first window: %+v", h)
	}

	for _, pos := range []float64{2.1, 3, 4.5, 4.99} {
		if h := s.Update(pos); h.Changed {
			t.Errorf("Update(%v) re-triggered inside the same window: %+v", pos, h)
		}
	}

	h = s.Update(5.0)
	if !h.Changed || h.Current != 1 || h.Previous != 0 {
		t.Fatalf("entering second window: %+v", h)
	}
	if s.State(1) != LineActive || s.State(0) != LineFadingOut || s.State(2) != LineIdle {
		t.Errorf("states = %v %v %v", s.State(0), s.State(1), s.State(2))
	}

	if h := s.Update(30); !h.Changed || h.Current != 2 {
		t.Fatalf("last window: %+v", h)
	}
}

func TestSyncerReset(t *testing.T) {
	s := NewSyncer(Track{{1, "a"}, {2, "b"}})
	s.Update(2.5)

	h := s.Reset()
	if !h.Changed || h.Current != -1 {
		t.Fatalf("Reset() = %+v", h)
	}
	for i := 0; i < 2; i++ {
		if s.State(i) != LineIdle {
			t.Errorf("line %d still highlighted after reset", i)
		}
	}

	if h := s.Reset(); h.Changed {
		t.Errorf("second Reset() reported a change")
	}
}

func TestSyncerOffset(t *testing.T) {
	s := NewSyncer(Track{{2.0, "a"}, {5.0, "b"}})
	s.SetOffset(0.5)

	if h := s.Update(1.5); h.Current != 0 {
		t.Errorf("offset not applied: %+v", h)
	}
}

func TestSyncerReplace(t *testing.T) {
	s := NewSyncer(Track{{1, "old"}})
	s.Update(5)

	s.Replace(Track{{1, "new"}, {3, "newer"}})
	if s.Current() != -1 {
		t.Fatalf("replace kept stale index %d", s.Current())
	}
	if h := s.Update(5); !h.Changed || h.Current != 1 {
		t.Errorf("after replace: %+v", h)
	}
}
