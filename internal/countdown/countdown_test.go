package countdown

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestNextTarget(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before target this year",
			time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC),
			time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"after target rolls to next year",
			time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC),
			time.Date(2027, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"exactly at target rolls over",
			time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2027, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"one second before target",
			time.Date(2026, time.September, 30, 23, 59, 59, 0, time.UTC),
			time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextTarget(tt.now); !got.Equal(tt.want) {
				t.Errorf("NextTarget(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestBreakdown(t *testing.T) {
	tests := []struct {
		diff time.Duration
		want string
	}{
		{90061 * time.Second, "01:01:01:01"},
		{0, "00:00:00:00"},
		{-5 * time.Second, "00:00:00:00"},
		{59*time.Second + 999*time.Millisecond, "00:00:00:59"},
		{100 * 24 * time.Hour, "100:00:00:00"},
	}

	for _, tt := range tests {
		if got := Breakdown(tt.diff).String(); got != tt.want {
			t.Errorf("Breakdown(%v) = %s, want %s", tt.diff, got, tt.want)
		}
	}
}

func TestTickFiresOnce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.September, 30, 23, 59, 58, 0, time.UTC))
	c := NewDefault(clock)

	remaining, fired := c.Tick()
	if fired || remaining.Seconds != 2 {
		t.Fatalf("first tick = %v fired=%v", remaining, fired)
	}

	clock.Advance(2 * time.Second)

	remaining, fired = c.Tick()
	if !fired || !remaining.IsZero() {
		t.Fatalf("expiry tick = %v fired=%v", remaining, fired)
	}

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		remaining, fired = c.Tick()
		if fired {
			t.Fatalf("tick %d after expiry fired again", i)
		}
		if !remaining.IsZero() {
			t.Fatalf("display moved after expiry: %v", remaining)
		}
	}

	if !c.Expired() {
		t.Error("Expired() = false after firing")
	}
}
