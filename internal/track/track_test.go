package track

import (
	"testing"
	"time"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want string
	}{
		{"nil", nil, ""},
		{"no title", &Info{Artist: "Ed Sheeran"}, ""},
		{"title only", &Info{Title: "Perfect"}, "Perfect"},
		{"full", &Info{Title: "Perfect", Artist: "Ed Sheeran"}, "Perfect - Ed Sheeran"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDurationLabel(t *testing.T) {
	if got := (&Info{Duration: 263400 * time.Millisecond}).DurationLabel(); got != "4:23" {
		t.Errorf("DurationLabel() = %s", got)
	}
	if got := (*Info)(nil).DurationLabel(); got != "-:--" {
		t.Errorf("nil DurationLabel() = %s", got)
	}
}
