package lyrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Track
	}{
		{"empty", "", nil},
		{"single line", "[00:02.00]hello", Track{{2, "hello"}}},
		{"minutes", "[01:05.5]later", Track{{65.5, "later"}}},
		{"no fraction", "[0:09]plain", Track{{9, "plain"}}},
		{"untagged lines ignored", "[ar:someone]\njust text\n[00:01.00]one", Track{{1, "one"}}},
		{"empty text kept", "[00:03.00]", Track{{3, ""}}},
		{"text trimmed", "[00:01.00]   spaced out   ", Track{{1, "spaced out"}}},
		{"crlf", "[00:01.00]a\r\n[00:02.00]b\r\n", Track{{1, "a"}, {2, "b"}}},
		{
			"multiple tags share text",
			"[00:10.00][00:30.00]chorus",
			Track{{10, "chorus"}, {30, "chorus"}},
		},
		{
			"out of order sorted",
			"[00:09.00]c\n[00:02.00]a\n[00:05.00]b",
			Track{{2, "a"}, {5, "b"}, {9, "c"}},
		},
		{
			"malformed tag skipped",
			"[00:xx]broken\n[00:04.00]fine",
			Track{{4, "fine"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) returned %d lines, want %d: %+v", tt.raw, len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseEmitsOneEntryPerTagSorted(t *testing.T) {
	raw := "[00:40.00][00:12.50][01:00.00]la la\n" +
		"[00:05.00]intro\n" +
		"no tag here\n" +
		"[00:12.50]same time\n" +
		"[00:20.00][00:21.00]"

	track := Parse(raw)

	wantTags := len(timeTag.FindAllString(raw, -1))
	if len(track) != wantTags {
		t.Fatalf("got %d entries, want one per tag (%d)", len(track), wantTags)
	}

	if !sort.SliceIsSorted(track, func(i, j int) bool {
		return track[i].TimeSeconds < track[j].TimeSeconds
	}) {
		t.Errorf("track not sorted: %+v", track)
	}
}

func TestFindActiveIndex(t *testing.T) {
	track := Track{{2.0, "a"}, {5.0, "b"}, {9.0, "c"}}

	tests := []struct {
		position float64
		want     int
	}{
		{0.0, -1},
		{1.99, -1},
		{2.0, 0},
		{4.99, 0},
		{5.0, 1},
		{8.999, 1},
		{9.0, 2},
		{120.0, 2},
	}

	for _, tt := range tests {
		if got := FindActiveIndex(track, tt.position); got != tt.want {
			t.Errorf("FindActiveIndex(%v) = %d, want %d", tt.position, got, tt.want)
		}
	}

	if got := FindActiveIndex(nil, 3); got != -1 {
		t.Errorf("empty track = %d, want -1", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00.00"},
		{9.5, "0:09.50"},
		{65.25, "1:05.25"},
		{-3, "0:00.00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.lrc")
	if err := os.WriteFile(path, []byte("[00:01.00]one\n[00:02.00]two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	track, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if track.Len() != 2 || track.Duration() != 2 {
		t.Errorf("unexpected track %+v", track)
	}
}

func TestLoadFailures(t *testing.T) {
	if _, err := Load(context.Background(), ""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("empty source error = %v, want ErrEmptySource", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.lrc")
	if _, err := Load(context.Background(), missing); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestWatchSeesInPlaceAndRenameSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.lrc")
	if err := os.WriteFile(path, []byte("[00:01.00]one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	expect := func(t *testing.T) {
		t.Helper()
		select {
		case <-w.Changes():
		case <-time.After(2 * time.Second):
			t.Fatal("no change reported")
		}
	}
	drain := func() {
		for {
			select {
			case <-w.Changes():
			case <-time.After(100 * time.Millisecond):
				return
			}
		}
	}

	renameSave := func(t *testing.T, text string) {
		t.Helper()
		tmp := filepath.Join(dir, ".song.lrc.tmp")
		if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(tmp, path); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		save func(t *testing.T)
	}{
		{
			name: "in place write",
			save: func(t *testing.T) {
				if err := os.WriteFile(path, []byte("[00:01.00]two\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "rename over target",
			save: func(t *testing.T) { renameSave(t, "[00:01.00]three\n") },
		},
		{
			name: "second rename over target",
			save: func(t *testing.T) { renameSave(t, "[00:01.00]four\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drain()
			tt.save(t)
			expect(t)
		})
	}

	t.Run("unrelated file", func(t *testing.T) {
		drain()
		if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case <-w.Changes():
			t.Error("change reported for another file")
		case <-time.After(300 * time.Millisecond):
		}
	})
}

func TestWatchRejects(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "empty", path: ""},
		{name: "remote", path: "https://example.com/song.lrc"},
		{name: "missing", path: filepath.Join(t.TempDir(), "missing.lrc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Watch(tt.path)
			if err == nil {
				w.Close()
				t.Fatalf("Watch(%q) succeeded, want error", tt.path)
			}
		})
	}
}
