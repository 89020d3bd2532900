package desktop

import (
	"errors"
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/cakeday/internal/logging"
)

func TestFilterServices(t *testing.T) {
	names := []string{
		"org.freedesktop.DBus",
		"org.mpris.MediaPlayer2.spotify",
		":1.42",
		"org.mpris.MediaPlayer2.firefox.instance123",
	}
	want := []string{"org.mpris.MediaPlayer2.firefox.instance123", "org.mpris.MediaPlayer2.spotify"}

	if got := FilterServices(names); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterServices() = %v, want %v", got, want)
	}
}

func TestTrackFromMetadata(t *testing.T) {
	tests := []struct {
		name   string
		md     map[string]dbus.Variant
		title  string
		artist string
	}{
		{
			"artist list",
			map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Perfect"),
				"xesam:artist": dbus.MakeVariant([]string{"Ed Sheeran", "Beyoncé"}),
			},
			"Perfect", "Ed Sheeran, Beyoncé",
		},
		{
			"artist string",
			map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Perfect"),
				"xesam:artist": dbus.MakeVariant("Ed Sheeran"),
			},
			"Perfect", "Ed Sheeran",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := trackFromMetadata(tt.md)
			if info == nil || info.Title != tt.title || info.Artist != tt.artist {
				t.Errorf("trackFromMetadata() = %+v", info)
			}
		})
	}

	if trackFromMetadata(map[string]dbus.Variant{}) != nil {
		t.Error("empty metadata produced a track")
	}
}

func TestNotifier(t *testing.T) {
	var sent []string
	n := NewNotifier(true, "", logging.Discard())
	n.send = func(title, message string, _ any) error {
		sent = append(sent, title+": "+message)
		return errors.New("no notification daemon")
	}

	n.Notify("It's time", "Happy birthday!")
	if len(sent) != 1 || sent[0] != "It's time: Happy birthday!" {
		t.Errorf("sent = %v", sent)
	}

	off := NewNotifier(false, "", logging.Discard())
	off.send = func(string, string, any) error {
		t.Error("disabled notifier sent")
		return nil
	}
	off.Notify("x", "y")

	var nilNotifier *Notifier
	nilNotifier.Notify("x", "y")
}
