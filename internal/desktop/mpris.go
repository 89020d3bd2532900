package desktop

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"karolbroda.com/cakeday/internal/track"
)

const (
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisIface       = "org.mpris.MediaPlayer2"
	mprisPlayerIface = mprisIface + ".Player"
)

type PlayerInfo struct {
	Service  string
	Identity string
	Status   string
	Track    *track.Info
}

func (p PlayerInfo) Playing() bool { return p.Status == "Playing" }

// Players talks to MPRIS media players on the session bus. It pauses the
// ones that are playing when the song starts and resumes exactly those when
// it ends.
type Players struct {
	bus    *dbus.Conn
	logger logrus.FieldLogger
	paused []string
}

func Connect(logger logrus.FieldLogger) (*Players, error) {
	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Players{bus: bus, logger: logger}, nil
}

func (p *Players) Close() error {
	if p == nil || p.bus == nil {
		return nil
	}
	return p.bus.Close()
}

func (p *Players) Services() ([]string, error) {
	if p == nil || p.bus == nil {
		return nil, errors.New("not connected to session bus")
	}

	var names []string
	if err := p.bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("failed to list dbus names: %w", err)
	}
	return FilterServices(names), nil
}

// FilterServices keeps MPRIS player names, sorted.
func FilterServices(names []string) []string {
	services := lo.Filter(names, func(n string, _ int) bool {
		return strings.HasPrefix(n, mprisPrefix)
	})
	sort.Strings(services)
	return services
}

func (p *Players) List() ([]PlayerInfo, error) {
	services, err := p.Services()
	if err != nil {
		return nil, err
	}

	return lo.Map(services, func(service string, _ int) PlayerInfo {
		obj := p.bus.Object(service, mprisPath)
		info := PlayerInfo{
			Service:  service,
			Identity: propString(obj, mprisIface+".Identity"),
			Status:   propString(obj, mprisPlayerIface+".PlaybackStatus"),
		}
		if v, err := obj.GetProperty(mprisPlayerIface + ".Metadata"); err == nil {
			if md, ok := v.Value().(map[string]dbus.Variant); ok {
				info.Track = trackFromMetadata(md)
			}
		}
		return info
	}), nil
}

// PauseOthers pauses every player that is currently playing and remembers
// them for Resume.
func (p *Players) PauseOthers() int {
	players, err := p.List()
	if err != nil {
		p.logger.WithError(err).Warn("Cannot list media players")
		return 0
	}

	for _, pl := range lo.Filter(players, func(pl PlayerInfo, _ int) bool { return pl.Playing() }) {
		call := p.bus.Object(pl.Service, mprisPath).Call(mprisPlayerIface+".Pause", 0)
		if call.Err != nil {
			p.logger.WithFields(logrus.Fields{
				"service": pl.Service,
				"error":   call.Err.Error(),
			}).Warn("Failed to pause media player")
			continue
		}
		p.paused = append(p.paused, pl.Service)
		p.logger.WithField("service", pl.Service).Info("Paused media player for the song")
	}

	return len(p.paused)
}

// Resume restarts the players PauseOthers paused. A second call is a no-op.
func (p *Players) Resume() {
	for _, service := range p.paused {
		if call := p.bus.Object(service, mprisPath).Call(mprisPlayerIface+".Play", 0); call.Err != nil {
			p.logger.WithFields(logrus.Fields{
				"service": service,
				"error":   call.Err.Error(),
			}).Warn("Failed to resume media player")
		}
	}
	p.paused = nil
}

func propString(obj dbus.BusObject, name string) string {
	v, err := obj.GetProperty(name)
	if err != nil {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func trackFromMetadata(md map[string]dbus.Variant) *track.Info {
	info := &track.Info{
		Title:  variantString(md["xesam:title"]),
		Artist: variantArtist(md["xesam:artist"]),
		Album:  variantString(md["xesam:album"]),
	}
	if !info.IsValid() {
		return nil
	}
	return info
}

func variantString(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}

func variantArtist(v dbus.Variant) string {
	switch typed := v.Value().(type) {
	case []string:
		return strings.Join(typed, ", ")
	case string:
		return typed
	default:
		return ""
	}
}
