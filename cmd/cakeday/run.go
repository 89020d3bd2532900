package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"karolbroda.com/cakeday/internal/assets"
	"karolbroda.com/cakeday/internal/config"
	"karolbroda.com/cakeday/internal/countdown"
	"karolbroda.com/cakeday/internal/desktop"
	"karolbroda.com/cakeday/internal/logging"
	"karolbroda.com/cakeday/internal/lyrics"
	"karolbroda.com/cakeday/internal/media"
	"karolbroda.com/cakeday/internal/terminal"
	"karolbroda.com/cakeday/internal/track"
	"karolbroda.com/cakeday/internal/ui"
)

var (
	demoSeconds int
	autoplay    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the birthday experience",
	Long:  `starts the countdown. once it reaches zero the greeting, cake and song unlock.`,
	RunE:  runExperience,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().IntVarP(&demoSeconds, "demo", "d", 0, "count down this many seconds instead of waiting for October 1st")
		c.Flags().StringVar(&autoplay, "autoplay", config.DefaultAutoplay, "autoplay policy: gesture (sound after the first key) or allow")
	}
	rootCmd.AddCommand(runCmd)
}

// loadConfig reads the config file and environment, then applies any flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("assets") {
		cfg.AssetsDir = assetsDir
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("sync-offset") {
		cfg.SyncOffset = syncOffset
	}
	if flags.Changed("hide-header") {
		cfg.HideHeader = hideHeader
	}
	if flags.Changed("no-desktop") {
		cfg.Desktop = !noDesktop
	}
	if flags.Changed("autoplay") {
		cfg.Autoplay = autoplay
	}
	if flags.Changed("demo") {
		cfg.DemoSeconds = demoSeconds
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runExperience(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer terminal.Reset()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	policy, err := media.ParsePolicy(cfg.Autoplay)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	statuses := assets.Check(assets.Manifest(cfg.AssetsDir), logger)

	lyricsSrc := cfg.Lyrics
	if lyricsSrc == "" {
		lyricsSrc = cfg.Asset(assets.Lyrics)
	}

	players := openPlayers(ctx, cfg, lyricsSrc, clock, logger)

	var songInfo *track.Info
	if st, ok := assets.Find(statuses, assets.Song); ok && st.Info.IsValid() {
		songInfo = st.Info
	}

	var others *desktop.Players
	if cfg.Desktop {
		others, err = desktop.Connect(logger)
		if err != nil {
			logger.WithError(err).Warn("Desktop player control unavailable")
			others = nil
		} else {
			defer others.Close()
		}
	}

	var cd *countdown.Countdown
	if cfg.DemoSeconds > 0 {
		cd = countdown.New(clock, clock.Now().Add(time.Duration(cfg.DemoSeconds)*time.Second))
	}

	art := make(map[string]string)
	for _, name := range []string{assets.Backdrop, assets.Monkey, assets.Confetti} {
		if st, ok := assets.Find(statuses, name); ok && st.Exists {
			art[name] = st.Path
		}
	}

	notice := ""
	if missing := assets.Missing(statuses); len(missing) > 0 {
		notice = fmt.Sprintf("%d asset(s) missing, run 'cakeday assets check'", len(missing))
	}

	logger.WithFields(logrus.Fields{
		"assets":   cfg.AssetsDir,
		"autoplay": policy.String(),
		"demo":     cfg.DemoSeconds,
		"desktop":  others != nil,
	}).Info("Starting cakeday")

	model := ui.NewModel(ui.ModelConfig{
		Logger:     logger,
		Clock:      clock,
		Countdown:  cd,
		Players:    players,
		Autoplay:   policy,
		Lyrics:     lyricsSrc,
		SongInfo:   songInfo,
		SyncOffset: cfg.SyncOffset,
		HideHeader: cfg.HideHeader,
		Art:        art,
		TermCaps:   terminal.DetectCapabilities(),
		Notifier:   desktop.NewNotifier(cfg.Desktop, cfg.Asset(assets.Backdrop), logger),
		Desktop:    others,
		Notice:     notice,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	final, err := p.Run()
	if m, ok := final.(ui.Model); ok && !m.IsQuitting() {
		m.Stop()
	}
	if err != nil {
		return fmt.Errorf("error running bubble tea: %w", err)
	}

	return nil
}

// openPlayers opens the three audio targets. Anything that cannot play gets
// a silent timeline so the experience still runs; the song's stand-in lasts
// until just after the last lyric.
func openPlayers(ctx context.Context, cfg *config.Config, lyricsSrc string, clock clockwork.Clock, logger logrus.FieldLogger) map[media.Target]media.Player {
	songFallback := ui.AmbientFallback

	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if lrc, err := lyrics.Load(loadCtx, lyricsSrc); err == nil && lrc.Len() > 0 {
		songFallback = time.Duration(lrc.Duration()*float64(time.Second)) + ui.SongPadding
	}

	sources := []struct {
		target   media.Target
		name     string
		fallback time.Duration
	}{
		{media.Background, assets.BackgroundMusic, ui.AmbientFallback},
		{media.Song, assets.Song, songFallback},
		{media.Cake, assets.CakeClip, ui.CakeFallback},
	}

	players := make(map[media.Target]media.Player, len(sources))
	for _, src := range sources {
		p, err := media.Open(cfg.Asset(src.name), src.fallback, clock)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"target":   src.target.String(),
				"fallback": src.fallback.String(),
			}).WithError(err).Warn("Using a silent timeline")
		}
		players[src.target] = p
	}

	return players
}
