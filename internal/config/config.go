package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAssetsDir  = "all-assets"
	DefaultConfigFile = "cakeday.toml"
	DefaultAutoplay   = "gesture"
	EnvPrefix         = "CAKEDAY_"
	PollInterval      = 100 * time.Millisecond
)

type Config struct {
	AssetsDir  string    `toml:"assets_dir"`
	Lyrics     string    `toml:"lyrics"`
	Autoplay   string    `toml:"autoplay"`
	SyncOffset float64   `toml:"sync_offset"`
	HideHeader bool      `toml:"hide_header"`
	Desktop    bool      `toml:"desktop"`
	Log        LogConfig `toml:"log"`

	// DemoSeconds, when positive, replaces the October 1 target with
	// now + DemoSeconds. It is only set from the command line.
	DemoSeconds int `toml:"-"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

func Default() *Config {
	return &Config{
		AssetsDir: DefaultAssetsDir,
		Autoplay:  DefaultAutoplay,
		Desktop:   true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(os.TempDir(), "cakeday.log"),
		},
	}
}

// Load builds the configuration from defaults, then the TOML file, then .env
// and the process environment. An empty path reads cakeday.toml only if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = getEnvOrDefault("CONFIG", DefaultConfigFile)
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.AssetsDir = getEnvOrDefault("ASSETS", c.AssetsDir)
	c.Lyrics = getEnvOrDefault("LYRICS", c.Lyrics)
	c.Autoplay = getEnvOrDefault("AUTOPLAY", c.Autoplay)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)

	if v := getEnv("SYNC_OFFSET"); v != "" {
		offset, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSYNC_OFFSET %q: %w", EnvPrefix, v, err)
		}
		c.SyncOffset = offset
	}

	if v := getEnv("HIDE_HEADER"); v != "" {
		c.HideHeader = parseBool(v)
	}
	if v := getEnv("DESKTOP"); v != "" {
		c.Desktop = parseBool(v)
	}

	return nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Autoplay) {
	case "gesture", "allow":
	default:
		return fmt.Errorf("invalid autoplay policy %q (want gesture or allow)", c.Autoplay)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Log.Format)
	}

	if c.AssetsDir == "" {
		return errors.New("assets directory must not be empty")
	}

	return nil
}

// Asset resolves a file name inside the assets directory.
func (c *Config) Asset(name string) string {
	return filepath.Join(c.AssetsDir, name)
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnv(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func getEnvOrDefault(key string, fallback string) string {
	value := getEnv(key)
	if value == "" {
		return fallback
	}
	return value
}
