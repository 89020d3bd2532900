package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssetsDir != DefaultAssetsDir || cfg.Autoplay != DefaultAutoplay || !cfg.Desktop {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.Asset("perfect.lrc"); got != filepath.Join(DefaultAssetsDir, "perfect.lrc") {
		t.Errorf("Asset() = %s", got)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	toml := `
assets_dir = "from-file"
autoplay = "allow"
sync_offset = 0.3

[log]
level = "debug"
`
	if err := os.WriteFile(DefaultConfigFile, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".env", []byte("CAKEDAY_LOG_FORMAT=json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAKEDAY_ASSETS", "from-env")
	// register a restore for the variable godotenv is about to set
	t.Setenv("CAKEDAY_LOG_FORMAT", "")
	os.Unsetenv("CAKEDAY_LOG_FORMAT")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"env beats file", cfg.AssetsDir, "from-env"},
		{"file beats default", cfg.Autoplay, "allow"},
		{"file offset", cfg.SyncOffset, 0.3},
		{"nested table", cfg.Log.Level, "debug"},
		{"dotenv", cfg.Log.Format, "json"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("nope.toml"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad offset", map[string]string{"CAKEDAY_SYNC_OFFSET": "soon"}},
		{"bad autoplay", map[string]string{"CAKEDAY_AUTOPLAY": "always"}},
		{"bad log format", map[string]string{"CAKEDAY_LOG_FORMAT": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "on"} {
		if !parseBool(v) {
			t.Errorf("parseBool(%q) = false", v)
		}
	}
	for _, v := range []string{"0", "false", "nah", ""} {
		if parseBool(v) {
			t.Errorf("parseBool(%q) = true", v)
		}
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
