package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"karolbroda.com/cakeday/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cakeday.log")

	logger, closer, err := New(config.LogConfig{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.WithField("phase", "reveal").Debug("phase changed")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"phase":"reveal"`) {
		t.Errorf("log file missing field: %s", data)
	}
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"info", logrus.InfoLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"shouting", 0, true},
	}
	for _, tt := range tests {
		logger, _, err := New(config.LogConfig{Level: tt.level, File: "-"})
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v", tt.level, err)
			continue
		}
		if err == nil && logger.GetLevel() != tt.want {
			t.Errorf("New(%q) level = %v", tt.level, logger.GetLevel())
		}
	}
}
