package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/spam-sorter/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for name, want := range tests {
		if got := parseLevel(name); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInitLoggerWritesToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorter.log")
	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("logging.output", path)
	cfg.Set("logging.level", "warn")
	cfg.Set("logging.format", "json")

	logger, err := InitLogger(cfg)
	if err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"visible"`) {
		t.Errorf("log output missing warn entry: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry leaked past warn level: %s", out)
	}
}

func TestInitConsoleLogger(t *testing.T) {
	logger, err := InitConsoleLogger(true, true)
	if err != nil {
		t.Fatalf("InitConsoleLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}
}
