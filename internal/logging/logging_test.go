package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.log")

	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("pressure drop computed", zap.Float64("dp_pa", 8842.5))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"dp_pa":8842.5`) {
		t.Errorf("expected structured field in log, got %s", data)
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.log")

	logger, err := New(Config{Level: "chatty", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("info message missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestConsoleToFileHasNoColour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.log")

	logger, err := New(Config{Level: "warn", Format: FormatConsole, Output: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("velocity above limit")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "WARN") || strings.Contains(string(data), "\x1b[") {
		t.Errorf("console log = %q", data)
	}
}

func TestInitializeSwapsGlobal(t *testing.T) {
	if L() == nil {
		t.Fatal("global logger should be initialised by init()")
	}
	t.Cleanup(func() { _ = Initialize(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "global.log")
	if err := Initialize(Config{Level: "info", Format: FormatJSON, Output: path}); err != nil {
		t.Fatal(err)
	}
	Named("solver").Info("solved", zap.String("fluid", "steam"))
	Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"logger":"solver"`) {
		t.Errorf("log = %s", data)
	}

	if err := Initialize(Config{Format: "yaml"}); err == nil {
		t.Error("expected error for unknown format")
	}
	if L() == nil {
		t.Error("failed Initialize must keep the previous logger")
	}
}
