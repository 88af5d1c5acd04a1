package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNopBeforeInit(t *testing.T) {
	// Library code logs before main initialises anything.
	Named("scene").Info("no-op", zap.String("k", "v"))
	Debug("no-op")
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "orrery.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1, // smallest lumberjack allows
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}

	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	longMessage := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, longMessage)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name != "orrery.log" && strings.HasPrefix(name, "orrery") {
			rotated++
			if !strings.Contains(name, "-20") {
				t.Errorf("rotated file %s doesn't have expected timestamp format", name)
			}
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{level: "error", expected: []string{"ERROR"}, excluded: []string{"WARN", "INFO", "DEBUG"}},
		{level: "warn", expected: []string{"ERROR", "WARN"}, excluded: []string{"INFO", "DEBUG"}},
		{level: "info", expected: []string{"ERROR", "WARN", "INFO"}, excluded: []string{"DEBUG"}},
		{level: "debug", expected: []string{"ERROR", "WARN", "INFO", "DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamedTagsComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("camera").Info("reset")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"logger":"camera"`) {
		t.Errorf("expected component name in output, got %s", content)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/orrery.log")

	if cfg.Path != "/tmp/orrery.log" {
		t.Errorf("expected path /tmp/orrery.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
