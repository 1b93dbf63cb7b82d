package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
			excluded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			err := InitWithOptions(Options{
				Level:  tt.level,
				Format: "console",
				File:   FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
			})
			if err != nil {
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

func TestJSONFormatCarriesComponentName(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "json.log")
	if err := InitWithOptions(Options{Level: "info", Format: "json", File: FileConfig{Path: logFile}}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("bmesh").Warn("bad face", zap.Int("index", 3))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, content)
	}
	if entry["logger"] != "bmesh" {
		t.Errorf("logger = %v, want bmesh", entry["logger"])
	}
	if entry["index"] != float64(3) {
		t.Errorf("index = %v, want 3", entry["index"])
	}
}

func TestNamedBeforeInit(t *testing.T) {
	Log, Sugar = nil, nil
	Named("convert").Info("dropped")
	Info("dropped too")
	Sync()
}

func TestInitNop(t *testing.T) {
	InitNop()
	if Log == nil || Sugar == nil {
		t.Fatal("InitNop left the globals nil")
	}
	Error("discarded")
}

func TestComponentCachesLogger(t *testing.T) {
	Log, Sugar = nil, nil
	c := NewComponent("bmesh")
	before := c.Logger()
	if before == nil {
		t.Fatal("Logger() before init returned nil")
	}

	InitNop()
	first := c.Logger()
	if first == before {
		t.Error("component kept the pre-init logger after InitNop")
	}
	if c.Logger() != first {
		t.Error("component rebuilt its logger without a global change")
	}

	InitNop()
	if c.Logger() == first {
		t.Error("component kept a logger from the replaced global")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 5 {
		t.Errorf("expected MaxBackups 5, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
