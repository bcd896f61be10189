package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel logrus.Level
	}{
		{"debug level", "debug", logrus.DebugLevel},
		{"info level", "info", logrus.InfoLevel},
		{"warn level", "warn", logrus.WarnLevel},
		{"error level", "error", logrus.ErrorLevel},
		{"uppercase level", "DEBUG", logrus.DebugLevel},
		{"invalid level defaults to info", "nope", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Initialize(tt.level)
			if logger.GetLevel() != tt.wantLevel {
				t.Errorf("Initialize(%q) level = %v, want %v", tt.level, logger.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestSetupFileLogging(t *testing.T) {
	logger := Initialize("info")

	logFile := filepath.Join(t.TempDir(), "logs", "client.log")
	if err := SetupFileLogging(logger, logFile); err != nil {
		t.Fatalf("SetupFileLogging() returned error: %v", err)
	}

	logger.Info("test entry")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Log file should contain the written entry")
	}
}

func TestSetupFileLoggingEmptyPath(t *testing.T) {
	logger := Initialize("info")
	if err := SetupFileLogging(logger, ""); err != nil {
		t.Errorf("SetupFileLogging() with empty path should be a no-op, got error: %v", err)
	}
}

func TestNewComponentLogger(t *testing.T) {
	logger := Initialize("info")
	entry := NewComponentLogger(logger, "guard")

	if entry.Data["component"] != "guard" {
		t.Errorf("Expected component field 'guard', got '%v'", entry.Data["component"])
	}
}
