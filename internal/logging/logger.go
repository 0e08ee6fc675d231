package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hanamilabs/safeguard-provisioner/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the per-run logger. Each run gets its own log artifact named
// by start time; the rotating writer only caps runaway size within a run.
// Returns the log path so the operator can be pointed at it.
func New(cfg config.Config, start time.Time) (*slog.Logger, string, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, "", err
	}

	logPath := filepath.Join(cfg.LogDir, fmt.Sprintf("safeguard_setup_%s.log", start.Format("20060102_150405")))
	rotatingWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(rotatingWriter, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	return slog.New(handler), logPath, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
