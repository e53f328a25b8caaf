package util

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps debug, info, warn or error to a slog level, ignoring
// case.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// SetLogLevel installs a text handler on stderr at the given level as the
// default slog logger.
func SetLogLevel(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// InitSlog configures slog from the LOG_LEVEL environment variable. An
// unknown level falls back to info. Without LOG_LEVEL the default logger
// is left alone.
func InitSlog() {
	if name, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level, _ := ParseLogLevel(name)
		SetLogLevel(level)
	}
}
