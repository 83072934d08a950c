// Package logger builds the process slog.Logger. Attributes whose keys name
// a credential are masked before they reach the handler.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Redacted replaces the value of a masked attribute.
const Redacted = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"app_id":      {},
	"appid":       {},
	"access_key":  {},
	"secret_key":  {},
	"password":    {},
	"partner_tag": {},
}

// New creates a logger writing to stderr. Level is one of debug, info, warn
// or error; format is text or json. Unknown values fall back to info and
// text.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("app", "pricediff")
}

// ParseLevel converts a level string to slog.Level, ignoring case.
// "warning" is accepted for warn. Everything unrecognized is LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	return a
}
