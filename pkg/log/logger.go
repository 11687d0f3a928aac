// Package log provides structured, leveled logging for the churnpipe
// pipeline. Log events are JSON with severity/message keys and, for errors
// created by pkg/errors, an extracted stacktrace attribute. Pipeline stages
// report progress through these events instead of print statements.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs the default JSON logger at the given level.
func SetupLogger(loglevel string) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, ToLogLevel(loglevel))))
}

// newHandler builds the JSON handler stack: key remapping plus stacktrace
// extraction for wrapped errors.
func newHandler(w io.Writer, level slog.Level) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		// Rename the standard keys so events keep the severity/message
		// shape log aggregators ingest directly.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	return WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
