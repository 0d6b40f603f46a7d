// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger builds the diagnostics logger written to dst (stderr).
// quiet keeps warnings and errors only; asJSON switches to the JSON handler.
func NewLogger(dst io.Writer, quiet, asJSON bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: dropTime}
	var h slog.Handler
	if asJSON {
		h = slog.NewJSONHandler(dst, opts)
	} else {
		h = slog.NewTextHandler(dst, opts)
	}
	return slog.New(h)
}

// dropTime keeps CLI diagnostics reproducible.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.Attr{}
	}
	return a
}

func Warnf(log *slog.Logger, format string, a ...any) {
	log.Warn(fmt.Sprintf(format, a...))
}
