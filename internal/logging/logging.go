// Package logging builds the slog handler used by the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
)

// Options selects how log output is rendered.
type Options struct {
	Verbose bool
	// Color forces colored output on or off. Nil means detect from w.
	Color *bool
}

// New returns a logger writing to w. Terminals get a tint handler,
// everything else gets slog's text handler.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	color := isTerminal(w)
	if opts.Color != nil {
		color = *opts.Color
	}

	if color {
		return slog.New(newTerminalHandler(w, level))
	}
	return slog.New(newTextHandler(w, level))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

func newTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:    runtime.GOOS == "windows",
		Level:      level,
		TimeFormat: "15:04:05",
		AddSource:  level <= slog.LevelDebug,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
