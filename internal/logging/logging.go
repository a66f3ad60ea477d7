// Package logging configures the global slog logger for the slate
// daemon.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Setup installs the global logger from the daemon's log settings, as
// they appear in the config file or on the command line. Format "text"
// forces tinted human-readable output and "json" forces JSON; anything
// else picks tinted output on a terminal and JSON otherwise, so a
// service manager gets parseable lines without any configuration.
// Unknown level strings fall back to info.
func Setup(format, level string) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, format, level)))
}

func newHandler(w *os.File, format, level string) slog.Handler {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	if tinted(format, w) {
		return tinter.NewHandler(w, &tinter.Options{
			Level:      lvl,
			TimeFormat: "15:04:05.000",
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
}

func tinted(format string, w *os.File) bool {
	switch strings.ToLower(format) {
	case "text", "tint", "human":
		return true
	case "json":
		return false
	}
	return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}
