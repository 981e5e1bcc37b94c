package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bamsammich/sightsync/internal/ui"
)

// logSetup describes where log records go.
type logSetup struct {
	console io.Writer
	level   slog.Level
	color   bool
	file    string // JSON log; empty disables it
	runID   string
}

// newLogger builds the console handler and, when a log file is set, a
// debug-level JSON handler fanned out next to it. The second logger writes
// to the JSON log only and is nil without one. The returned closer flushes
// the log file.
func newLogger(s logSetup) (*slog.Logger, *slog.Logger, func() error, error) {
	var handler slog.Handler = ui.NewConsoleHandler(s.console, ui.ConsoleOptions{
		Level: s.level,
		Color: s.color,
	})
	closer := func() error { return nil }

	if s.file != "" {
		lf, err := os.Create(s.file)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}).WithAttrs([]slog.Attr{slog.String("run", s.runID)})
		handler = ui.NewMultiHandler(handler, jsonHandler)
		closer = lf.Close
		return slog.New(handler), slog.New(jsonHandler), closer, nil
	}
	return slog.New(handler), nil, closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTTY(f.Fd())
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return ui.TermWidth(f.Fd())
	}
	return 80
}
