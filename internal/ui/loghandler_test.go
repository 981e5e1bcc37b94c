package ui_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sightsync/internal/ui"
)

func TestMultiHandler_ConsoleAndJSON(t *testing.T) {
	t.Parallel()

	var console, jsonBuf bytes.Buffer
	consoleH := ui.NewConsoleHandler(&console, ui.ConsoleOptions{Level: slog.LevelInfo})
	jsonH := slog.NewJSONHandler(&jsonBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(ui.NewMultiHandler(consoleH, jsonH))
	logger.Info("inspected", "path", "cam1/a.avi", "old", true)
	logger.Debug("scan complete", "files", 2)

	assert.Contains(t, console.String(), "INF inspected path=cam1/a.avi old=yes")
	assert.NotContains(t, console.String(), "scan complete")

	lines := strings.Split(strings.TrimSpace(jsonBuf.String()), "\n")
	require.Len(t, lines, 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "inspected", rec["msg"])
	assert.Equal(t, true, rec["old"])
}

func TestMultiHandler_LevelFiltering(t *testing.T) {
	t.Parallel()

	var debugBuf, warnBuf bytes.Buffer
	debugH := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warnH := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(ui.NewMultiHandler(debugH, warnH))
	logger.Info("info msg")
	logger.Warn("warn msg")

	// Debug handler sees both.
	assert.Contains(t, debugBuf.String(), "info msg")
	assert.Contains(t, debugBuf.String(), "warn msg")

	// Warn handler sees only warn.
	assert.NotContains(t, warnBuf.String(), "info msg")
	assert.Contains(t, warnBuf.String(), "warn msg")
}

func TestMultiHandler_Enabled(t *testing.T) {
	t.Parallel()

	warnH := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	errH := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})

	m := ui.NewMultiHandler(warnH, errH)

	// Enabled if ANY handler accepts the level.
	assert.True(t, m.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, m.Enabled(context.Background(), slog.LevelError))
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	m := ui.NewMultiHandler(h)
	logger := slog.New(m.WithAttrs([]slog.Attr{slog.String("component", "engine")}))

	logger.Info("hello")
	assert.Contains(t, buf.String(), "component=engine")
}

func TestMultiHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	m := ui.NewMultiHandler(h)
	logger := slog.New(m.WithGroup("sightsync"))

	logger.Info("event", "type", "FileProcessed")

	lines := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines), &rec))

	group, ok := rec["sightsync"].(map[string]any)
	require.True(t, ok, "expected group 'sightsync' in JSON output")
	assert.Equal(t, "FileProcessed", group["type"])
}

// brokenHandler fails every record with err.
type brokenHandler struct {
	slog.Handler
	err error
}

func (b brokenHandler) Handle(context.Context, slog.Record) error { return b.err }

func TestMultiHandler_JoinsErrors(t *testing.T) {
	t.Parallel()

	diskFull := errors.New("log file: no space left on device")
	closed := errors.New("console closed")
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)

	var buf bytes.Buffer
	ok := slog.NewTextHandler(&buf, nil)
	m := ui.NewMultiHandler(
		brokenHandler{Handler: base, err: diskFull},
		ok,
		brokenHandler{Handler: base, err: closed},
	)

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelWarn, "still written", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorIs(t, err, closed)
	assert.Contains(t, buf.String(), "still written")

	err = m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelDebug, "below every level", 0))
	require.NoError(t, err)
}
