package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

// ConsoleOptions configures a ConsoleHandler.
type ConsoleOptions struct {
	Level slog.Leveler
	Color bool
}

// ConsoleHandler is a slog.Handler for humans:
//
//	15:04:05.000 INF message key=value flag=yes
//
// Booleans render as yes/no. Level tags and flags are coloured when
// Color is set.
type ConsoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	theme  theme
	prefix string // group prefix for keys, with trailing dot
	attrs  string // pre-rendered WithAttrs output
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
func NewConsoleHandler(w io.Writer, opts ConsoleOptions) *ConsoleHandler {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		theme: newTheme(w, opts.Color),
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(h.theme.render(h.theme.muted, r.Time.Format("15:04:05.000")))
		b.WriteByte(' ')
	}
	b.WriteString(h.levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	for _, a := range attrs {
		h.appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs = h.attrs + b.String()
	return &h2
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func (h *ConsoleHandler) levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return h.theme.render(h.theme.err, "ERR")
	case l >= slog.LevelWarn:
		return h.theme.render(h.theme.warn, "WRN")
	case l >= slog.LevelInfo:
		return h.theme.render(h.theme.ok, "INF")
	default:
		return h.theme.render(h.theme.muted, "DBG")
	}
}

func (h *ConsoleHandler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range attrs {
			h.appendAttr(b, prefix, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(h.theme.render(h.theme.muted, prefix+a.Key+"="))
	b.WriteString(h.formatValue(a.Key, a.Value))
}

func (h *ConsoleHandler) formatValue(key string, v slog.Value) string {
	switch v.Kind() {
	case slog.KindBool:
		return h.theme.yesNo(v.Bool())
	case slog.KindInt64:
		return h.theme.render(h.theme.num, strconv.FormatInt(v.Int64(), 10))
	case slog.KindDuration:
		return h.theme.render(h.theme.num, v.Duration().String())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindString:
		s := quoteIfNeeded(v.String())
		switch key {
		case "path", "src", "dst", "source", "target":
			return h.theme.render(h.theme.path, s)
		case "error":
			return h.theme.render(h.theme.err, s)
		}
		return s
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return h.theme.render(h.theme.err, quoteIfNeeded(err.Error()))
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r) {
			return strconv.Quote(s)
		}
	}
	return s
}
